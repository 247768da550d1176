// Package model defines API payload types shared by the service and the
// attack harness.
package model

// StockLevel reports the current value of the shared stock counter.
type StockLevel struct {
	CurrentStock int64 `json:"current_stock"`
}

// ResetResult acknowledges a stock reset.
type ResetResult struct {
	Message  string `json:"message"`
	NewStock int64  `json:"new_stock"`
}

// PurchaseReceipt reports the outcome of a successful purchase call.
type PurchaseReceipt struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
}
