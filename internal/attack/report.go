package attack

import (
	"fmt"
	"io"
)

// WriteReport prints a human-readable comparison of the two runs.
// Presentation only; the classification helpers on Result carry the logic.
func WriteReport(w io.Writer, unsafe, safe Result, initialStock int64) {
	unsafeVerdict := "OK"
	if unsafe.Oversold(initialStock) {
		unsafeVerdict = "OVERSELLING"
	}
	safeVerdict := "ERROR"
	if safe.Exact(initialStock) {
		safeVerdict = "PERFECT"
	}

	fmt.Fprintf(w, "\nFLASH SALE CONCURRENCY TEST REPORT\n")
	fmt.Fprintf(w, "scenario: %d users fighting for %d items\n\n", unsafe.Attempted, initialStock)

	writeRun := func(title string, r Result, verdict string) {
		fmt.Fprintf(w, "%s\n", title)
		fmt.Fprintf(w, "  successful sales : %d\n", r.Succeeded)
		fmt.Fprintf(w, "  sold out         : %d\n", r.SoldOut)
		fmt.Fprintf(w, "  errors           : %d\n", r.Errored)
		fmt.Fprintf(w, "  final stock      : %d\n", r.FinalStock)
		fmt.Fprintf(w, "  elapsed          : %.3fs\n", r.Elapsed.Seconds())
		fmt.Fprintf(w, "  verdict          : %s\n\n", verdict)
	}
	writeRun("UNSAFE method (race condition)", unsafe, unsafeVerdict)
	writeRun("SAFE method (atomic script)", safe, safeVerdict)

	if oversold := int64(unsafe.Succeeded) - initialStock; oversold > 0 {
		fmt.Fprintf(w, "CRITICAL: unsafe method sold %d items that did not exist\n", oversold)
	}
	if unsafe.Errored > 0 || safe.Errored > 0 {
		fmt.Fprintf(w, "WARNING: %d unsafe / %d safe attempts errored; counts above exclude them\n",
			unsafe.Errored, safe.Errored)
	}
}
