package maxprocs

import "runtime"

// Adjust leaves some CPU for background work and returns the new GOMAXPROCS.
// A positive limit caps the result further.
func Adjust(limit int) int {
	procs := runtime.GOMAXPROCS(0)

	switch {
	case procs == 1:
	case procs < 6:
		procs--
	default:
		procs -= 2
	}

	if limit > 0 && limit < procs {
		procs = limit
	}

	runtime.GOMAXPROCS(procs)
	return procs
}
