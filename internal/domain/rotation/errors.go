// internal/domain/rotation/errors.go
package rotation

import "errors"

// Custom errors raised by the rotation core. The core never retries or
// logs; callers pick these up with errors.Is and decide what to tell the
// user.
var (
	// ErrScanWindowExceeded means the holiday set blocks every candidate
	// date within the bounded scan window, e.g. every Saturday for over a
	// year. This is a configuration problem, not a scheduling one.
	ErrScanWindowExceeded = errors.New("no valid slot date found within the scan window")

	// ErrEventNotFound means an operation referenced an event id that is
	// not present in the supplied snapshot.
	ErrEventNotFound = errors.New("event not found in snapshot")

	// ErrStaffNotFound means an operation referenced a staff id that is
	// not present in the supplied snapshot.
	ErrStaffNotFound = errors.New("staff not found in snapshot")

	// ErrDuplicateDate means two events in one cycle ended up on the same
	// date. Correct input can never produce it; it guards against bugs in
	// the cascade logic.
	ErrDuplicateDate = errors.New("two events share a date within one cycle")
)
