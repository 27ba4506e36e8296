package merge

import "errors"

// ErrInsufficientInputs is returned when fewer than two documents are
// supplied to a merge.
var ErrInsufficientInputs = errors.New("at least 2 documents are required for merging")
