package output

import "errors"

// ErrDanglingState is returned when a state recorded in R (the reverse-
// node index) for some keyword is not itself a member of P. spec.md §7
// names exactly this condition as the canonical example of a store
// inconsistency the implementation should be able to detect rather than
// silently propagate.
var ErrDanglingState = errors.New("output: state in R has no corresponding node in P")
