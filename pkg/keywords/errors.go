package keywords

import "errors"

// spec.md §7 names three kinds of error an implementation must
// distinguish so callers can react differently: a caller mistake, a
// transient collaborator outage, and a corrupted automaton. Instance
// methods return one of these (wrapping the underlying cause) when the
// cause is recognised by translate in instance.go; any other error,
// such as a failed store command other than Ping, is returned as the
// collaborator raised it.
var (
	// ErrInvalidArgument is returned by Add/Remove when the keyword is
	// blank after normalization.
	ErrInvalidArgument = errors.New("keywords: invalid argument")

	// ErrStoreUnavailable is returned when the store's liveness check
	// (Ping, made when an instance is opened) fails.
	ErrStoreUnavailable = errors.New("keywords: store unavailable")

	// ErrStoreInconsistency is returned when the automaton's invariants
	// (spec.md §3) are found violated, e.g. a state recorded against a
	// keyword in R with no corresponding node in P.
	ErrStoreInconsistency = errors.New("keywords: store inconsistency")
)
