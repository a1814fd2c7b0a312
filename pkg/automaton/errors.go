package automaton

import "errors"

// ErrEmptyKeyword is returned by Add and Remove when the argument is blank
// after trimming whitespace.
var ErrEmptyKeyword = errors.New("automaton: empty keyword")
