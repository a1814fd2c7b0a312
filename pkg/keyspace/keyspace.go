// Package keyspace maps an instance name and a logical role onto a store
// key, and normalizes the text that flows into those keys. Every other
// package builds its keys through here so the naming scheme lives in one
// place.
package keyspace

import (
	"fmt"

	"github.com/nilcrux/ahokeep/pkg/textnorm"
)

// Keyspace builds the store keys for one named instance.
//
// Two keys are deliberately namespaced beyond what
// original_source/redis_ac_keywords.py does: Output and Node. The source
// names them only by state/keyword ({state}:output, {keyword}:node),
// which lets two instances sharing one Redis database corrupt each
// other's automata — its own docstring calls this out. This
// implementation prefixes both with the instance name (DESIGN.md OQ-1).
type Keyspace struct {
	name string
}

// New returns a Keyspace for the given instance name. The name itself is
// not normalized: it is an identifier chosen by the operator, not text
// being indexed.
func New(name string) Keyspace {
	return Keyspace{name: name}
}

// Name returns the instance name this Keyspace was built for.
func (k Keyspace) Name() string { return k.name }

// Keyword is the key of the unordered keyword set K.
func (k Keyspace) Keyword() string { return k.name + ":keyword" }

// Prefix is the key of the ordered prefix set P.
func (k Keyspace) Prefix() string { return k.name + ":prefix" }

// Suffix is the key of the ordered reversed-prefix set S.
func (k Keyspace) Suffix() string { return k.name + ":suffix" }

// Output is the key of the output set O(state) for the given trie state.
func (k Keyspace) Output(state string) string {
	return fmt.Sprintf("%s:%s:output", k.name, state)
}

// Node is the key of the reverse-node set R(keyword) for the given keyword.
func (k Keyspace) Node(keyword string) string {
	return fmt.Sprintf("%s:%s:node", k.name, keyword)
}

// Encode normalizes raw input text into the canonical form used for every
// key and value in the automaton: NFC-normalized, then lowercased.
func Encode(s string) string {
	return textnorm.Encode(s)
}

// Reverse returns s with its code points in reverse order. Used to build
// the suffix-set member for a given prefix-set member and back.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
