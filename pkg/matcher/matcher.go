/*
Package matcher runs the textbook Aho-Corasick scan (spec.md §4.3) over
the trie and output table pkg/trie and pkg/output maintain. It reads
only; it never mutates the automaton.

The goto/fail-retry control flow, including the double-fail fallback on
a missing transition, is grounded on itgcl-ahocorasick/ahocorasick.go's
match() function, translated from in-memory node pointers to the store
lookups pkg/trie exposes. The exact point at which each state's output
is appended — before the transition, with one extra append once the
loop ends — follows original_source/redis_ac_keywords.py's find(), which
spec.md §9 calls out as load-bearing for anyone who later adds
positional reporting on top of this.
*/
package matcher

import (
	"context"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/output"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

// Matcher scans text against one instance's trie and output table.
type Matcher struct {
	trieIdx *trie.Index
	outputs *output.Table
}

// New returns a Matcher for the given client and keyspace.
func New(client store.Client, keys keyspace.Keyspace) *Matcher {
	trieIdx := trie.New(client, keys)
	return &Matcher{
		trieIdx: trieIdx,
		outputs: output.New(client, keys, trieIdx),
	}
}

// Find runs the AC walk over text and returns the concatenation of every
// output set encountered, in scan order. Duplicates across positions are
// preserved; within a single state's output set the order is whatever
// the store returns (spec.md §4.3: "within a single state the set's
// internal order is unspecified").
func (m *Matcher) Find(ctx context.Context, text string) ([]string, error) {
	encoded := keyspace.Encode(text)

	var result []string
	state := ""
	for _, r := range encoded {
		c := string(r)

		next, err := m.transition(ctx, state, c)
		if err != nil {
			return nil, err
		}

		outs, err := m.outputs.Outputs(ctx, state)
		if err != nil {
			return nil, err
		}
		result = append(result, outs...)

		state = next
	}

	outs, err := m.outputs.Outputs(ctx, state)
	if err != nil {
		return nil, err
	}
	result = append(result, outs...)

	return result, nil
}

// transition computes goto(state, c), retrying through fail(state) and,
// if that also has no edge for c, falling back to fail(fail(state)+c).
// The second fail call is always defined because fail is total at the
// root (spec.md §4.3 step 2).
func (m *Matcher) transition(ctx context.Context, state, c string) (string, error) {
	if next, ok, err := m.advance(ctx, state, c); err != nil {
		return "", err
	} else if ok {
		return next, nil
	}

	s1, err := m.trieIdx.Fail(ctx, state)
	if err != nil {
		return "", err
	}
	if next, ok, err := m.advance(ctx, s1, c); err != nil {
		return "", err
	} else if ok {
		return next, nil
	}

	return m.trieIdx.Fail(ctx, s1+c)
}

// advance reports whether state+c is a trie node, and returns it if so.
func (m *Matcher) advance(ctx context.Context, state, c string) (string, bool, error) {
	candidate := state + c
	ok, err := m.trieIdx.HasPrefix(ctx, candidate)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return candidate, true, nil
}
