/*
Package output maintains the two correlated collections spec.md §3 calls
O and R: O(state) is the set of keywords matched when the automaton is in
state, and R(keyword) is the reverse index of every state whose output
contains keyword. They are kept in lockstep the way pkg/suggest/cache.go's
HotCache in the teacher keeps a word→score map and an access-bookkeeping
map under one type — here the two correlated structures are Redis set
families instead of in-process maps.
*/
package output

import (
	"context"
	"fmt"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

// Table is the O/R pair for one instance.
type Table struct {
	client store.Client
	keys   keyspace.Keyspace
	trie   *trie.Index
}

// New returns a Table backed by client for the given keyspace. trieIdx is
// consulted by Revoke to detect a dangling R entry (spec.md §7).
func New(client store.Client, keys keyspace.Keyspace, trieIdx *trie.Index) *Table {
	return &Table{client: client, keys: keys, trie: trieIdx}
}

// Outputs returns O(state), the set of keywords matched when the
// automaton is in state. A state with no entry returns an empty slice,
// not an error — spec.md §7: "the matcher and suggester tolerate
// transient key-absence (treat missing output as empty)."
func (t *Table) Outputs(ctx context.Context, state string) ([]string, error) {
	return t.client.SMembers(ctx, t.keys.Output(state))
}

// ReverseNodes returns R(keyword), the set of states whose output
// contains keyword.
func (t *Table) ReverseNodes(ctx context.Context, keyword string) ([]string, error) {
	return t.client.SMembers(ctx, t.keys.Node(keyword))
}

// Replace atomically replaces O(state) with outs, and keeps R in sync
// with the difference: every keyword newly present in outs gains state in
// its R entry, every keyword dropped from the old O(state) loses it.
// spec.md §4.2.3: "replace O(s) with outs...stale members removed by this
// replacement must also be removed from their R(w); equivalently, the
// replacement may be implemented as diff-based updates of O and R
// together."
func (t *Table) Replace(ctx context.Context, state string, outs []string) error {
	current, err := t.Outputs(ctx, state)
	if err != nil {
		return err
	}
	currentSet := toSet(current)
	wantSet := toSet(outs)

	var ops []store.Op
	for w := range wantSet {
		if _, had := currentSet[w]; !had {
			ops = append(ops, store.Op{Kind: store.OpSAdd, Key: t.keys.Output(state), Member: w})
			ops = append(ops, store.Op{Kind: store.OpSAdd, Key: t.keys.Node(w), Member: state})
		}
	}
	for w := range currentSet {
		if _, keep := wantSet[w]; !keep {
			ops = append(ops, store.Op{Kind: store.OpSRem, Key: t.keys.Output(state), Member: w})
			ops = append(ops, store.Op{Kind: store.OpSRem, Key: t.keys.Node(w), Member: state})
		}
	}
	if len(ops) == 0 {
		return nil
	}
	return t.client.Atomic(ctx, ops)
}

// Revoke removes keyword from every state's output it currently appears
// in, then deletes its now-empty reverse-node entry. This implements
// spec.md §4.2.2 step 1, run before keyword is dropped from K.
//
// Each state named in R(keyword) is checked against P first. A state
// present in R without a corresponding node in P is the store
// inconsistency spec.md §7 names by example; Revoke reports it as
// ErrDanglingState rather than silently removing an output entry for a
// node that no longer (or never did) exist.
func (t *Table) Revoke(ctx context.Context, keyword string) error {
	states, err := t.ReverseNodes(ctx, keyword)
	if err != nil {
		return err
	}
	for _, state := range states {
		ok, err := t.trie.HasPrefix(ctx, state)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: state %q referenced by keyword %q", ErrDanglingState, state, keyword)
		}
		if err := t.client.SRem(ctx, t.keys.Output(state), keyword); err != nil {
			return err
		}
	}
	return t.client.Del(ctx, t.keys.Node(keyword))
}

func toSet(xs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		set[x] = struct{}{}
	}
	return set
}
