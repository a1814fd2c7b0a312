/*
Package automaton is the heart of the core: it keeps the trie P/S, the
keyword set K, and the output table O/R in the invariant spec.md §3
demands after every Add and Remove, entirely by incremental edits to the
store instead of ever rebuilding the automaton from scratch.

The derived failure function and the output-repair walk are grounded on
original_source/redis_ac_keywords.py's _fail, _build_output and
_rebuild_output, translated from the source's flat Redis calls into the
pkg/trie and pkg/output abstractions. The general shape of computing
fail-links from existing trie structure rather than storing them follows
the BFS fail-pointer pass in itgcl-ahocorasick, adapted here to
single-member lookups against the store (trie.Index.Fail probes P once
per candidate suffix) since the trie lives outside process memory.
*/
package automaton

import (
	"context"
	"strings"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/output"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/textnorm"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

// Automaton composes the trie index and the output table over one
// instance's keyspace and exposes the two mutating operations spec.md §4.2
// names: Add and Remove.
type Automaton struct {
	client  store.Client
	keys    keyspace.Keyspace
	trieIdx *trie.Index
	outputs *output.Table
}

// New returns an Automaton for the given client and keyspace. Callers must
// call EnsureRoot once before the first Add, normally from the owning
// Instance's constructor.
func New(client store.Client, keys keyspace.Keyspace) *Automaton {
	trieIdx := trie.New(client, keys)
	return &Automaton{
		client:  client,
		keys:    keys,
		trieIdx: trieIdx,
		outputs: output.New(client, keys, trieIdx),
	}
}

// EnsureRoot seeds the empty-string root node, matching the source
// constructing the root at instantiation time rather than lazily.
func (a *Automaton) EnsureRoot(ctx context.Context) error {
	return a.trieIdx.EnsureRoot(ctx)
}

// IsKeyword reports whether w is currently accepted, i.e. w ∈ K.
func (a *Automaton) IsKeyword(ctx context.Context, w string) (bool, error) {
	return a.client.SIsMember(ctx, a.keys.Keyword(), w)
}

// Size returns |K|, the number of accepted keywords.
func (a *Automaton) Size(ctx context.Context) (int64, error) {
	return a.client.SCard(ctx, a.keys.Keyword())
}

// Add accepts raw as a new keyword (spec.md §4.2.1). raw is trimmed and
// canonically encoded before anything else happens; ErrEmptyKeyword is
// returned if nothing is left afterward. Add returns the resulting |K|.
func (a *Automaton) Add(ctx context.Context, raw string) (int64, error) {
	trimmed := textnorm.Trim(raw)
	if textnorm.IsBlank(trimmed) {
		return 0, ErrEmptyKeyword
	}
	keyword := keyspace.Encode(trimmed)

	if err := a.client.SAdd(ctx, a.keys.Keyword(), keyword); err != nil {
		return 0, err
	}
	if err := a.growTrie(ctx, keyword); err != nil {
		return 0, err
	}
	return a.Size(ctx)
}

// growTrie walks keyword's prefixes root-down, inserting any that are
// missing from P/S and repairing the output cluster that insertion (or,
// for a prefix that already existed, keyword's new acceptance of it)
// affects. This is spec.md §4.2.1 step 3.
func (a *Automaton) growTrie(ctx context.Context, keyword string) error {
	runes := []rune(keyword)
	for i := 1; i <= len(runes); i++ {
		p := string(runes[:i])

		exists, err := a.trieIdx.HasPrefix(ctx, p)
		if err != nil {
			return err
		}
		if !exists {
			if err := a.trieIdx.AddPrefix(ctx, p); err != nil {
				return err
			}
			if err := a.rebuildOutputsCluster(ctx, keyspace.Reverse(p)); err != nil {
				return err
			}
			continue
		}
		// p was already a node. Output only needs repair here if p is
		// itself the (possibly newly accepted) full keyword, since that
		// is the only case in which p's own acceptance status changed.
		if p == keyword {
			if err := a.rebuildOutputsCluster(ctx, keyspace.Reverse(p)); err != nil {
				return err
			}
		}
	}
	return nil
}

// rebuildOutputsCluster recomputes O(state) for state=reverse(anchor) and
// for every other state whose S member has anchor as a prefix, i.e. every
// existing node that could fail into the node anchor names. S is scanned
// as the contiguous byte-ordered run starting at anchor, per spec.md
// §4.2.3's exploitation of the reversed-prefix ordering.
func (a *Automaton) rebuildOutputsCluster(ctx context.Context, anchor string) error {
	var repairErr error
	err := a.trieIdx.ScanSuffixFrom(ctx, anchor, func(member string) bool {
		if !strings.HasPrefix(member, anchor) {
			return false
		}
		state := keyspace.Reverse(member)
		if err := a.buildOutput(ctx, state); err != nil {
			repairErr = err
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return repairErr
}

// buildOutput recomputes O(state) from scratch as {state itself, if
// state ∈ K} ∪ O(fail(state)), and writes it via output.Table.Replace so
// R stays in sync. This is original_source's _build_output.
func (a *Automaton) buildOutput(ctx context.Context, state string) error {
	var outs []string

	isKeyword, err := a.IsKeyword(ctx, state)
	if err != nil {
		return err
	}
	if isKeyword {
		outs = append(outs, state)
	}

	f, err := a.trieIdx.Fail(ctx, state)
	if err != nil {
		return err
	}
	failOutputs, err := a.outputs.Outputs(ctx, f)
	if err != nil {
		return err
	}
	outs = append(outs, failOutputs...)

	return a.outputs.Replace(ctx, state, outs)
}

// Remove revokes raw's acceptance (spec.md §4.2.2). raw is trimmed and
// encoded the same way Add does. Removing a keyword that is not present
// is a no-op, not an error. Remove returns the resulting |K|.
func (a *Automaton) Remove(ctx context.Context, raw string) (int64, error) {
	trimmed := textnorm.Trim(raw)
	if textnorm.IsBlank(trimmed) {
		return 0, ErrEmptyKeyword
	}
	keyword := keyspace.Encode(trimmed)

	if err := a.outputs.Revoke(ctx, keyword); err != nil {
		return 0, err
	}
	if err := a.client.SRem(ctx, a.keys.Keyword(), keyword); err != nil {
		return 0, err
	}
	if err := a.prune(ctx, keyword); err != nil {
		return 0, err
	}
	return a.Size(ctx)
}

// prune walks keyword's prefixes in decreasing length, removing trie
// nodes that no other accepted keyword still needs. The walk stops at the
// first prefix p that is itself still accepted (p and every shorter
// prefix then stay as that keyword's own path) or whose lexicographic
// successor in P still extends p (some other keyword shares the prefix).
// This is spec.md §4.2.2 step 3 / original_source's tail of _remove.
func (a *Automaton) prune(ctx context.Context, keyword string) error {
	runes := []rune(keyword)
	for i := len(runes); i >= 1; i-- {
		p := string(runes[:i])

		if i != len(runes) {
			isKeyword, err := a.IsKeyword(ctx, p)
			if err != nil {
				return err
			}
			if isKeyword {
				return nil
			}
		}

		exists, err := a.trieIdx.HasPrefix(ctx, p)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		succ, hasSucc, err := a.trieIdx.SuccessorOfPrefix(ctx, p)
		if err != nil {
			return err
		}
		if hasSucc && strings.HasPrefix(succ, p) {
			return nil
		}
		if err := a.trieIdx.RemovePrefix(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
