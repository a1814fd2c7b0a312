/*
Package trie maintains the prefix set P and its mirror, the reversed-prefix
set S, as two lex-ordered sorted sets in the store (spec.md §3, §4.1).

P holds every trie node reachable from an accepted keyword, represented by
the full string from the root to that node; S holds the reversal of every
non-root member of P. Because both sets are kept in byte order, "every node
whose string ends with p" is the contiguous run of S starting at
reverse(p) — the range property pkg/automaton's output-repair protocol is
built on (spec.md §4.2.3, §9).

Index never interprets keyword membership; it only knows about nodes.
*/
package trie

import (
	"context"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
)

// Index is the trie/suffix-index pair for one instance.
type Index struct {
	client store.Client
	keys   keyspace.Keyspace
}

// New returns an Index backed by client for the given keyspace.
func New(client store.Client, keys keyspace.Keyspace) *Index {
	return &Index{client: client, keys: keys}
}

// EnsureRoot seeds the root ("") into P, matching the source's
// constructor-time `zadd(PREFIX_KEY, '', 1.0)`.
func (idx *Index) EnsureRoot(ctx context.Context) error {
	return idx.client.ZAdd(ctx, idx.keys.Prefix(), "")
}

// HasPrefix reports whether p is a node in P.
func (idx *Index) HasPrefix(ctx context.Context, p string) (bool, error) {
	_, ok, err := idx.client.ZScore(ctx, idx.keys.Prefix(), p)
	return ok, err
}

// AddPrefix inserts p into P and reverse(p) into S as a single atomic
// unit (DESIGN.md OQ-3), matching spec.md §4.2.1 step 3's "insert p...and
// reverse(p)...".
func (idx *Index) AddPrefix(ctx context.Context, p string) error {
	return idx.client.Atomic(ctx, []store.Op{
		{Kind: store.OpZAdd, Key: idx.keys.Prefix(), Member: p},
		{Kind: store.OpZAdd, Key: idx.keys.Suffix(), Member: keyspace.Reverse(p)},
	})
}

// RemovePrefix removes p from P and reverse(p) from S as a single atomic
// unit.
func (idx *Index) RemovePrefix(ctx context.Context, p string) error {
	return idx.client.Atomic(ctx, []store.Op{
		{Kind: store.OpZRem, Key: idx.keys.Prefix(), Member: p},
		{Kind: store.OpZRem, Key: idx.keys.Suffix(), Member: keyspace.Reverse(p)},
	})
}

// RankPrefix returns p's rank in P, or ok=false if p is absent.
func (idx *Index) RankPrefix(ctx context.Context, p string) (int64, bool, error) {
	return idx.client.ZRank(ctx, idx.keys.Prefix(), p)
}

// RankSuffix returns s's rank in S, or ok=false if s is absent.
func (idx *Index) RankSuffix(ctx context.Context, s string) (int64, bool, error) {
	return idx.client.ZRank(ctx, idx.keys.Suffix(), s)
}

// SuccessorOfPrefix returns the lexicographic successor of p in P (the
// entry one rank past p), and ok=false if p has no successor (p is
// absent, or p is the last element).
func (idx *Index) SuccessorOfPrefix(ctx context.Context, p string) (string, bool, error) {
	rank, ok, err := idx.RankPrefix(ctx, p)
	if err != nil || !ok {
		return "", false, err
	}
	members, err := idx.client.ZRange(ctx, idx.keys.Prefix(), rank+1, rank+1)
	if err != nil {
		return "", false, err
	}
	if len(members) == 0 {
		return "", false, nil
	}
	return members[0], true, nil
}

// ScanPrefixFrom calls visit once for each member of P starting at rank
// matching from and advancing, stopping as soon as visit returns false or
// P is exhausted. It is the building block Suggest is built on. If from
// is not a member of P, visit is never called.
func (idx *Index) ScanPrefixFrom(ctx context.Context, from string, visit func(node string) (keepGoing bool)) error {
	return idx.scanFrom(ctx, idx.keys.Prefix(), from, visit)
}

// ScanSuffixFrom calls visit once for each member of S starting at rank
// matching from and advancing, stopping as soon as visit returns false or
// S is exhausted. This is the cluster-repair range scan of spec.md §4.2.3.
func (idx *Index) ScanSuffixFrom(ctx context.Context, from string, visit func(node string) (keepGoing bool)) error {
	return idx.scanFrom(ctx, idx.keys.Suffix(), from, visit)
}

// Fail derives the failure-link target of state: the longest proper
// suffix of state that is itself a node in P. It is never stored,
// matching original_source/redis_ac_keywords.py's _fail, which probes
// ZSCORE on progressively shorter suffixes of state instead of
// maintaining a failure table. The root ("") is always a node, so the
// loop always terminates by i == len(state) (spec.md §4.2.3).
func (idx *Index) Fail(ctx context.Context, state string) (string, error) {
	runes := []rune(state)
	for i := 1; i <= len(runes); i++ {
		suffix := string(runes[i:])
		ok, err := idx.HasPrefix(ctx, suffix)
		if err != nil {
			return "", err
		}
		if ok {
			return suffix, nil
		}
	}
	return "", nil
}

// pageSize bounds how many members ScanPrefixFrom/ScanSuffixFrom fetch
// per round trip.
const pageSize = 64

func (idx *Index) scanFrom(ctx context.Context, key, from string, visit func(node string) (keepGoing bool)) error {
	rank, ok, err := idx.client.ZRank(ctx, key, from)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	for {
		page, err := idx.client.ZRange(ctx, key, rank, rank+pageSize-1)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, member := range page {
			if !visit(member) {
				return nil
			}
		}
		rank += int64(len(page))
	}
}
