/*
Package suggest implements prefix completion over the trie index by
range-scanning the prefix set P (spec.md §4.4), instead of the teacher's
in-process radix-trie completer. No frequency ranking exists in this
domain (spec.md §1 Non-goals: "no ranking of suggestions beyond the
natural lexicographic order produced by the prefix index"), so the
result here is a plain ordered list of keywords, not a []Suggestion of
word/frequency pairs.

The traversal shape — start at an anchor rank, visit forward while a
prefix test holds, stop otherwise — is grounded on the teacher's
trie.go's SearchTrie, which does the equivalent walk over an in-memory
patricia.Trie via VisitSubtree.
*/
package suggest

import (
	"context"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

// Suggester enumerates accepted keywords sharing a query prefix.
type Suggester struct {
	client  store.Client
	keys    keyspace.Keyspace
	trieIdx *trie.Index
}

// New returns a Suggester for the given client and keyspace.
func New(client store.Client, keys keyspace.Keyspace) *Suggester {
	return &Suggester{client: client, keys: keys, trieIdx: trie.New(client, keys)}
}

// Suggest returns every accepted keyword n such that n starts with
// query, in lexicographic order. spec.md §4.4: range-scan P from
// rank(query) forward; a node that does not start with query ends the
// scan, and a node that does is emitted only if it is itself an
// accepted keyword.
func (s *Suggester) Suggest(ctx context.Context, query string) ([]string, error) {
	encoded := keyspace.Encode(query)

	var out []string
	var scanErr error
	err := s.trieIdx.ScanPrefixFrom(ctx, encoded, func(node string) bool {
		if len(node) < len(encoded) || node[:len(encoded)] != encoded {
			return false
		}
		isKeyword, err := s.client.SIsMember(ctx, s.keys.Keyword(), node)
		if err != nil {
			scanErr = err
			return false
		}
		if isKeyword {
			out = append(out, node)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return out, nil
}
