/*
Package keywords is the public facade spec.md §6 calls the "Public API
surface": new/add/remove/find/suggest/info/flush, plus the Dump
introspection operation supplemented from
original_source/redis_ac_keywords.py's debug_print. It wires
pkg/store, pkg/keyspace, pkg/trie, pkg/output, pkg/automaton,
pkg/matcher and pkg/suggest together behind one type, the same way the
teacher's pkg/server/interface.go composed its completer and cache
behind one Server.
*/
package keywords

import (
	"context"
	"errors"
	"fmt"

	"github.com/nilcrux/ahokeep/pkg/automaton"
	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/matcher"
	"github.com/nilcrux/ahokeep/pkg/output"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/suggest"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

// translate maps errors surfaced by the packages Instance composes onto
// the three sentinel kinds spec.md §7 names (invalid argument, store
// unavailable, store inconsistency), so callers can errors.Is against a
// stable keywords-level error without knowing which collaborator raised
// it. The original error is preserved in the chain for errors.As/logging.
// An error carrying none of the recognised causes (for example a store
// command other than Ping failing) is returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, automaton.ErrEmptyKeyword):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, output.ErrDanglingState):
		return fmt.Errorf("%w: %w", ErrStoreInconsistency, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return err
	}
}

// Instance is one named automaton: a keyword set, its trie, and its
// output table, all living in the store under keys scoped by name.
type Instance struct {
	name    string
	client  store.Client
	keys    keyspace.Keyspace
	auto    *automaton.Automaton
	match   *matcher.Matcher
	suggest *suggest.Suggester
	trieIdx *trie.Index
	outputs *output.Table
}

// New creates or reopens the named instance against client, seeding the
// trie root if it is not already present. spec.md §3: "Created on first
// use; destroyed by flush." Reopening an instance that already has data
// is safe and does not disturb it.
func New(ctx context.Context, client store.Client, name string) (*Instance, error) {
	if err := client.Ping(ctx); err != nil {
		return nil, translate(err)
	}
	keys := keyspace.New(name)
	trieIdx := trie.New(client, keys)
	inst := &Instance{
		name:    name,
		client:  client,
		keys:    keys,
		auto:    automaton.New(client, keys),
		match:   matcher.New(client, keys),
		suggest: suggest.New(client, keys),
		trieIdx: trieIdx,
		outputs: output.New(client, keys, trieIdx),
	}
	if err := inst.auto.EnsureRoot(ctx); err != nil {
		return nil, translate(err)
	}
	return inst, nil
}

// Open dials the store per cfg and returns a New instance against it.
func Open(ctx context.Context, cfg store.Config, name string) (*Instance, error) {
	client, err := store.New(ctx, cfg)
	if err != nil {
		return nil, translate(err)
	}
	return New(ctx, client, name)
}

// Name returns the instance's name.
func (inst *Instance) Name() string { return inst.name }

// Add accepts keyword and returns the resulting |K| (spec.md §4.2.1).
func (inst *Instance) Add(ctx context.Context, keyword string) (int64, error) {
	n, err := inst.auto.Add(ctx, keyword)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// Remove revokes keyword and returns the resulting |K| (spec.md §4.2.2).
func (inst *Instance) Remove(ctx context.Context, keyword string) (int64, error) {
	n, err := inst.auto.Remove(ctx, keyword)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// Find runs the AC walk over text and returns the matched keyword
// sequence (spec.md §4.3).
func (inst *Instance) Find(ctx context.Context, text string) ([]string, error) {
	matches, err := inst.match.Find(ctx, text)
	if err != nil {
		return nil, translate(err)
	}
	return matches, nil
}

// Suggest enumerates accepted keywords sharing query's prefix (spec.md
// §4.4).
func (inst *Instance) Suggest(ctx context.Context, query string) ([]string, error) {
	hits, err := inst.suggest.Suggest(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	return hits, nil
}

// Info holds the two cardinalities spec.md §4.5 defines.
type Info struct {
	Keywords int64
	Nodes    int64
}

// Info returns {|K|, |P|} (spec.md §4.5).
func (inst *Instance) Info(ctx context.Context) (Info, error) {
	keywords, err := inst.auto.Size(ctx)
	if err != nil {
		return Info{}, translate(err)
	}
	nodes, err := inst.client.ZCard(ctx, inst.keys.Prefix())
	if err != nil {
		return Info{}, translate(err)
	}
	return Info{Keywords: keywords, Nodes: nodes}, nil
}

// Flush deletes the instance entirely: the output and reverse-node set
// of each accepted keyword, the output set of every other node in P,
// then P, S and K themselves (spec.md §4.5). The root is not reseeded;
// Info after Flush reports {0, 0} until the next Add or an explicit New
// (DESIGN.md OQ-2).
func (inst *Instance) Flush(ctx context.Context) error {
	members, err := inst.client.SMembers(ctx, inst.keys.Keyword())
	if err != nil {
		return translate(err)
	}
	for _, k := range members {
		if err := inst.client.Del(ctx, inst.keys.Output(k), inst.keys.Node(k)); err != nil {
			return translate(err)
		}
	}
	nodes, err := inst.client.ZRange(ctx, inst.keys.Prefix(), 0, -1)
	if err != nil {
		return translate(err)
	}
	for _, node := range nodes {
		if err := inst.client.Del(ctx, inst.keys.Output(node)); err != nil {
			return translate(err)
		}
	}
	return translate(inst.client.Del(ctx, inst.keys.Prefix(), inst.keys.Suffix(), inst.keys.Keyword()))
}

// Dump is an introspection snapshot of the instance, restoring
// original_source/redis_ac_keywords.py's debug_print as a structured
// return value instead of a print statement. It is not part of the
// maintained API's error-handling guarantees and exists for CLI/testing
// use (spec.md §1 places such helpers out of the core).
type Dump struct {
	Keywords []string
	Prefixes []string
	Suffixes []string
	Outputs  map[string][]string
}

// Dump returns K, P, S and O(node) for every node in P whose output is
// non-empty; nodes with an empty output have no entry in Outputs.
func (inst *Instance) Dump(ctx context.Context) (Dump, error) {
	keywords, err := inst.client.SMembers(ctx, inst.keys.Keyword())
	if err != nil {
		return Dump{}, translate(err)
	}
	prefixes, err := inst.client.ZRange(ctx, inst.keys.Prefix(), 0, -1)
	if err != nil {
		return Dump{}, translate(err)
	}
	suffixes, err := inst.client.ZRange(ctx, inst.keys.Suffix(), 0, -1)
	if err != nil {
		return Dump{}, translate(err)
	}

	outputs := make(map[string][]string, len(prefixes))
	for _, node := range prefixes {
		outs, err := inst.outputs.Outputs(ctx, node)
		if err != nil {
			return Dump{}, translate(err)
		}
		if len(outs) > 0 {
			outputs[node] = outs
		}
	}

	return Dump{Keywords: keywords, Prefixes: prefixes, Suffixes: suffixes, Outputs: outputs}, nil
}
