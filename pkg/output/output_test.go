package output

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
	"github.com/nilcrux/ahokeep/pkg/trie"
)

func sorted(xs []string) []string {
	out := append([]string{}, xs...)
	sort.Strings(out)
	return out
}

// newTestTable builds a Table whose trie already contains nodes, the way
// pkg/automaton always inserts a node into P before ever writing an
// output entry for it.
func newTestTable(t *testing.T, nodes ...string) *Table {
	t.Helper()
	ctx := context.Background()
	client := store.NewFake()
	keys := keyspace.New("t")
	trieIdx := trie.New(client, keys)
	if err := trieIdx.EnsureRoot(ctx); err != nil {
		t.Fatal(err)
	}
	for _, n := range nodes {
		if err := trieIdx.AddPrefix(ctx, n); err != nil {
			t.Fatal(err)
		}
	}
	return New(client, keys, trieIdx)
}

func TestReplaceAddsAndRevisesR(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "he", "her")

	if err := tbl.Replace(ctx, "her", []string{"he", "her"}); err != nil {
		t.Fatal(err)
	}
	got, err := tbl.Outputs(ctx, "her")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sorted(got), []string{"he", "her"}) {
		t.Fatalf("Outputs(her) = %v", got)
	}

	nodesHe, err := tbl.ReverseNodes(ctx, "he")
	if err != nil || !reflect.DeepEqual(nodesHe, []string{"her"}) {
		t.Fatalf("ReverseNodes(he) = %v, %v", nodesHe, err)
	}
}

func TestReplaceDropsStaleROnChange(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "he", "her")

	tbl.Replace(ctx, "her", []string{"he", "her"})
	// Rebuild with a different output set (simulating a failure-link change).
	if err := tbl.Replace(ctx, "her", []string{"her"}); err != nil {
		t.Fatal(err)
	}
	got, _ := tbl.Outputs(ctx, "her")
	if !reflect.DeepEqual(got, []string{"her"}) {
		t.Fatalf("Outputs(her) after replace = %v, want [her]", got)
	}
	nodesHe, _ := tbl.ReverseNodes(ctx, "he")
	if len(nodesHe) != 0 {
		t.Fatalf("ReverseNodes(he) = %v, want empty after dropping he from her's outputs", nodesHe)
	}
}

func TestRevokeClearsOutputsAndNodes(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "he", "her", "she")

	tbl.Replace(ctx, "her", []string{"he", "her"})
	tbl.Replace(ctx, "she", []string{"he"})

	if err := tbl.Revoke(ctx, "he"); err != nil {
		t.Fatal(err)
	}

	outHer, _ := tbl.Outputs(ctx, "her")
	if !reflect.DeepEqual(outHer, []string{"her"}) {
		t.Fatalf("Outputs(her) after revoke(he) = %v, want [her]", outHer)
	}
	outShe, _ := tbl.Outputs(ctx, "she")
	if len(outShe) != 0 {
		t.Fatalf("Outputs(she) after revoke(he) = %v, want empty", outShe)
	}
	nodes, _ := tbl.ReverseNodes(ctx, "he")
	if len(nodes) != 0 {
		t.Fatalf("ReverseNodes(he) after revoke = %v, want empty", nodes)
	}
}

func TestRevokeDetectsDanglingState(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "he", "her")

	if err := tbl.Replace(ctx, "her", []string{"he", "her"}); err != nil {
		t.Fatal(err)
	}
	// Corrupt P out from under R without going through Remove/prune, the
	// way an external actor touching the store directly could.
	if err := tbl.trie.RemovePrefix(ctx, "her"); err != nil {
		t.Fatal(err)
	}

	err := tbl.Revoke(ctx, "he")
	if !errors.Is(err, ErrDanglingState) {
		t.Fatalf("Revoke with dangling state = %v, want ErrDanglingState", err)
	}
}
