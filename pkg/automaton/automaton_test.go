package automaton

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
)

func newTestAutomaton(t *testing.T) (*Automaton, context.Context) {
	t.Helper()
	ctx := context.Background()
	a := New(store.NewFake(), keyspace.New("t"))
	if err := a.EnsureRoot(ctx); err != nil {
		t.Fatal(err)
	}
	return a, ctx
}

func outputsOf(t *testing.T, a *Automaton, ctx context.Context, state string) []string {
	t.Helper()
	out, err := a.outputs.Outputs(ctx, state)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}

// TestScenario1 is spec.md §8's first concrete scenario: add her, he, his;
// the states that matter for matching "ushers" are he and her, which must
// independently output exactly themselves (their failure links lead only
// to the root, an empty suffix).
func TestScenario1(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	for _, kw := range []string{"her", "he", "his"} {
		if _, err := a.Add(ctx, kw); err != nil {
			t.Fatal(err)
		}
	}

	cases := map[string][]string{
		"he":  {"he"},
		"her": {"her"},
		"his": {"his"},
		"h":   {},
	}
	for state, want := range cases {
		if got := outputsOf(t, a, ctx, state); !reflect.DeepEqual(got, want) {
			t.Fatalf("O(%s) = %v, want %v", state, got, want)
		}
	}
}

// TestScenario2 continues scenario 1 by adding she and hers. "she" now
// fails into "he" (its only proper suffix in P), so its output grows to
// include he; "hers" fails into "s" whose own output is empty, so it
// still outputs only itself.
func TestScenario2(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	for _, kw := range []string{"her", "he", "his", "she", "hers"} {
		if _, err := a.Add(ctx, kw); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := outputsOf(t, a, ctx, "she"), []string{"he", "she"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(she) = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "hers"), []string{"hers"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(hers) = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "her"), []string{"her"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(her) = %v, want %v", got, want)
	}

	n, err := a.Size(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("|K| = %d, want 5", n)
	}
}

// TestScenario3 continues scenario 2 by adding the single-letter keyword
// "h". Only states literally ending in "h" can now fail into it: the
// cluster scan anchored at reverse("h") must touch exactly h and sh (not
// her/his/hers, which end in other letters), and "sh"'s output must pick
// up "h" through its failure link.
func TestScenario3(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	for _, kw := range []string{"her", "he", "his", "she", "hers"} {
		a.Add(ctx, kw)
	}
	if _, err := a.Add(ctx, "h"); err != nil {
		t.Fatal(err)
	}

	if got, want := outputsOf(t, a, ctx, "h"), []string{"h"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(h) = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "sh"), []string{"h"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(sh) = %v, want %v", got, want)
	}
	// Unaffected states keep their prior content.
	if got, want := outputsOf(t, a, ctx, "she"), []string{"he", "she"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(she) = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "hers"), []string{"hers"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(hers) = %v, want %v", got, want)
	}

	n, err := a.Size(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Fatalf("|K| = %d, want 6", n)
	}
}

// TestScenario4 continues scenario 3 by removing "h". Its outputs revert
// to scenario 2's, and the node itself survives pruning because "he" (and
// transitively her/hers) still depend on it as a prefix.
func TestScenario4(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	for _, kw := range []string{"her", "he", "his", "she", "hers", "h"} {
		a.Add(ctx, kw)
	}

	n, err := a.Remove(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("|K| after remove(h) = %d, want 5", n)
	}

	if got, want := outputsOf(t, a, ctx, "h"), []string{}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(h) after remove = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "sh"), []string{}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(sh) after remove = %v, want %v", got, want)
	}
	if got, want := outputsOf(t, a, ctx, "she"), []string{"he", "she"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("O(she) after remove(h) = %v, want %v", got, want)
	}

	exists, err := a.trieIdx.HasPrefix(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("node \"h\" pruned despite \"he\" still depending on it")
	}
	isKw, err := a.IsKeyword(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if isKw {
		t.Fatal("\"h\" still a keyword after Remove")
	}
}

func TestRemovePrunesNodeWithNoRemainingDependents(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	a.Add(ctx, "cat")

	if _, err := a.Remove(ctx, "cat"); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"c", "ca", "cat"} {
		exists, err := a.trieIdx.HasPrefix(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		if exists {
			t.Fatalf("prefix %q still in P after removing its only dependent keyword", p)
		}
	}
}

func TestRemoveKeepsSharedPrefixWhenSiblingKeywordRemains(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	a.Add(ctx, "car")
	a.Add(ctx, "cart")

	if _, err := a.Remove(ctx, "cart"); err != nil {
		t.Fatal(err)
	}

	exists, err := a.trieIdx.HasPrefix(ctx, "car")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("prefix \"car\" pruned despite still being an accepted keyword")
	}
	isKw, err := a.IsKeyword(ctx, "car")
	if err != nil {
		t.Fatal(err)
	}
	if !isKw {
		t.Fatal("\"car\" lost its keyword membership after removing \"cart\"")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	a.Add(ctx, "her")
	n, err := a.Add(ctx, "her")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("|K| after re-adding = %d, want 1", n)
	}
}

func TestAddRejectsBlankKeyword(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	if _, err := a.Add(ctx, "   "); err != ErrEmptyKeyword {
		t.Fatalf("Add(blank) error = %v, want ErrEmptyKeyword", err)
	}
}

func TestAddNormalizesCaseAndWhitespace(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	if _, err := a.Add(ctx, "  HeR  "); err != nil {
		t.Fatal(err)
	}
	isKw, err := a.IsKeyword(ctx, "her")
	if err != nil {
		t.Fatal(err)
	}
	if !isKw {
		t.Fatal("Add did not normalize to lowercase/trimmed form")
	}
}

func TestRemoveOfAbsentKeywordIsNoop(t *testing.T) {
	a, ctx := newTestAutomaton(t)
	a.Add(ctx, "her")
	n, err := a.Remove(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("|K| after removing absent keyword = %d, want 1", n)
	}
}
