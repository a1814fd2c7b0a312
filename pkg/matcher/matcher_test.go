package matcher

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/nilcrux/ahokeep/pkg/automaton"
	"github.com/nilcrux/ahokeep/pkg/keyspace"
	"github.com/nilcrux/ahokeep/pkg/store"
)

func uniqueSorted(xs []string) []string {
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		set[x] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for x := range set {
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}

// TestFindClassicScenarios walks spec.md §8's concrete scenarios 1-4
// through a shared client, exercising automaton.Add/Remove and
// Matcher.Find together the way a caller actually would.
func TestFindClassicScenarios(t *testing.T) {
	ctx := context.Background()
	client := store.NewFake()
	keys := keyspace.New("t")

	a := automaton.New(client, keys)
	if err := a.EnsureRoot(ctx); err != nil {
		t.Fatal(err)
	}
	m := New(client, keys)

	// Scenario 1: her, he, his.
	for _, kw := range []string{"her", "he", "his"} {
		if _, err := a.Add(ctx, kw); err != nil {
			t.Fatal(err)
		}
	}
	got, err := m.Find(ctx, "ushers")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"he", "her"}; !reflect.DeepEqual(uniqueSorted(got), want) {
		t.Fatalf("Find(ushers) distinct = %v, want %v (raw %v)", uniqueSorted(got), want, got)
	}

	// Scenario 2: she, hers.
	for _, kw := range []string{"she", "hers"} {
		if _, err := a.Add(ctx, kw); err != nil {
			t.Fatal(err)
		}
	}
	got, err = m.Find(ctx, "ushers")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"he", "her", "hers", "she"}; !reflect.DeepEqual(uniqueSorted(got), want) {
		t.Fatalf("Find(ushers) distinct = %v, want %v (raw %v)", uniqueSorted(got), want, got)
	}

	// Scenario 3: h.
	if _, err := a.Add(ctx, "h"); err != nil {
		t.Fatal(err)
	}
	got, err = m.Find(ctx, "ushers")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"h", "he", "her", "hers", "she"}; !reflect.DeepEqual(uniqueSorted(got), want) {
		t.Fatalf("Find(ushers) distinct = %v, want %v (raw %v)", uniqueSorted(got), want, got)
	}

	// Scenario 4: remove h.
	if _, err := a.Remove(ctx, "h"); err != nil {
		t.Fatal(err)
	}
	got, err = m.Find(ctx, "ushers")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"he", "her", "hers", "she"}; !reflect.DeepEqual(uniqueSorted(got), want) {
		t.Fatalf("Find(ushers) after remove(h) distinct = %v, want %v (raw %v)", uniqueSorted(got), want, got)
	}
}

func TestFindOnEmptyAutomatonReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	client := store.NewFake()
	keys := keyspace.New("t")
	a := automaton.New(client, keys)
	a.EnsureRoot(ctx)
	m := New(client, keys)

	got, err := m.Find(ctx, "anything")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Find on empty automaton = %v, want empty", got)
	}
}

func TestFindIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	client := store.NewFake()
	keys := keyspace.New("t")
	a := automaton.New(client, keys)
	a.EnsureRoot(ctx)
	a.Add(ctx, "cat")
	m := New(client, keys)

	got, err := m.Find(ctx, "A CAT sat")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range got {
		if w == "cat" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Find(A CAT sat) = %v, want to contain cat", got)
	}
}
