package bulk

import (
	"context"
	"strings"
	"testing"

	"github.com/nilcrux/ahokeep/pkg/keywords"
	"github.com/nilcrux/ahokeep/pkg/store"
)

func TestLoadFromSkipsBlankAndCommentLines(t *testing.T) {
	ctx := context.Background()
	inst, err := keywords.New(ctx, store.NewFake(), "t")
	if err != nil {
		t.Fatal(err)
	}

	input := strings.NewReader("he\n\n# a comment\nher\n  \nhis\n")
	result, err := LoadFrom(ctx, inst, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.Added != 3 {
		t.Fatalf("Added = %d, want 3", result.Added)
	}
	if result.Skipped != 3 {
		t.Fatalf("Skipped = %d, want 3", result.Skipped)
	}

	info, err := inst.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.Keywords != 3 {
		t.Fatalf("Info().Keywords = %d, want 3", info.Keywords)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	ctx := context.Background()
	inst, err := keywords.New(ctx, store.NewFake(), "t")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Load(ctx, inst, "/no/such/path.txt"); err == nil {
		t.Fatal("Load(missing file) = nil error, want error")
	}
}
