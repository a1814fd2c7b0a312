/*
Package bench provides an in-process baseline automaton to measure the
store-backed matcher against. spec.md §1 places benchmark harnesses
explicitly out of the maintained core, so this package never touches
pkg/store: it keeps its own copy of the keyword set in a
github.com/tchap/go-patricia/v2 radix trie, the same library and
Insert/Get idiom the teacher's pkg/suggest/completion.go used for its
word-completion trie, adapted here from a frequency-ranked completer
into a plain substring-match baseline.

Because the baseline holds no failure links, it finds matches by
probing every substring starting at each position against the radix
trie rather than walking an automaton — intentionally the naive
algorithm a maintained AC implementation is supposed to outperform on
large dictionaries.
*/
package bench

import (
	"strings"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is a baseline in-memory keyword set, rebuilt from scratch on
// every run rather than maintained incrementally.
type Index struct {
	trie   *patricia.Trie
	maxLen int
}

// NewIndex returns an empty baseline index.
func NewIndex() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Add inserts keyword into the baseline index.
func (idx *Index) Add(keyword string) {
	keyword = strings.ToLower(keyword)
	idx.trie.Insert(patricia.Prefix(keyword), struct{}{})
	if n := len([]rune(keyword)); n > idx.maxLen {
		idx.maxLen = n
	}
}

// Find returns every keyword occurring as a substring of text, scanning
// every start position and probing increasing lengths up to the
// longest inserted keyword. This is O(n*maxLen) where an AC walk is
// O(n); the gap is the point of the comparison.
func (idx *Index) Find(text string) []string {
	runes := []rune(strings.ToLower(text))
	var out []string
	for i := range runes {
		limit := idx.maxLen
		if remain := len(runes) - i; remain < limit {
			limit = remain
		}
		for l := 1; l <= limit; l++ {
			candidate := string(runes[i : i+l])
			if idx.trie.Get(patricia.Prefix(candidate)) != nil {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// Result holds one comparative timing run.
type Result struct {
	BaselineMatches  int
	BaselineElapsed  time.Duration
	ReferenceMatches int
	ReferenceElapsed time.Duration
}

// Compare runs the baseline's Find against text and, via reference,
// whatever store-backed matcher the caller wired up (typically
// matcher.Matcher.Find), and reports elapsed time for each. It does not
// assert which is faster: that depends on dictionary size, text length,
// and store round-trip latency, all of which vary per deployment.
func Compare(idx *Index, text string, reference func(string) ([]string, error)) (Result, error) {
	baselineStart := time.Now()
	baselineMatches := idx.Find(text)
	baselineElapsed := time.Since(baselineStart)

	referenceStart := time.Now()
	referenceMatches, err := reference(text)
	if err != nil {
		return Result{}, err
	}
	referenceElapsed := time.Since(referenceStart)

	return Result{
		BaselineMatches:  len(baselineMatches),
		BaselineElapsed:  baselineElapsed,
		ReferenceMatches: len(referenceMatches),
		ReferenceElapsed: referenceElapsed,
	}, nil
}
