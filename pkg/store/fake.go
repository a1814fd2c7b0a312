package store

import (
	"context"
	"sort"
	"sync"
)

// Fake is an in-memory Client used by package tests across the module so
// the automaton can be exercised without a live Redis. It implements the
// same ordering semantics as the real adapter: sorted-set members are kept
// sorted by raw bytes, never by score.
type Fake struct {
	mu    sync.Mutex
	sets  map[string]map[string]struct{}
	zsets map[string]map[string]struct{}
}

// NewFake returns an empty Fake store.
func NewFake() *Fake {
	return &Fake{
		sets:  make(map[string]map[string]struct{}),
		zsets: make(map[string]map[string]struct{}),
	}
}

func (f *Fake) Ping(ctx context.Context) error { return nil }

func (f *Fake) SAdd(ctx context.Context, key string, members ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

func (f *Fake) SRem(ctx context.Context, key string, members ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(set, m)
	}
	if len(set) == 0 {
		delete(f.sets, key)
	}
	return nil
}

func (f *Fake) SMembers(ctx context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.sets[key]
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out, nil
}

func (f *Fake) SCard(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sets[key])), nil
}

func (f *Fake) SIsMember(ctx context.Context, key, member string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sets[key][member]
	return ok, nil
}

func (f *Fake) sortedMembers(key string) []string {
	set := f.zsets[key]
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (f *Fake) ZAdd(ctx context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.zsets[key]
	if !ok {
		set = make(map[string]struct{})
		f.zsets[key] = set
	}
	set[member] = struct{}{}
	return nil
}

func (f *Fake) ZRem(ctx context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.zsets[key]
	if !ok {
		return nil
	}
	delete(set, member)
	if len(set) == 0 {
		delete(f.zsets, key)
	}
	return nil
}

func (f *Fake) ZRank(ctx context.Context, key, member string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.zsets[key][member]; !ok {
		return 0, false, nil
	}
	for i, m := range f.sortedMembers(key) {
		if m == member {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (f *Fake) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := f.sortedMembers(key)
	n := int64(len(members))
	if n == 0 {
		return []string{}, nil
	}
	start = normalizeIndex(start, n)
	stop = normalizeIndex(stop, n)
	if start > stop || start >= n {
		return []string{}, nil
	}
	if stop >= n {
		stop = n - 1
	}
	if start < 0 {
		start = 0
	}
	return append([]string{}, members[start:stop+1]...), nil
}

func normalizeIndex(i, n int64) int64 {
	if i < 0 {
		i = n + i
	}
	return i
}

func (f *Fake) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.zsets[key][member]; !ok {
		return 0, false, nil
	}
	return fixedScore, true, nil
}

func (f *Fake) ZCard(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.zsets[key])), nil
}

func (f *Fake) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.sets, k)
		delete(f.zsets, k)
	}
	return nil
}

func (f *Fake) Atomic(ctx context.Context, ops []Op) error {
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpSAdd:
			err = f.SAdd(ctx, op.Key, op.Member)
		case OpSRem:
			err = f.SRem(ctx, op.Key, op.Member)
		case OpZAdd:
			err = f.ZAdd(ctx, op.Key, op.Member)
		case OpZRem:
			err = f.ZRem(ctx, op.Key, op.Member)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var _ Client = (*Fake)(nil)
