package catalog

import (
	"context"
	"path"
	"sort"

	"github.com/kailas-cloud/catalogd/internal/db"
)

// mockStore is an in-memory hash store for tests.
type mockStore struct {
	hashes map[string]map[string]string

	scanErr  error
	hsetErr  error
	multiErr error
	deleted  []string
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) ReplaceHashes(_ context.Context, stale []string, items []db.HashSetItem) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	for _, k := range stale {
		delete(m.hashes, k)
		m.deleted = append(m.deleted, k)
	}
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if h, ok := m.hashes[key]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.multiErr != nil {
		return nil, m.multiErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i], _ = m.HGetAll(ctx, k)
	}
	return out, nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var keys []string
	for k := range m.hashes {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	// Reverse order so tests observe the repository's own sorting.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}
