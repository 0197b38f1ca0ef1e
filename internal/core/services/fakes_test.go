package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
)

// fakeLLM returns canned completions, optionally keyed on a prompt
// substring, with an optional artificial delay.
type fakeLLM struct {
	response  string
	responses map[string]string // prompt substring -> response
	err       error
	delay     time.Duration

	mu      sync.Mutex
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	for key, resp := range f.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-model" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeRepoService serves one snapshot or one error.
type fakeRepoService struct {
	snapshot *domain.RepositorySnapshot
	err      error
}

func (f *fakeRepoService) Snapshot(_ context.Context, _ domain.RepoRef) (*domain.RepositorySnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

// fakeProjectStore is an in-memory ProjectStore with scriptable conflicts.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]*domain.Project // keyed by ID

	// conflictOn makes Create fail with ErrUpsertConflict for these slugs,
	// once each.
	conflictOn map[string]bool

	// alwaysConflict makes every Create fail with ErrUpsertConflict,
	// simulating a writer that keeps winning the slug race.
	alwaysConflict bool
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects:   make(map[string]*domain.Project),
		conflictOn: make(map[string]bool),
	}
}

func (f *fakeProjectStore) Create(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alwaysConflict {
		return domain.ErrUpsertConflict
	}
	if f.conflictOn[project.Slug] {
		delete(f.conflictOn, project.Slug)
		return domain.ErrUpsertConflict
	}
	for _, p := range f.projects {
		if p.OwnerID == project.OwnerID && p.Slug == project.Slug {
			return domain.ErrUpsertConflict
		}
	}
	clone := *project
	f.projects[project.ID] = &clone
	return nil
}

func (f *fakeProjectStore) Update(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[project.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *project
	f.projects[project.ID] = &clone
	return nil
}

func (f *fakeProjectStore) GetBySource(_ context.Context, ownerID, sourceURL string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.OwnerID == ownerID && p.SourceURL == sourceURL {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProjectStore) SlugTaken(_ context.Context, ownerID, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.OwnerID == ownerID && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeCache records every deleted key in order.
type fakeCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeCache) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
