package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/sync/errgroup"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.RepositoryService = (*Service)(nil)

// ReadmeCandidates is the ordered list of readme file names probed by
// GetReadme. The first successfully fetched and decoded one wins.
var ReadmeCandidates = []string{
	"README.md",
	"readme.md",
	"README.rst",
	"README.txt",
	"README",
}

// DefaultManifests is the fixed set of dependency-manifest paths probed by
// GetDependencyFiles. Policy configuration may override it.
var DefaultManifests = []string{
	"package.json",
	"package-lock.json",
	"yarn.lock",
	"requirements.txt",
	"pyproject.toml",
	"Pipfile",
	"go.mod",
	"Cargo.toml",
	"Gemfile",
	"pom.xml",
	"build.gradle",
	"composer.json",
}

// Service implements the repository port against the GitHub API. It layers
// the retry policy over the raw client and maps failures onto the domain
// taxonomy. Safe to use from many goroutines; it holds no mutable state of
// its own.
type Service struct {
	client    *Client
	retry     RetryPolicy
	manifests []string
}

// NewService creates a repository service with the default retry policy and
// manifest set.
func NewService(client *Client) *Service {
	return NewServiceWithOptions(client, DefaultRetryPolicy(), nil)
}

// NewServiceWithOptions creates a repository service with an explicit retry
// policy and manifest set. A nil manifest slice selects DefaultManifests.
func NewServiceWithOptions(client *Client, policy RetryPolicy, manifests []string) *Service {
	if manifests == nil {
		manifests = DefaultManifests
	}
	return &Service{
		client:    client,
		retry:     policy,
		manifests: manifests,
	}
}

// Snapshot fetches the repository record first, then readme, tree and
// dependency manifests concurrently. Only the repository record fetch can
// fail the snapshot; every sub-fetch degrades independently, so latency is
// bounded by the slowest sub-fetch, not their sum.
func (s *Service) Snapshot(ctx context.Context, ref domain.RepoRef) (*domain.RepositorySnapshot, error) {
	var repo *gh.Repository
	err := s.retry.Do(ctx, "get repo", func(ctx context.Context) error {
		r, err := s.client.GetRepository(ctx, ref.Owner, ref.Name)
		repo = r
		return err
	})
	if err != nil {
		// The caller's deadline is reported as-is; everything else maps
		// onto the domain taxonomy.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyFatal(err)
	}

	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	snap := &domain.RepositorySnapshot{
		Info: domain.RepositoryInfo{
			Ref:            ref,
			Description:    repo.GetDescription(),
			Language:       repo.GetLanguage(),
			Topics:         repo.Topics,
			Stars:          repo.GetStargazersCount(),
			DefaultBranch:  branch,
			OwnerAvatarURL: repo.GetOwner().GetAvatarURL(),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Readme = s.GetReadme(gctx, ref, branch)
		return nil
	})
	g.Go(func() error {
		snap.Tree = s.GetTreeEntries(gctx, ref, branch)
		return nil
	})
	g.Go(func() error {
		snap.DependencyFiles = s.GetDependencyFiles(gctx, ref, branch)
		return nil
	})
	_ = g.Wait() // sub-fetches never return errors

	snap.TechStack = DeriveTechStack(snap.Tree, snap.DependencyFiles)
	return snap, nil
}

// GetReadme tries each readme candidate in order and returns the first one
// that fetches and decodes, or nil when none exists. A missing readme is
// not an error and never fails the snapshot.
func (s *Service) GetReadme(ctx context.Context, ref domain.RepoRef, branch string) *string {
	for _, name := range ReadmeCandidates {
		var content string
		err := s.retry.Do(ctx, "get readme "+name, func(ctx context.Context) error {
			c, err := s.client.GetFileContent(ctx, ref.Owner, ref.Name, name, branch)
			content = c
			return err
		})
		if err == nil {
			return &content
		}
		if IsAbsent(err) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		if IsRateLimited(err) {
			// Quota spent; probing further candidates is pointless.
			logger.Warn("readme fetch aborted for %s: %v", ref, err)
			return nil
		}
		logger.Warn("readme candidate %s failed for %s: %v", name, ref, err)
	}
	return nil
}

// GetTreeEntries fetches the full recursive file listing. Failures are
// logged and yield an empty listing; tree absence is non-fatal.
func (s *Service) GetTreeEntries(ctx context.Context, ref domain.RepoRef, branch string) []domain.TreeEntry {
	var tree *gh.Tree
	err := s.retry.Do(ctx, "get tree", func(ctx context.Context) error {
		t, err := s.client.GetTree(ctx, ref.Owner, ref.Name, branch)
		tree = t
		return err
	})
	if err != nil {
		logger.Warn("tree fetch failed for %s: %v", ref, err)
		return []domain.TreeEntry{}
	}

	entries := make([]domain.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entry := domain.TreeEntry{
			Path: e.GetPath(),
			Size: int64(e.GetSize()),
		}
		switch e.GetType() {
		case "blob":
			entry.Type = domain.TreeEntryFile
		case "tree":
			entry.Type = domain.TreeEntryDir
		default:
			continue // submodules etc.
		}
		entries = append(entries, entry)
	}
	return entries
}

// GetDependencyFiles fetches every configured manifest path concurrently.
// Each path fails independently; the result maps failed and missing paths
// to nil. Each goroutine writes only its own slot.
func (s *Service) GetDependencyFiles(ctx context.Context, ref domain.RepoRef, branch string) map[string]*string {
	results := make([]*string, len(s.manifests))

	var g errgroup.Group
	for i, path := range s.manifests {
		g.Go(func() error {
			var content string
			err := s.retry.Do(ctx, "get manifest "+path, func(ctx context.Context) error {
				c, err := s.client.GetFileContent(ctx, ref.Owner, ref.Name, path, branch)
				content = c
				return err
			})
			switch {
			case err == nil:
				results[i] = &content
			case !IsAbsent(err):
				logger.Debug("manifest %s failed for %s: %v", path, ref, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	files := make(map[string]*string, len(s.manifests))
	for i, path := range s.manifests {
		files[path] = results[i]
	}
	return files
}

// classifyFatal maps a repository-record fetch failure onto the domain
// taxonomy. This is the only stage whose failure aborts an ingestion.
func classifyFatal(err error) error {
	switch {
	case err == nil:
		return nil
	case IsRateLimited(err):
		return fmt.Errorf("%w: %v", domain.ErrRateLimitExhausted, err)
	case IsNotFound(err), IsForbidden(err), IsUnauthorized(err):
		return fmt.Errorf("%w: %v", domain.ErrRepoInaccessible, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
}
