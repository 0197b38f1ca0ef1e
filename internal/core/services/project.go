package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/logger"
)

// Project-listing cache keys. The upsert service deletes both variants on
// every write for the affected owner.
const cacheKeyPrefix = "projects:v2:"

// CacheKeyOwn is the owner's private project-listing cache key.
func CacheKeyOwn(handle string) string {
	return cacheKeyPrefix + handle + ":own"
}

// CacheKeyPublic is the owner's public project-listing cache key.
func CacheKeyPublic(handle string) string {
	return cacheKeyPrefix + handle + ":public"
}

// ProjectUpsertService creates or updates exactly one project record per
// draft and invalidates the owner's cached listings before returning, so a
// read immediately after an upsert never observes stale data.
type ProjectUpsertService struct {
	store driven.ProjectStore
	cache driven.CacheStore
}

// NewProjectUpsertService creates an upsert service. cache may be nil when
// no listing cache is deployed.
func NewProjectUpsertService(store driven.ProjectStore, cache driven.CacheStore) *ProjectUpsertService {
	return &ProjectUpsertService{store: store, cache: cache}
}

// Upsert persists the draft for the owning user. Re-ingesting the same
// source repository updates the existing record in place, matched on the
// source URL rather than the slug, so a renamed repository never spawns a
// duplicate.
func (s *ProjectUpsertService) Upsert(ctx context.Context, req driving.IngestRequest, draft *domain.ProjectDraft) (*driving.IngestResult, error) {
	existing, err := s.store.GetBySource(ctx, req.OwnerID, draft.Ref.URL)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup: %v", domain.ErrUpsertFailed, err)
	}

	var project *domain.Project
	created := existing == nil

	if created {
		project = s.newProject(req, draft)
		if err := s.createWithUniqueSlug(ctx, project); err != nil {
			return nil, err
		}
	} else {
		project = existing
		s.applyDraft(project, req, draft)
		if err := s.store.Update(ctx, project); err != nil {
			return nil, fmt.Errorf("%w: update: %v", domain.ErrUpsertFailed, err)
		}
	}

	// Invalidation must be visible before we return; see the ordering
	// guarantee on driven.CacheStore.
	if err := s.invalidate(ctx, project.OwnerHandle); err != nil {
		return nil, err
	}

	action := "updated"
	if created {
		action = "created"
	}
	logger.Info("%s project %s for %s", action, project.Slug, project.OwnerHandle)
	return &driving.IngestResult{
		ProjectID: project.ID,
		Path:      project.Path(),
		Created:   created,
	}, nil
}

// newProject builds a fresh record from the draft.
func (s *ProjectUpsertService) newProject(req driving.IngestRequest, draft *domain.ProjectDraft) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		OwnerHandle: req.OwnerHandle,
		Title:       draft.Ref.Name,
		SourceURL:   draft.Ref.URL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.applyDraft(p, req, draft)
	return p
}

// applyDraft copies the ingestion output onto a record. Publication flags
// only ever raise: re-ingesting without --publish does not unpublish.
func (s *ProjectUpsertService) applyDraft(p *domain.Project, req driving.IngestRequest, draft *domain.ProjectDraft) {
	p.Title = draft.Ref.Name
	p.Description = draft.Enrichment.Description
	p.SourceLanguage = draft.Info.Language
	p.Stars = draft.Info.Stars
	p.TechStack = draft.TechStack
	p.Categories = draft.Enrichment.Categories
	p.Topics = draft.Enrichment.Topics
	p.Tools = draft.Enrichment.Tools
	p.Content = draft.PersistedContent()
	p.Published = p.Published || req.AutoPublish
	p.Showcased = p.Showcased || req.AddToShowcase
	p.UpdatedAt = time.Now().UTC()
}

// createWithUniqueSlug resolves a free slug and inserts the record. A
// concurrent writer can take the slug between the check and the insert;
// that conflict is retried exactly once with a fresh uniqueness check.
func (s *ProjectUpsertService) createWithUniqueSlug(ctx context.Context, project *domain.Project) error {
	base := Slugify(project.Title)

	for attempt := 0; attempt < 2; attempt++ {
		slug, err := s.resolveSlug(ctx, project.OwnerID, base)
		if err != nil {
			return fmt.Errorf("%w: resolve slug: %v", domain.ErrUpsertFailed, err)
		}
		project.Slug = slug

		err = s.store.Create(ctx, project)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrUpsertConflict) {
			return fmt.Errorf("%w: create: %v", domain.ErrUpsertFailed, err)
		}
		logger.Warn("slug %s taken concurrently, re-resolving", slug)
	}

	return domain.ErrUpsertFailed
}

// resolveSlug appends a numeric suffix until the slug is free for this
// owner. Collision resolution never overwrites an unrelated project.
func (s *ProjectUpsertService) resolveSlug(ctx context.Context, ownerID, base string) (string, error) {
	slug := base
	for n := 2; ; n++ {
		taken, err := s.store.SlugTaken(ctx, ownerID, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// invalidate deletes both listing cache keys for the owner.
func (s *ProjectUpsertService) invalidate(ctx context.Context, handle string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, CacheKeyOwn(handle), CacheKeyPublic(handle)); err != nil {
		return fmt.Errorf("%w: invalidate cache: %v", domain.ErrUpsertFailed, err)
	}
	return nil
}

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashesRe  = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL slug from a repository name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = slugDashesRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "project"
	}
	return s
}
