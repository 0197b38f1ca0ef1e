package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/parser"
)

func testSnapshot(readme *string) *domain.RepositorySnapshot {
	return &domain.RepositorySnapshot{
		Info:      testRepoInfo(),
		Readme:    readme,
		TechStack: []string{"Go"},
	}
}

func newTestIngestion(repo driven.RepositoryService, llm driven.LLMService, upserter *ProjectUpsertService) *IngestionService {
	factory := func(_ context.Context, _ string) driven.RepositoryService { return repo }
	return NewIngestionService(
		factory,
		parser.New(parser.DefaultPolicy()),
		NewDiagramSynthesizer(llm),
		NewMetadataEnricher(llm),
		upserter,
	)
}

func testRequest() driving.IngestRequest {
	return driving.IngestRequest{
		OwnerID:       "user-1",
		OwnerHandle:   "alice",
		RepositoryURL: "https://github.com/acme/widget",
		Credential:    "token",
	}
}

func TestDraftAppendsSynthesisedDiagram(t *testing.T) {
	readme := "# Widget\n\nA widget service for everyone to enjoy together.\n"
	llm := &fakeLLM{responses: map[string]string{
		"mermaid architecture diagram": "graph TB\n  A[API] --> B[Store]",
		"portfolio metadata":           `{"description": "Desc.", "topics": ["a", "b", "c"]}`,
	}}
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(&readme)}, llm, nil)

	draft, err := svc.Draft(context.Background(), testRequest())
	require.NoError(t, err)

	require.NotEmpty(t, draft.Content.MermaidDiagrams)
	assert.Equal(t, "graph TB\n  A[API] --> B[Store]", draft.Content.MermaidDiagrams[0])
	assert.Equal(t, "graph TB\n  A[API] --> B[Store]", draft.Enrichment.GeneratedDiagram)

	last := draft.Content.Blocks[len(draft.Content.Blocks)-1]
	mermaid, ok := last.(domain.MermaidBlock)
	require.True(t, ok, "synthesised diagram must be appended as a block")
	assert.Equal(t, "Architecture Diagram", mermaid.Caption)
}

func TestDraftSkipsSynthesisWhenDiagramPresent(t *testing.T) {
	readme := "# Widget\n\nIntro text that is long enough to be a paragraph.\n\n```mermaid\ngraph LR\n  A --> B\n```\n"
	llm := &fakeLLM{responses: map[string]string{
		"portfolio metadata": `{"description": "Desc.", "topics": ["a", "b", "c"]}`,
	}}
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(&readme)}, llm, nil)

	draft, err := svc.Draft(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Len(t, draft.Content.MermaidDiagrams, 1)
	assert.Empty(t, draft.Enrichment.GeneratedDiagram)
	// Only the enrichment call should have reached the provider.
	assert.Equal(t, 1, llm.callCount())
}

func TestDraftMissingReadmeYieldsEmptyDocument(t *testing.T) {
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(nil)}, nil, nil)

	draft, err := svc.Draft(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Empty(t, draft.Content.Blocks)
	// Fallback enrichment still fills the description.
	assert.Equal(t, "A widget service", draft.Enrichment.Description)
}

func TestDraftHeroFallbackChain(t *testing.T) {
	t.Run("social preview when readme has no image", func(t *testing.T) {
		readme := "# Widget\n\nJust text here, nothing visual at all to see.\n"
		snap := testSnapshot(&readme)
		snap.Info.SocialPreviewURL = "https://img.example/social.png"
		snap.Info.OwnerAvatarURL = "https://img.example/avatar.png"
		svc := newTestIngestion(&fakeRepoService{snapshot: snap}, nil, nil)

		draft, err := svc.Draft(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/social.png", draft.Content.HeroImageURL)
		assert.Equal(t, domain.HeroImage, draft.Content.HeroMode)
	})

	t.Run("avatar when no social preview", func(t *testing.T) {
		readme := "# Widget\n\nJust text here, nothing visual at all to see.\n"
		snap := testSnapshot(&readme)
		snap.Info.OwnerAvatarURL = "https://img.example/avatar.png"
		svc := newTestIngestion(&fakeRepoService{snapshot: snap}, nil, nil)

		draft, err := svc.Draft(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/avatar.png", draft.Content.HeroImageURL)
	})

	t.Run("none when nothing available", func(t *testing.T) {
		svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(nil)}, nil, nil)

		draft, err := svc.Draft(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Empty(t, draft.Content.HeroImageURL)
		assert.Equal(t, domain.HeroNone, draft.Content.HeroMode)
	})
}

func TestDraftFetchFailureIsFatal(t *testing.T) {
	svc := newTestIngestion(&fakeRepoService{err: domain.ErrRepoInaccessible}, nil, nil)

	_, err := svc.Draft(context.Background(), testRequest())
	assert.ErrorIs(t, err, domain.ErrRepoInaccessible)
}

func TestDraftInvalidURL(t *testing.T) {
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(nil)}, nil, nil)

	req := testRequest()
	req.RepositoryURL = "not a repository"
	_, err := svc.Draft(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidRepoURL)
}

func TestDraftEnrichmentRunsConcurrently(t *testing.T) {
	readme := "# Widget\n\nA paragraph long enough to survive the parser's filters.\n"
	llm := &fakeLLM{
		delay: 80 * time.Millisecond,
		responses: map[string]string{
			"mermaid architecture diagram": "graph TB\n  A --> B",
			"portfolio metadata":           `{"description": "Desc.", "topics": ["a", "b", "c"]}`,
		},
	}
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(&readme)}, llm, nil)

	start := time.Now()
	_, err := svc.Draft(context.Background(), testRequest())
	require.NoError(t, err)

	// Two 80ms calls run in parallel, not back to back.
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, 2, llm.callCount())
}

func TestIngestPersistsDraft(t *testing.T) {
	readme := "# Widget\n\nA paragraph long enough to survive the parser's filters.\n"
	store := newFakeProjectStore()
	cache := newFakeCache()
	upserter := NewProjectUpsertService(store, cache)
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(&readme)}, nil, upserter)

	result, err := svc.Ingest(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "/alice/widget", result.Path)
	assert.NotEmpty(t, result.ProjectID)

	stored, err := store.GetBySource(context.Background(), "user-1", "https://github.com/acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "widget", stored.Slug)
}

func TestIngestWithoutUpserterErrors(t *testing.T) {
	svc := newTestIngestion(&fakeRepoService{snapshot: testSnapshot(nil)}, nil, nil)

	_, err := svc.Ingest(context.Background(), testRequest())
	assert.Error(t, err)
}
