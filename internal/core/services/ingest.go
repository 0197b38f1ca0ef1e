package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/logger"
	"github.com/allthriveai/showcase/internal/parser"
)

// Ensure IngestionService implements the interfaces.
var (
	_ driving.Ingestor = (*IngestionService)(nil)
	_ driving.Draft    = (*IngestionService)(nil)
)

// RepositoryServiceFactory builds a repository service scoped to one
// credential. Each ingestion gets its own instance so rate-limit
// accounting never crosses tenants.
type RepositoryServiceFactory func(ctx context.Context, credential string) driven.RepositoryService

// IngestionService sequences the pipeline: Fetch, Parse, Enrich, Assemble,
// Upsert. Stage order is strict; only a Fetching failure is fatal to the
// draft.
type IngestionService struct {
	repos    RepositoryServiceFactory
	parser   *parser.Parser
	diagrams *DiagramSynthesizer
	enricher *MetadataEnricher
	upserter *ProjectUpsertService
}

// NewIngestionService wires the pipeline together. upserter may be nil for
// draft-only use.
func NewIngestionService(
	repos RepositoryServiceFactory,
	p *parser.Parser,
	diagrams *DiagramSynthesizer,
	enricher *MetadataEnricher,
	upserter *ProjectUpsertService,
) *IngestionService {
	return &IngestionService{
		repos:    repos,
		parser:   p,
		diagrams: diagrams,
		enricher: enricher,
		upserter: upserter,
	}
}

// Draft runs the pipeline up to assembly and returns the ProjectDraft
// without persisting it.
func (s *IngestionService) Draft(ctx context.Context, req driving.IngestRequest) (*domain.ProjectDraft, error) {
	ref, err := domain.ParseRepoURL(req.RepositoryURL)
	if err != nil {
		return nil, err
	}

	// Fetching. The only stage whose failure aborts the ingestion.
	logger.Stage("Fetching %s", ref)
	snap, err := s.repos(ctx, req.Credential).Snapshot(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Parsing. A missing readme yields an empty document, not an error.
	logger.Stage("Parsing")
	var doc *domain.ContentDocument
	if snap.Readme != nil {
		doc = s.parser.Parse(*snap.Readme)
	} else {
		logger.Info("no readme found for %s", ref)
		doc = &domain.ContentDocument{}
	}

	// Enriching. Diagram synthesis and metadata enrichment are mutually
	// independent; neither can fail the ingestion.
	logger.Stage("Enriching")
	var (
		generated  string
		enrichment domain.Enrichment
	)
	g, gctx := errgroup.WithContext(ctx)
	if !doc.HasDiagram() {
		g.Go(func() error {
			generated = s.diagrams.Synthesize(gctx, snap.Info)
			return nil
		})
	}
	g.Go(func() error {
		enrichment = s.enricher.Enrich(gctx, snap.Info, doc)
		return nil
	})
	_ = g.Wait() // both branches always resolve

	// Assembled.
	if generated != "" {
		doc.Blocks = append(doc.Blocks, domain.MermaidBlock{
			Code:    generated,
			Caption: "Architecture Diagram",
		})
		doc.MermaidDiagrams = append(doc.MermaidDiagrams, generated)
		enrichment.GeneratedDiagram = generated
	}

	// Hero fallback chain: parsed image, social preview, owner avatar.
	if doc.HeroImageURL == "" {
		switch {
		case snap.Info.SocialPreviewURL != "":
			doc.HeroImageURL = snap.Info.SocialPreviewURL
		case snap.Info.OwnerAvatarURL != "":
			doc.HeroImageURL = snap.Info.OwnerAvatarURL
		}
	}

	switch {
	case doc.HeroImageURL != "":
		doc.HeroMode = domain.HeroImage
	case doc.HeroQuote != "":
		doc.HeroMode = domain.HeroQuote
	default:
		doc.HeroMode = domain.HeroNone
	}

	return &domain.ProjectDraft{
		Ref:        ref,
		Info:       snap.Info,
		TechStack:  snap.TechStack,
		Content:    *doc,
		Enrichment: enrichment,
	}, nil
}

// Ingest runs the full pipeline and persists the result.
func (s *IngestionService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	draft, err := s.Draft(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.upserter == nil {
		return nil, fmt.Errorf("ingest: no upsert service configured")
	}

	logger.Stage("Upserting")
	return s.upserter.Upsert(ctx, req, draft)
}
