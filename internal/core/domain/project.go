package domain

import "time"

// Enrichment is the AI-assisted metadata produced once per ingestion.
// The enricher guarantees a usable value: on provider failure the fields
// are filled from deterministic fallbacks instead.
type Enrichment struct {
	// Description is a short portfolio-ready description.
	Description string

	// Categories holds 1-2 suggested category identifiers.
	Categories []string

	// Topics holds 3-8 topic keywords.
	Topics []string

	// Tools holds 0-3 detected tool names.
	Tools []string

	// GeneratedDiagram is the validated synthesised diagram, empty when
	// the source document already had one or synthesis failed.
	GeneratedDiagram string
}

// ProjectDraft is the fully assembled ingestion output: repository
// reference, fetched metadata, synthesised content, and enrichment.
// Created fresh per ingestion request and owned by the orchestrator for
// the lifetime of one ingestion.
type ProjectDraft struct {
	Ref        RepoRef
	Info       RepositoryInfo
	TechStack  []string
	Content    ContentDocument
	Enrichment Enrichment
}

// SourceMeta is the "source" object of the persisted content shape.
type SourceMeta struct {
	URL      string   `json:"url"`
	Language string   `json:"language"`
	Topics   []string `json:"topics"`
	Stars    int      `json:"stars"`
}

// PersistedContent is the JSON document stored on the project record and
// consumed by rendering collaborators. Content consumers only read Blocks,
// so a synthesised diagram must appear there, not just in MermaidDiagrams.
type PersistedContent struct {
	Source          SourceMeta      `json:"source"`
	Blocks          []ContentBlock  `json:"blocks"`
	MermaidDiagrams []string        `json:"mermaidDiagrams"`
	DemoURLs        []string        `json:"demoUrls"`
	HeroImageURL    *string         `json:"heroImageUrl"`
	HeroQuote       *string         `json:"heroQuote"`
	HeroDisplayMode HeroDisplayMode `json:"heroDisplayMode"`
}

// PersistedContent flattens the draft into the stored content shape.
func (d *ProjectDraft) PersistedContent() PersistedContent {
	pc := PersistedContent{
		Source: SourceMeta{
			URL:      d.Ref.URL,
			Language: d.Info.Language,
			Topics:   d.Info.Topics,
			Stars:    d.Info.Stars,
		},
		Blocks:          d.Content.Blocks,
		MermaidDiagrams: d.Content.MermaidDiagrams,
		DemoURLs:        d.Content.DemoURLs,
		HeroDisplayMode: d.Content.HeroMode,
	}
	if d.Content.HeroImageURL != "" {
		url := d.Content.HeroImageURL
		pc.HeroImageURL = &url
	}
	if d.Content.HeroQuote != "" {
		quote := d.Content.HeroQuote
		pc.HeroQuote = &quote
	}
	return pc
}

// Project is the persisted project record. Created or updated by the upsert
// service and owned thereafter by the broader system.
type Project struct {
	// ID is the unique project identifier.
	ID string

	// OwnerID identifies the owning user.
	OwnerID string

	// OwnerHandle is the owner's public handle, used in cache keys and
	// canonical paths.
	OwnerHandle string

	// Slug is the URL slug, unique per owner.
	Slug string

	// Title is the display title, defaulting to the repository name.
	Title string

	// Description is the enriched or fallback description.
	Description string

	// SourceURL is the canonical URL of the source repository. Re-ingesting
	// the same source updates the record matched on this, not on Slug.
	SourceURL string

	// SourceLanguage is the primary language at last ingestion.
	SourceLanguage string

	// Stars is the stargazer count at last ingestion.
	Stars int

	// TechStack, Categories, Topics and Tools carry the derived metadata.
	TechStack  []string
	Categories []string
	Topics     []string
	Tools      []string

	// Content is the persisted content document.
	Content PersistedContent

	// Published and Showcased mirror the trigger flags.
	Published bool
	Showcased bool

	// CreatedAt is when the project was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the project was last re-ingested.
	UpdatedAt time.Time
}

// Path returns the canonical project path.
func (p *Project) Path() string {
	return "/" + p.OwnerHandle + "/" + p.Slug
}
