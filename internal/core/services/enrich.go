package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/logger"
)

// Enrichment cardinality bounds.
const (
	maxCategories = 2
	minTopics     = 3
	maxTopics     = 8
	maxTools      = 3

	enrichMaxTokens = 500

	// contentSummaryLimit bounds how much parsed prose goes into the
	// enrichment prompt.
	contentSummaryLimit = 1500
)

const enrichPromptTemplate = `Suggest portfolio metadata for this software project.

Repository: %s
Stated description: %s
Primary language: %s
Declared topics: %s
Readme excerpt:
%s

Respond with ONLY a JSON object of this exact shape:
{"description": "...", "categories": ["..."], "topics": ["..."], "tools": ["..."]}

description: one engaging sentence. categories: 1-2 of: web, mobile, ai-ml,
devtools, data, games, infra, other. topics: 3-8 short keywords.
tools: 0-3 notable tools or services the project uses.`

// enrichPayload is the JSON shape requested from the model.
type enrichPayload struct {
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Topics      []string `json:"topics"`
	Tools       []string `json:"tools"`
}

// MetadataEnricher produces description, category, topic and tool
// suggestions from repository metadata and parsed content. The fallback
// path is always available and never itself fails, so Enrich is guaranteed
// to return a usable result.
type MetadataEnricher struct {
	llm driven.LLMService
}

// NewMetadataEnricher creates a metadata enricher. llm may be nil, in
// which case every call takes the fallback path.
func NewMetadataEnricher(llm driven.LLMService) *MetadataEnricher {
	return &MetadataEnricher{llm: llm}
}

// Enrich returns AI-suggested metadata, collapsing any provider failure
// into the deterministic fallback. It never returns an error.
func (e *MetadataEnricher) Enrich(ctx context.Context, info domain.RepositoryInfo, content *domain.ContentDocument) domain.Enrichment {
	enrichment, err := e.tryEnrich(ctx, info, content)
	if err != nil {
		logger.Warn("enrichment for %s degraded to fallback: %v", info.Ref, err)
		return FallbackEnrichment(info)
	}
	return enrichment
}

// tryEnrich is the AI branch. Every failure mode maps to
// domain.ErrEnrichmentUnavailable so the caller can collapse it to the
// fallback without inspecting causes.
func (e *MetadataEnricher) tryEnrich(ctx context.Context, info domain.RepositoryInfo, content *domain.ContentDocument) (domain.Enrichment, error) {
	if e.llm == nil {
		return domain.Enrichment{}, domain.ErrEnrichmentUnavailable
	}

	prompt := fmt.Sprintf(enrichPromptTemplate,
		info.Ref,
		info.Description,
		info.Language,
		strings.Join(info.Topics, ", "),
		contentSummary(content),
	)

	raw, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   enrichMaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("%w: %v", domain.ErrEnrichmentUnavailable, err)
	}

	var payload enrichPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return domain.Enrichment{}, fmt.Errorf("%w: decode response: %v", domain.ErrEnrichmentUnavailable, err)
	}
	if strings.TrimSpace(payload.Description) == "" {
		return domain.Enrichment{}, fmt.Errorf("%w: empty description", domain.ErrEnrichmentUnavailable)
	}

	enrichment := domain.Enrichment{
		Description: strings.TrimSpace(payload.Description),
		Categories:  clamp(payload.Categories, maxCategories),
		Topics:      clamp(payload.Topics, maxTopics),
		Tools:       clamp(payload.Tools, maxTools),
	}

	// Top up sparse topics from the repository's own tags.
	if len(enrichment.Topics) < minTopics {
		for _, t := range info.Topics {
			if len(enrichment.Topics) >= minTopics {
				break
			}
			if !contains(enrichment.Topics, t) {
				enrichment.Topics = append(enrichment.Topics, t)
			}
		}
	}

	return enrichment, nil
}

// FallbackEnrichment is the deterministic template used when the AI branch
// is unavailable: the repository's own description verbatim, or a generic
// language string, with topics from the declared tags.
func FallbackEnrichment(info domain.RepositoryInfo) domain.Enrichment {
	description := strings.TrimSpace(info.Description)
	if description == "" {
		if info.Language != "" {
			description = info.Language + " project"
		} else {
			description = "Software project"
		}
	}
	return domain.Enrichment{
		Description: description,
		Topics:      clamp(info.Topics, maxTopics),
	}
}

// contentSummary flattens the parsed document's prose for the prompt.
func contentSummary(content *domain.ContentDocument) string {
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range content.Blocks {
		txt, ok := block.(domain.TextBlock)
		if !ok || txt.Style == domain.TextHeading {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt.Content)
		if b.Len() >= contentSummaryLimit {
			break
		}
	}
	s := b.String()
	if len(s) > contentSummaryLimit {
		s = s[:contentSummaryLimit]
	}
	return s
}

// extractJSON pulls the first JSON object out of a model response that may
// be wrapped in prose or code fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func clamp(values []string, max int) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(out, v) {
			continue
		}
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
