package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/logger"
)

// diagramMaxTokens bounds the completion length; architecture sketches do
// not need more.
const diagramMaxTokens = 300

// validDiagramPrefixes are the only accepted openings of a synthesised
// diagram. Anything else is discarded.
var validDiagramPrefixes = []string{"graph TB", "graph LR", "graph TD", "graph RL"}

const diagramPromptTemplate = `Create a simple mermaid architecture diagram for this software project.

Project: %s
Description: %s
Primary language: %s
Topics: %s

Respond with ONLY the mermaid diagram code. It must start with "graph TB",
"graph LR", "graph TD" or "graph RL". Use at most 8 nodes. No explanation,
no code fences.`

// DiagramSynthesizer produces a validated architecture diagram via one AI
// completion call. It is best-effort enrichment: it never errors, never
// retries, and returns an empty string when the provider is unavailable or
// the response fails validation.
type DiagramSynthesizer struct {
	llm driven.LLMService
}

// NewDiagramSynthesizer creates a diagram synthesizer. llm may be nil, in
// which case synthesis is skipped entirely.
func NewDiagramSynthesizer(llm driven.LLMService) *DiagramSynthesizer {
	return &DiagramSynthesizer{llm: llm}
}

// Synthesize generates a diagram for a repository without one. The result
// is either a diagram string starting with a valid prefix, or empty.
func (s *DiagramSynthesizer) Synthesize(ctx context.Context, info domain.RepositoryInfo) string {
	if s.llm == nil {
		return ""
	}

	prompt := fmt.Sprintf(diagramPromptTemplate,
		info.Ref.Name,
		info.Description,
		info.Language,
		strings.Join(info.Topics, ", "),
	)

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   diagramMaxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		logger.Warn("diagram synthesis failed for %s: %v", info.Ref, err)
		return ""
	}

	diagram := stripCodeFence(strings.TrimSpace(raw))
	if !ValidDiagram(diagram) {
		logger.Warn("diagram synthesis for %s rejected: invalid prefix", info.Ref)
		return ""
	}
	return diagram
}

// ValidDiagram reports whether a diagram starts with one of the accepted
// mermaid graph prefixes.
func ValidDiagram(diagram string) bool {
	for _, prefix := range validDiagramPrefixes {
		if strings.HasPrefix(diagram, prefix) {
			return true
		}
	}
	return false
}

// stripCodeFence removes an enclosing markdown code fence, with or without
// a language tag, from an AI response.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence line.
	if idx := strings.Index(s, "\n"); idx != -1 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, " \t") && len(first) <= 20 {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
