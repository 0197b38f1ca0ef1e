package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allthriveai/showcase/internal/core/domain"
)

func testRepoInfo() domain.RepositoryInfo {
	return domain.RepositoryInfo{
		Ref: domain.RepoRef{
			Owner: "acme",
			Name:  "widget",
			URL:   "https://github.com/acme/widget",
		},
		Description: "A widget service",
		Language:    "Go",
		Topics:      []string{"widgets", "api"},
	}
}

func TestSynthesizeValidDiagram(t *testing.T) {
	llm := &fakeLLM{response: "graph TB\n  A[API] --> B[DB]"}
	s := NewDiagramSynthesizer(llm)

	got := s.Synthesize(context.Background(), testRepoInfo())

	assert.Equal(t, "graph TB\n  A[API] --> B[DB]", got)
	assert.Equal(t, 1, llm.callCount())
}

func TestSynthesizeStripsCodeFence(t *testing.T) {
	llm := &fakeLLM{response: "```mermaid\ngraph LR\n  A --> B\n```"}
	s := NewDiagramSynthesizer(llm)

	got := s.Synthesize(context.Background(), testRepoInfo())

	assert.Equal(t, "graph LR\n  A --> B", got)
}

func TestSynthesizeRejectsInvalidPrefix(t *testing.T) {
	cases := []string{
		"flowchart TD\n  A --> B",
		"Here is your diagram:\ngraph TB\n  A --> B",
		"sequenceDiagram\n  A->>B: hi",
		"",
	}
	for _, response := range cases {
		llm := &fakeLLM{response: response}
		s := NewDiagramSynthesizer(llm)
		assert.Empty(t, s.Synthesize(context.Background(), testRepoInfo()), "response %q", response)
	}
}

func TestSynthesizeProviderErrorYieldsEmpty(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider down")}
	s := NewDiagramSynthesizer(llm)

	assert.Empty(t, s.Synthesize(context.Background(), testRepoInfo()))
}

func TestSynthesizeNilProviderSkips(t *testing.T) {
	s := NewDiagramSynthesizer(nil)
	assert.Empty(t, s.Synthesize(context.Background(), testRepoInfo()))
}

func TestValidDiagram(t *testing.T) {
	assert.True(t, ValidDiagram("graph TB\n  A --> B"))
	assert.True(t, ValidDiagram("graph LR\n  A --> B"))
	assert.True(t, ValidDiagram("graph TD\n  A --> B"))
	assert.True(t, ValidDiagram("graph RL\n  A --> B"))
	assert.False(t, ValidDiagram("graph BT\n  A --> B"))
	assert.False(t, ValidDiagram("pie title Pets"))
}
