package github

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// extLanguages maps file extensions to language names.
var extLanguages = map[string]string{
	".go": "Go", ".py": "Python", ".rs": "Rust",
	".ts": "TypeScript", ".tsx": "TypeScript", ".js": "JavaScript", ".jsx": "JavaScript",
	".rb": "Ruby", ".java": "Java", ".kt": "Kotlin", ".kts": "Kotlin",
	".swift": "Swift", ".c": "C", ".cpp": "C++", ".cc": "C++", ".cs": "C#",
	".php": "PHP", ".scala": "Scala", ".ex": "Elixir", ".exs": "Elixir",
	".dart": "Dart", ".vue": "Vue.js", ".svelte": "Svelte",
}

// manifestLanguages maps dependency-manifest file names to language names.
var manifestLanguages = map[string]string{
	"go.mod":           "Go",
	"requirements.txt": "Python",
	"pyproject.toml":   "Python",
	"Pipfile":          "Python",
	"Cargo.toml":       "Rust",
	"Gemfile":          "Ruby",
	"pom.xml":          "Java",
	"build.gradle":     "Java",
	"composer.json":    "PHP",
	"package.json":     "JavaScript",
}

// frameworkMarker is a substring probe against one manifest's content.
type frameworkMarker struct {
	manifest string
	needle   string
	name     string
}

// frameworkMarkers lists framework detections, probed in order so the
// derived stack is deterministic for a given snapshot.
var frameworkMarkers = []frameworkMarker{
	{"package.json", "\"next\"", "Next.js"},
	{"package.json", "\"react\"", "React"},
	{"package.json", "\"vue\"", "Vue.js"},
	{"package.json", "\"svelte\"", "Svelte"},
	{"package.json", "\"@angular/core\"", "Angular"},
	{"package.json", "\"express\"", "Express"},
	{"package.json", "\"tailwindcss\"", "Tailwind CSS"},
	{"requirements.txt", "django", "Django"},
	{"requirements.txt", "flask", "Flask"},
	{"requirements.txt", "fastapi", "FastAPI"},
	{"requirements.txt", "torch", "PyTorch"},
	{"requirements.txt", "tensorflow", "TensorFlow"},
	{"pyproject.toml", "django", "Django"},
	{"pyproject.toml", "fastapi", "FastAPI"},
	{"go.mod", "github.com/gin-gonic/gin", "Gin"},
	{"go.mod", "github.com/labstack/echo", "Echo"},
	{"Cargo.toml", "actix-web", "Actix"},
	{"Cargo.toml", "tokio", "Tokio"},
	{"Gemfile", "rails", "Rails"},
}

// DeriveTechStack derives language and framework names from the file tree
// and dependency manifest contents via static pattern matching. Manifest
// signals come first, then tree extensions, deduplicated in probe order.
func DeriveTechStack(tree []domain.TreeEntry, deps map[string]*string) []string {
	var stack []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			stack = append(stack, name)
		}
	}

	// Manifest presence names the language outright.
	paths := make([]string, 0, len(deps))
	for path := range deps {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if deps[path] != nil {
			add(manifestLanguages[filepath.Base(path)])
		}
	}

	// Manifest contents name frameworks.
	for _, m := range frameworkMarkers {
		content, ok := deps[m.manifest]
		if !ok || content == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*content), strings.ToLower(m.needle)) {
			add(m.name)
		}
	}

	// Tree extensions fill in languages with no manifest.
	counts := make(map[string]int)
	for _, entry := range tree {
		if entry.Type != domain.TreeEntryFile {
			continue
		}
		if lang, ok := extLanguages[strings.ToLower(filepath.Ext(entry.Path))]; ok {
			counts[lang]++
		}
	}
	// A couple of stray files of a language is noise, not stack. Fixed
	// order keeps derivation deterministic.
	for _, lang := range languageOrder {
		if counts[lang] >= 3 {
			add(lang)
		}
	}

	return stack
}

// languageOrder fixes the emission order of tree-derived languages.
var languageOrder = []string{
	"Go", "Python", "Rust", "TypeScript", "JavaScript", "Ruby", "Java",
	"Kotlin", "Swift", "C", "C++", "C#", "PHP", "Scala", "Elixir", "Dart",
	"Vue.js", "Svelte",
}
