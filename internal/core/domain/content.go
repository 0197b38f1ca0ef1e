package domain

// HeroDisplayMode selects how the project header is rendered.
type HeroDisplayMode string

// Hero display modes. Image wins over quote; none when neither exists.
const (
	HeroImage HeroDisplayMode = "image"
	HeroQuote HeroDisplayMode = "quote"
	HeroNone  HeroDisplayMode = "none"
)

// ContentDocument is the ordered block sequence synthesised from a readme,
// plus the hero and diagram state derived along the way. Built incrementally
// by the parser, amended by the orchestrator, immutable once handed to the
// upsert service.
type ContentDocument struct {
	// Blocks is the ordered block sequence, parser output plus any
	// synthesised diagram block.
	Blocks []ContentBlock

	// HeroImageURL is the chosen hero image, empty when none was found.
	HeroImageURL string

	// HeroQuote is the chosen hero quote, empty when none qualified.
	HeroQuote string

	// HeroMode is resolved at assembly: image > quote > none.
	HeroMode HeroDisplayMode

	// MermaidDiagrams collects every diagram's code, embedded or
	// synthesised, in document order.
	MermaidDiagrams []string

	// DemoURLs collects detected demo/live links.
	DemoURLs []string
}

// HasDiagram reports whether the document already carries a diagram, which
// suppresses diagram synthesis.
func (d *ContentDocument) HasDiagram() bool {
	return len(d.MermaidDiagrams) > 0
}
