// Package parser converts a repository readme into an ordered sequence of
// typed content blocks: text, images, image grids, diagrams, code snippets
// and call-to-action buttons. Parsing is deterministic; the same readme
// always yields the same block sequence and hero choices.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// Hero quote bounds, exclusive, counted in runes.
const (
	minQuoteLen = 20
	maxQuoteLen = 200
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	fenceRe   = regexp.MustCompile("^(```|~~~)\\s*([A-Za-z0-9_+-]*)\\s*$")
	imageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
	linkRe    = regexp.MustCompile(`(^|[^!])\[([^\]]+)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
	// A paragraph that is nothing but a single markdown link carries no
	// prose and is rejected as a hero quote.
	pureLinkRe = regexp.MustCompile(`^\s*\[[^\]]+\]\(\s*[^)\s]+(?:\s+"[^"]*")?\s*\)\s*$`)
	// Leftover link wrappers around extracted images: [](target).
	linkWrapRe = regexp.MustCompile(`\[\s*\]\(\s*[^)\s]*\s*\)`)
)

// Parser turns readme markup into a domain.ContentDocument. It holds only
// immutable policy data and is safe for concurrent use.
type Parser struct {
	policy Policy
}

// New creates a parser with the given policy.
func New(policy Policy) *Parser {
	return &Parser{policy: policy}
}

// image is one extracted image reference.
type image struct {
	url     string
	caption string
}

// parseState accumulates the document while walking the readme.
type parseState struct {
	doc      domain.ContentDocument
	skipping bool
	para     []string
	imageRun []image
	demoSeen map[string]bool
}

// Parse converts a readme into a partially built content document: blocks,
// hero image, hero quote, embedded diagrams and demo links. Hero display
// mode and hero fallbacks are the orchestrator's job.
func (p *Parser) Parse(readme string) *domain.ContentDocument {
	st := &parseState{demoSeen: make(map[string]bool)}

	lines := strings.Split(strings.ReplaceAll(readme, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// Fenced code block: consume until the closing fence.
		if m := fenceRe.FindStringSubmatch(line); m != nil {
			p.flushParagraph(st)
			p.flushImageRun(st)

			marker, lang := m[1], strings.ToLower(m[2])
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), marker) {
					break
				}
				code = append(code, lines[i])
			}
			p.emitFence(st, lang, strings.Join(code, "\n"))
			continue
		}

		// Heading: section boundary.
		if m := headingRe.FindStringSubmatch(line); m != nil {
			p.flushParagraph(st)
			p.flushImageRun(st)

			heading := strings.TrimSpace(m[2])
			st.skipping = p.skipSection(heading)
			if !st.skipping && heading != "" {
				st.doc.Blocks = append(st.doc.Blocks, domain.TextBlock{
					Style:    domain.TextHeading,
					Content:  heading,
					Markdown: true,
				})
			}
			continue
		}

		// Blank line: paragraph boundary. Image runs survive blank lines
		// so a screenshot gallery with spacing still clusters.
		if strings.TrimSpace(line) == "" {
			p.flushParagraph(st)
			continue
		}

		// Image-only line: part of an image run.
		if imgs, ok := imageOnlyLine(line); ok {
			p.flushParagraph(st)
			st.imageRun = append(st.imageRun, imgs...)
			p.noteHeroCandidates(st, imgs)
			continue
		}

		p.flushImageRun(st)
		st.para = append(st.para, line)
	}
	p.flushParagraph(st)
	p.flushImageRun(st)

	return &st.doc
}

// skipSection reports whether a section heading matches the skip
// vocabulary (installation, setup, license, ...).
func (p *Parser) skipSection(heading string) bool {
	h := strings.ToLower(heading)
	for _, skip := range p.policy.SkipSections {
		if strings.Contains(h, skip) {
			return true
		}
	}
	return false
}

// isBadge reports whether an image URL belongs to a badge/shield host.
func (p *Parser) isBadge(url string) bool {
	u := strings.ToLower(url)
	for _, host := range p.policy.BadgeHosts {
		if strings.Contains(u, host) {
			return true
		}
	}
	return false
}

// noteHeroCandidates records the first non-badge image in document order.
func (p *Parser) noteHeroCandidates(st *parseState, imgs []image) {
	if st.doc.HeroImageURL != "" {
		return
	}
	for _, img := range imgs {
		if !p.isBadge(img.url) {
			st.doc.HeroImageURL = img.url
			return
		}
	}
}

// emitFence emits a code fence as a Mermaid or CodeSnippet block.
// Skipped sections contribute no blocks.
func (p *Parser) emitFence(st *parseState, lang, code string) {
	if st.skipping || strings.TrimSpace(code) == "" {
		return
	}
	if lang == "mermaid" {
		st.doc.Blocks = append(st.doc.Blocks, domain.MermaidBlock{Code: code})
		st.doc.MermaidDiagrams = append(st.doc.MermaidDiagrams, code)
		return
	}
	st.doc.Blocks = append(st.doc.Blocks, domain.CodeSnippetBlock{
		Code:     code,
		Language: lang,
	})
}

// flushImageRun converts an accumulated image run into blocks: three or
// more non-badge images collapse into one grid, fewer stay individual
// images, badges are dropped.
func (p *Parser) flushImageRun(st *parseState) {
	run := st.imageRun
	st.imageRun = nil
	if len(run) == 0 || st.skipping {
		return
	}

	kept := make([]image, 0, len(run))
	for _, img := range run {
		if !p.isBadge(img.url) {
			kept = append(kept, img)
		}
	}

	switch {
	case len(kept) == 0:
	case len(kept) >= 3:
		grid := domain.ImageGridBlock{Images: make([]domain.GridImage, len(kept))}
		for i, img := range kept {
			grid.Images[i] = domain.GridImage{URL: img.url, Caption: img.caption}
		}
		st.doc.Blocks = append(st.doc.Blocks, grid)
	default:
		for _, img := range kept {
			st.doc.Blocks = append(st.doc.Blocks, domain.ImageBlock{URL: img.url, Caption: img.caption})
		}
	}
}

// flushParagraph emits the accumulated paragraph: inline images become
// image blocks, prose becomes a text block, demo links add buttons.
func (p *Parser) flushParagraph(st *parseState) {
	if len(st.para) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(st.para, "\n"))
	st.para = nil
	if text == "" {
		return
	}

	// Inline images split out of the paragraph.
	inline := extractImages(text)
	p.noteHeroCandidates(st, inline)
	prose := strings.TrimSpace(imageRe.ReplaceAllString(text, ""))

	if st.skipping {
		return
	}

	for _, img := range inline {
		if !p.isBadge(img.url) {
			st.doc.Blocks = append(st.doc.Blocks, domain.ImageBlock{URL: img.url, Caption: img.caption})
		}
	}

	if prose == "" {
		return
	}

	style := domain.TextBody
	if isBlockquote(prose) {
		style = domain.TextQuote
		prose = stripBlockquote(prose)
	}

	st.doc.Blocks = append(st.doc.Blocks, domain.TextBlock{
		Style:    style,
		Content:  prose,
		Markdown: true,
	})

	p.noteHeroQuote(st, prose)
	p.emitDemoButtons(st, prose)
}

// noteHeroQuote records the first qualifying paragraph as the hero quote:
// plain text within bounds, and not a paragraph that is merely a link.
func (p *Parser) noteHeroQuote(st *parseState, prose string) {
	if st.doc.HeroQuote != "" {
		return
	}
	if pureLinkRe.MatchString(prose) {
		return
	}
	plain := plainText(prose)
	if n := utf8.RuneCountInString(plain); n > minQuoteLen && n < maxQuoteLen {
		st.doc.HeroQuote = plain
	}
}

// emitDemoButtons duplicates demo links as call-to-action buttons. The
// link itself stays in the paragraph text.
func (p *Parser) emitDemoButtons(st *parseState, prose string) {
	for _, m := range linkRe.FindAllStringSubmatch(prose, -1) {
		anchor, url := m[2], m[3]
		if !p.isDemoLink(anchor, url) || st.demoSeen[url] {
			continue
		}
		st.demoSeen[url] = true
		st.doc.DemoURLs = append(st.doc.DemoURLs, url)
		st.doc.Blocks = append(st.doc.Blocks, domain.ButtonBlock{
			Text:  anchor,
			URL:   url,
			Style: "primary",
			Size:  "large",
		})
	}
}

// isDemoLink reports whether a link's anchor text or URL mentions one of
// the demo keywords.
func (p *Parser) isDemoLink(anchor, url string) bool {
	a := strings.ToLower(anchor)
	u := strings.ToLower(url)
	for _, kw := range p.policy.DemoKeywords {
		if strings.Contains(a, kw) || strings.Contains(u, kw) {
			return true
		}
	}
	return false
}

// extractImages pulls every image reference out of a chunk of markup.
func extractImages(text string) []image {
	var imgs []image
	for _, m := range imageRe.FindAllStringSubmatch(text, -1) {
		imgs = append(imgs, image{url: m[2], caption: m[1]})
	}
	return imgs
}

// imageOnlyLine reports whether a line consists solely of image references
// (optionally wrapped in links) and returns them.
func imageOnlyLine(line string) ([]image, bool) {
	imgs := extractImages(line)
	if len(imgs) == 0 {
		return nil, false
	}
	rest := imageRe.ReplaceAllString(line, "")
	rest = linkWrapRe.ReplaceAllString(rest, "")
	rest = strings.Trim(rest, " \t[]()")
	if strings.TrimSpace(rest) != "" {
		return nil, false
	}
	return imgs, true
}

func isBlockquote(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), ">")
}

func stripBlockquote(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.TrimPrefix(strings.TrimSpace(line), "> "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// plainText strips common markdown markup for length measurement and hero
// quote display.
var (
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	emphasisRe   = regexp.MustCompile(`[*_]{1,3}`)
)

func plainText(text string) string {
	t := imageRe.ReplaceAllString(text, "")
	t = linkRe.ReplaceAllString(t, "$1$2")
	t = inlineCodeRe.ReplaceAllString(t, "")
	t = emphasisRe.ReplaceAllString(t, "")
	t = strings.ReplaceAll(t, "\n", " ")
	return strings.TrimSpace(t)
}
