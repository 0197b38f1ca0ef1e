package domain

import "encoding/json"

// BlockType is the discriminator tag carried by every serialised block.
type BlockType string

// Block type tags. These are part of the persisted content shape and must
// not change without migrating stored documents.
const (
	BlockTypeText      BlockType = "text"
	BlockTypeImage     BlockType = "image"
	BlockTypeImageGrid BlockType = "image_grid"
	BlockTypeMermaid   BlockType = "mermaid"
	BlockTypeCode      BlockType = "code"
	BlockTypeButton    BlockType = "button"
	BlockTypeColumns   BlockType = "columns"
)

// ContentBlock is one typed, ordered unit of a synthesised content document.
// The sum is closed: only the variants in this file implement it, so the
// serialiser can match exhaustively.
type ContentBlock interface {
	// Type returns the discriminator tag for this variant.
	Type() BlockType

	isBlock()
}

// TextStyle classifies a text block for rendering.
type TextStyle string

// Text styles.
const (
	TextHeading TextStyle = "heading"
	TextBody    TextStyle = "body"
	TextQuote   TextStyle = "quote"
)

// TextBlock is a paragraph, heading, or quote.
type TextBlock struct {
	Style   TextStyle `json:"style"`
	Content string    `json:"content"`

	// Markdown tells the renderer whether Content still carries markup.
	// Parser-produced text defaults to true.
	Markdown bool `json:"markdown"`
}

// ImageBlock is a single inline image.
type ImageBlock struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// GridImage is one cell of an ImageGridBlock.
type GridImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// ImageGridBlock replaces a run of three or more consecutive images.
type ImageGridBlock struct {
	Images  []GridImage `json:"images"`
	Caption string      `json:"caption,omitempty"`
}

// MermaidBlock is an embedded or synthesised diagram.
type MermaidBlock struct {
	Code    string `json:"code"`
	Caption string `json:"caption,omitempty"`
}

// CodeSnippetBlock is a fenced code block.
type CodeSnippetBlock struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ButtonBlock is a call-to-action link, e.g. a detected demo link.
type ButtonBlock struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Style string `json:"style"`
	Size  string `json:"size"`
}

// ColumnsBlock lays nested blocks out side by side.
type ColumnsBlock struct {
	ColumnCount int              `json:"columnCount"`
	Columns     [][]ContentBlock `json:"columns"`
}

// Type implementations.

func (TextBlock) Type() BlockType        { return BlockTypeText }
func (ImageBlock) Type() BlockType       { return BlockTypeImage }
func (ImageGridBlock) Type() BlockType   { return BlockTypeImageGrid }
func (MermaidBlock) Type() BlockType     { return BlockTypeMermaid }
func (CodeSnippetBlock) Type() BlockType { return BlockTypeCode }
func (ButtonBlock) Type() BlockType      { return BlockTypeButton }
func (ColumnsBlock) Type() BlockType     { return BlockTypeColumns }

func (TextBlock) isBlock()        {}
func (ImageBlock) isBlock()       {}
func (ImageGridBlock) isBlock()   {}
func (MermaidBlock) isBlock()     {}
func (CodeSnippetBlock) isBlock() {}
func (ButtonBlock) isBlock()      {}
func (ColumnsBlock) isBlock()     {}

// MarshalJSON implementations inject the discriminator tag. Each uses a
// local alias type to avoid marshalling recursion.

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	type alias ImageBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b ImageGridBlock) MarshalJSON() ([]byte, error) {
	type alias ImageGridBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b MermaidBlock) MarshalJSON() ([]byte, error) {
	type alias MermaidBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b CodeSnippetBlock) MarshalJSON() ([]byte, error) {
	type alias CodeSnippetBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b ButtonBlock) MarshalJSON() ([]byte, error) {
	type alias ButtonBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}

func (b ColumnsBlock) MarshalJSON() ([]byte, error) {
	type alias ColumnsBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{b.Type(), alias(b)})
}
