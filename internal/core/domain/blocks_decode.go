package domain

import (
	"encoding/json"
	"fmt"
)

// UnmarshalBlock decodes one tagged block back into its concrete variant.
// The discriminator is the "type" field written by MarshalJSON.
func UnmarshalBlock(data []byte) (ContentBlock, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding block tag: %w", err)
	}

	switch head.Type {
	case BlockTypeText:
		var b TextBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeImage:
		var b ImageBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeImageGrid:
		var b ImageGridBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeMermaid:
		var b MermaidBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeCode:
		var b CodeSnippetBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeButton:
		var b ButtonBlock
		return b, json.Unmarshal(data, &b)
	case BlockTypeColumns:
		var b ColumnsBlock
		return b, json.Unmarshal(data, &b)
	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
}

// unmarshalBlockList decodes a JSON array of tagged blocks.
func unmarshalBlockList(raws []json.RawMessage) ([]ContentBlock, error) {
	if raws == nil {
		return nil, nil
	}
	blocks := make([]ContentBlock, 0, len(raws))
	for _, raw := range raws {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// UnmarshalJSON restores the nested block columns from their tagged form.
func (b *ColumnsBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		ColumnCount int                 `json:"columnCount"`
		Columns     [][]json.RawMessage `json:"columns"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.ColumnCount = raw.ColumnCount
	b.Columns = nil
	for _, col := range raw.Columns {
		blocks, err := unmarshalBlockList(col)
		if err != nil {
			return err
		}
		b.Columns = append(b.Columns, blocks)
	}
	return nil
}

// UnmarshalJSON restores the block sequence from its tagged form.
func (pc *PersistedContent) UnmarshalJSON(data []byte) error {
	type alias PersistedContent
	raw := struct {
		Blocks []json.RawMessage `json:"blocks"`
		*alias
	}{alias: (*alias)(pc)}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	blocks, err := unmarshalBlockList(raw.Blocks)
	if err != nil {
		return err
	}
	pc.Blocks = blocks
	return nil
}
