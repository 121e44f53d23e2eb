// Package ws holds the worksheet domain model: the block sum type, bundle
// metadata and lifecycle, and the pure formatting helpers shared by the TUI
// and the scriptable CLI. Nothing in this package talks to the network.
package ws

import (
	"encoding/json"
	"fmt"
)

type BlockMode string

const (
	ModeMarkup        BlockMode = "markup_block"
	ModeTable         BlockMode = "table_block"
	ModeContents      BlockMode = "contents_block"
	ModeRecord        BlockMode = "record_block"
	ModeImage         BlockMode = "image_block"
	ModeGraph         BlockMode = "graph_block"
	ModeSubworksheets BlockMode = "subworksheets_block"
	ModeSchema        BlockMode = "schema_block"
	ModePlaceholder   BlockMode = "placeholder_block"
)

// Status codes reported for table blocks whose cell contents may still be
// resolving server-side.
const (
	StatusBrieflyLoaded = "briefly_loaded"
	StatusReady         = "ready"
)

type BlockStatus struct {
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Block is the tagged variant for the nine renderable block modes. Exactly one
// of the payload pointers matching Mode is non-nil; an unknown mode leaves all
// of them nil and renders as an unsupported-mode slot.
//
// Sort keys are pointers because the server emits null for the trailing key of
// aggregate search results (see FoldsUp).
type Block struct {
	Mode      BlockMode  `json:"mode"`
	SortKeys  []*float64 `json:"sort_keys,omitempty"`
	IDs       []int      `json:"ids,omitempty"`
	IsRefined bool       `json:"is_refined,omitempty"`

	Markup        *MarkupBlock
	Table         *TableBlock
	Contents      *ContentsBlock
	Record        *RecordBlock
	Image         *ImageBlock
	Graph         *GraphBlock
	Subworksheets *SubworksheetsBlock
	Schema        *SchemaBlock
	Placeholder   *PlaceholderBlock

	// LoadedFromPlaceholder marks blocks substituted in by the lazy resolver.
	LoadedFromPlaceholder bool

	// Dummy marks the synthetic markup block inserted so an empty worksheet
	// stays editable. Dummy blocks are never sent back to the server as ids.
	Dummy bool
}

type MarkupBlock struct {
	Text  string `json:"text"`
	Error bool   `json:"error,omitempty"`
}

type BundleInfo struct {
	UUID         string         `json:"uuid"`
	BundleType   string         `json:"bundle_type,omitempty"`
	State        string         `json:"state,omitempty"`
	Args         string         `json:"args,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	SortKey      *float64       `json:"sort_key,omitempty"`
	MissingValue bool           `json:"missing,omitempty"`
}

// Name returns the bundle's metadata name, or a shortened uuid when unnamed.
func (bi BundleInfo) Name() string {
	if bi.Metadata != nil {
		if n, ok := bi.Metadata["name"].(string); ok && n != "" {
			return n
		}
	}
	if len(bi.UUID) > 8 {
		return bi.UUID[:8]
	}
	return bi.UUID
}

type BundlesSpec struct {
	BundleInfos []BundleInfo `json:"bundle_infos"`
}

type TableBlock struct {
	Header                 []string         `json:"header"`
	Rows                   []map[string]any `json:"rows"`
	BundlesSpec            BundlesSpec      `json:"bundles_spec"`
	UsingSchemas           []string         `json:"using_schemas,omitempty"`
	FirstBundleSourceIndex int              `json:"first_bundle_source_index"`
	Status                 BlockStatus      `json:"status"`
}

type ContentsBlock struct {
	Lines       []string    `json:"lines"`
	BundlesSpec BundlesSpec `json:"bundles_spec"`
	MaxLines    int         `json:"max_lines,omitempty"`
}

type RecordBlock struct {
	// Header is [keyColumn, valueColumn].
	Header      []string         `json:"header"`
	Rows        []map[string]any `json:"rows"`
	BundlesSpec BundlesSpec      `json:"bundles_spec"`
	Status      BlockStatus      `json:"status"`
}

type ImageBlock struct {
	ImageData   string      `json:"image_data"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
	BundlesSpec BundlesSpec `json:"bundles_spec"`
}

type GraphTrajectory struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"display_name,omitempty"`
	Target      string `json:"target,omitempty"`
}

type GraphBlock struct {
	Trajectories []GraphTrajectory `json:"trajectories,omitempty"`
	BundlesSpec  BundlesSpec       `json:"bundles_spec"`
	XLabel       string            `json:"xlabel,omitempty"`
	YLabel       string            `json:"ylabel,omitempty"`
	MinX         *float64          `json:"min_x,omitempty"`
	MaxX         *float64          `json:"max_x,omitempty"`
}

type SubworksheetInfo struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type SubworksheetsBlock struct {
	Infos []SubworksheetInfo `json:"subworksheet_infos"`
}

type SchemaBlock struct {
	SchemaName string           `json:"schema_name"`
	Header     []string         `json:"header"`
	FieldRows  []map[string]any `json:"field_rows"`
}

type PlaceholderBlock struct {
	Directive  string `json:"directive"`
	ItemHeight int    `json:"item_height,omitempty"`
}

// blockEnvelope mirrors the wire shape: common fields plus the union of all
// per-mode fields. UnmarshalJSON dispatches on mode.
type blockEnvelope struct {
	Mode      BlockMode  `json:"mode"`
	SortKeys  []*float64 `json:"sort_keys"`
	IDs       []int      `json:"ids"`
	IsRefined bool       `json:"is_refined"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("block envelope: %w", err)
	}
	b.Mode = env.Mode
	b.SortKeys = env.SortKeys
	b.IDs = env.IDs
	b.IsRefined = env.IsRefined

	var payload any
	switch env.Mode {
	case ModeMarkup:
		b.Markup = &MarkupBlock{}
		payload = b.Markup
	case ModeTable:
		b.Table = &TableBlock{}
		payload = b.Table
	case ModeContents:
		b.Contents = &ContentsBlock{}
		payload = b.Contents
	case ModeRecord:
		b.Record = &RecordBlock{}
		payload = b.Record
	case ModeImage:
		b.Image = &ImageBlock{}
		payload = b.Image
	case ModeGraph:
		b.Graph = &GraphBlock{}
		payload = b.Graph
	case ModeSubworksheets:
		b.Subworksheets = &SubworksheetsBlock{}
		payload = b.Subworksheets
	case ModeSchema:
		b.Schema = &SchemaBlock{}
		payload = b.Schema
	case ModePlaceholder:
		b.Placeholder = &PlaceholderBlock{}
		payload = b.Placeholder
	default:
		// Unknown mode: keep the envelope; renderers show an inline error.
		return nil
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("%s payload: %w", env.Mode, err)
	}
	return nil
}

// RowCount reports how many focusable sub-rows the block exposes. Blocks
// without row structure count as a single sub-row so two-axis focus stays
// total.
func (b Block) RowCount() int {
	switch b.Mode {
	case ModeTable:
		if b.Table != nil && len(b.Table.Rows) > 0 {
			return len(b.Table.Rows)
		}
	case ModeSubworksheets:
		if b.Subworksheets != nil && len(b.Subworksheets.Infos) > 0 {
			return len(b.Subworksheets.Infos)
		}
	case ModeRecord:
		if b.Record != nil && len(b.Record.Rows) > 0 {
			return len(b.Record.Rows)
		}
	}
	return 1
}

// FirstBundle returns the single backing bundle for one-bundle block modes.
func (b Block) FirstBundle() *BundleInfo {
	var spec *BundlesSpec
	switch {
	case b.Contents != nil:
		spec = &b.Contents.BundlesSpec
	case b.Image != nil:
		spec = &b.Image.BundlesSpec
	case b.Record != nil:
		spec = &b.Record.BundlesSpec
	case b.Table != nil:
		spec = &b.Table.BundlesSpec
	case b.Graph != nil:
		spec = &b.Graph.BundlesSpec
	}
	if spec == nil || len(spec.BundleInfos) == 0 {
		return nil
	}
	return &spec.BundleInfos[0]
}

// MaxSortKey returns the largest non-null sort key, with ok=false when every
// key is null or the block has none.
func (b Block) MaxSortKey() (float64, bool) {
	max, ok := 0.0, false
	for _, k := range b.SortKeys {
		if k == nil {
			continue
		}
		if !ok || *k > max {
			max, ok = *k, true
		}
	}
	return max, ok
}

func f64(v float64) *float64 { return &v }
