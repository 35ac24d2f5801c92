package table

import (
	"strings"
	"time"
)

// NoDataMessage is the empty-state text.
const NoDataMessage = "No data found"

// Caption is the optional header block above the table.
type Caption struct {
	Title       string
	Description string
	Image       string
}

// IsZero reports whether no caption part is set.
func (c Caption) IsZero() bool {
	return strings.TrimSpace(c.Title) == "" && strings.TrimSpace(c.Description) == "" && strings.TrimSpace(c.Image) == ""
}

// SearchBox is present when the configuration names global filter fields.
type SearchBox struct {
	Value       string
	Placeholder string
}

// HeaderCell is one column header.
type HeaderCell struct {
	Field    string
	Header   string
	Width    string
	Sortable bool
	// Order is the column's current sort order, SortNone when unsorted.
	Order SortOrder
}

// ActionState is an action button as rendered for one row.
type ActionState struct {
	Label    string
	Icon     string
	Disabled bool
}

// BodyRow is one rendered record.
type BodyRow struct {
	// Index is the row's position in the data handed to Render.
	Index   int
	Item    Row
	Cells   []Cell
	Actions []ActionState
}

// State is the renderer-local UI state.
type State struct {
	Sort   SortEvent
	Search string
}

// Tree is the complete render output. Equal inputs produce equal trees.
type Tree struct {
	Caption     Caption
	ShowCaption bool
	Search      *SearchBox
	Headers     []HeaderCell
	HasActions  bool
	Rows        []BodyRow
	// Empty is set when no rows remain; EmptyMessage spans Colspan columns.
	Empty        bool
	EmptyMessage string
	Colspan      int

	Gridlines    bool
	Scrollable   bool
	ScrollHeight string
	Reorderable  bool
}

// Renderer maps rows and a configuration to a Tree.
type Renderer struct {
	Format    Formatter
	Templates Templates
}

// NewRenderer returns a renderer. A nil template set uses BuiltinTemplates.
func NewRenderer(f Formatter, t Templates) *Renderer {
	if t == nil {
		t = BuiltinTemplates()
	}
	return &Renderer{Format: f, Templates: t}
}

// DefaultRenderer renders en-US in the local time zone with the builtin templates.
func DefaultRenderer() *Renderer {
	return NewRenderer(NewFormatter(DefaultLocale, time.Local), nil)
}

// Render builds the tree for rows. Rows are filtered by st.Search when the
// configuration is searchable; they are never reordered here.
func (r *Renderer) Render(rows []Row, cfg Configuration, caption Caption, st State) Tree {
	tree := Tree{
		Caption:      caption,
		ShowCaption:  !caption.IsZero(),
		HasActions:   len(cfg.Actions) > 0,
		Gridlines:    cfg.GridlinesShown(),
		Scrollable:   cfg.IsScrollable(),
		ScrollHeight: cfg.Height(),
		Reorderable:  cfg.ColumnsReorderable(),
	}
	if cfg.Searchable() {
		tree.Search = &SearchBox{Value: st.Search, Placeholder: SearchPlaceholder}
	}

	tree.Headers = make([]HeaderCell, len(cfg.Columns))
	for i, col := range cfg.Columns {
		h := HeaderCell{Field: col.Field, Header: col.Header, Width: col.Width, Sortable: col.IsSortable()}
		if h.Sortable && st.Sort.Field == col.Field {
			h.Order = st.Sort.Order
		}
		tree.Headers[i] = h
	}

	fields := searchFields(cfg)
	for i, row := range rows {
		if cfg.Searchable() && st.Search != "" && len(FilterRows([]Row{row}, fields, st.Search)) == 0 {
			continue
		}
		tree.Rows = append(tree.Rows, r.row(i, row, cfg))
	}

	if len(tree.Rows) == 0 {
		tree.Empty = true
		tree.EmptyMessage = NoDataMessage
		tree.Colspan = len(cfg.Columns)
		if tree.HasActions {
			tree.Colspan++
		}
	}
	return tree
}

func (r *Renderer) row(index int, row Row, cfg Configuration) BodyRow {
	br := BodyRow{Index: index, Item: row, Cells: make([]Cell, len(cfg.Columns))}
	for i, col := range cfg.Columns {
		br.Cells[i] = r.Cell(row, index, col)
	}
	for _, a := range cfg.Actions {
		st := ActionState{Label: a.Label, Icon: a.Icon}
		if a.Disabled != nil {
			st.Disabled = a.Disabled(row)
		}
		br.Actions = append(br.Actions, st)
	}
	return br
}

// Cell renders one value of row according to col.
func (r *Renderer) Cell(row Row, index int, col Column) Cell {
	v := row.Lookup(col.Field)
	switch col.Type {
	case TypeDate:
		return Cell{Kind: CellText, Field: col.Field, Text: r.Format.Date(v)}
	case TypeNumber:
		return Cell{Kind: CellText, Field: col.Field, Text: r.Format.Number(v)}
	case TypeBoolean:
		t := Truthy(v)
		icon, glyph := boolIcon(t)
		return Cell{Kind: CellBoolean, Field: col.Field, Text: glyph, Icon: icon, Truthy: t}
	case TypeTemplate:
		if fn, ok := r.Templates[col.TemplateName]; ok && fn != nil && col.TemplateName != "" {
			return fn(CellContext{Row: row, RowIndex: index, Column: col, Value: v})
		}
	}
	return Cell{Kind: CellText, Field: col.Field, Text: Plain(v)}
}
