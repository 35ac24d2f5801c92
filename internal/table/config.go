package table

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnType selects how a column's value is formatted.
type ColumnType string

const (
	TypeText     ColumnType = "text"
	TypeNumber   ColumnType = "number"
	TypeDate     ColumnType = "date"
	TypeBoolean  ColumnType = "boolean"
	TypeTemplate ColumnType = "template"
)

const defaultScrollHeight = "400px"

// Column is one rendering rule per displayed attribute.
type Column struct {
	Field        string     `toml:"field" json:"field"`
	Header       string     `toml:"header" json:"header"`
	Type         ColumnType `toml:"type,omitempty" json:"type,omitempty"`
	TemplateName string     `toml:"template_name,omitempty" json:"templateName,omitempty"`
	Sortable     *bool      `toml:"sortable,omitempty" json:"sortable,omitempty"`
	Filterable   *bool      `toml:"filterable,omitempty" json:"filterable,omitempty"`
	Width        string     `toml:"width,omitempty" json:"width,omitempty"`
	// Options lists the choices of a statusDropdown column. Empty uses
	// DefaultStatusOptions.
	Options []Option `toml:"options,omitempty" json:"options,omitempty"`
}

// IsSortable reports whether the header offers a sort affordance.
func (c Column) IsSortable() bool { return c.Sortable == nil || *c.Sortable }

// IsFilterable reports whether the column takes part in the global search.
func (c Column) IsFilterable() bool { return c.Filterable == nil || *c.Filterable }

// Action is a row-level command.
type Action struct {
	Label    string
	Icon     string
	Command  func(item Row)
	Disabled func(item Row) bool
}

// Configuration fully determines how a table renders and behaves.
type Configuration struct {
	Columns            []Column `toml:"columns" json:"columns"`
	Actions            []Action `toml:"-" json:"-"`
	GlobalFilterFields []string `toml:"global_filter_fields,omitempty" json:"globalFilterFields,omitempty"`
	Scrollable         *bool    `toml:"scrollable,omitempty" json:"scrollable,omitempty"`
	ScrollHeight       string   `toml:"scroll_height,omitempty" json:"scrollHeight,omitempty"`
	ShowGridlines      *bool    `toml:"show_gridlines,omitempty" json:"showGridlines,omitempty"`
	ReorderableColumns *bool    `toml:"reorderable_columns,omitempty" json:"reorderableColumns,omitempty"`
}

// Bool returns a pointer to v, for the optional flags of Column and Configuration.
func Bool(v bool) *bool { return &v }

// Searchable reports whether a search box is offered.
func (c Configuration) Searchable() bool { return len(c.GlobalFilterFields) > 0 }

func (c Configuration) IsScrollable() bool { return c.Scrollable == nil || *c.Scrollable }

func (c Configuration) GridlinesShown() bool { return c.ShowGridlines == nil || *c.ShowGridlines }

func (c Configuration) ColumnsReorderable() bool {
	return c.ReorderableColumns == nil || *c.ReorderableColumns
}

// Height returns the scroll height hint, defaulting to 400px.
func (c Configuration) Height() string {
	if h := strings.TrimSpace(c.ScrollHeight); h != "" {
		return h
	}
	return defaultScrollHeight
}

// Column returns the column bound to field.
func (c Configuration) Column(field string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}

// Validate reports configuration mistakes. The renderer never requires a
// valid configuration; malformed columns fall back to plain values, so the
// result is only useful for logging.
func (c Configuration) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Columns))
	for i, col := range c.Columns {
		if strings.TrimSpace(col.Field) == "" {
			errs = append(errs, fmt.Errorf("column %d: field is empty", i))
			continue
		}
		if _, dup := seen[col.Field]; dup {
			errs = append(errs, fmt.Errorf("column %q: duplicate field", col.Field))
		}
		seen[col.Field] = struct{}{}
		switch col.Type {
		case "", TypeText, TypeNumber, TypeDate, TypeBoolean:
		case TypeTemplate:
			if strings.TrimSpace(col.TemplateName) == "" {
				errs = append(errs, fmt.Errorf("column %q: template type without template name", col.Field))
			}
		default:
			errs = append(errs, fmt.Errorf("column %q: unknown type %q", col.Field, col.Type))
		}
	}
	for _, a := range c.Actions {
		if a.Command == nil {
			errs = append(errs, fmt.Errorf("action %q: command is nil", a.Label))
		}
	}
	return errors.Join(errs...)
}

func (c Configuration) clone() Configuration {
	out := c
	out.Columns = make([]Column, len(c.Columns))
	for i, col := range c.Columns {
		col.Sortable = cloneBool(col.Sortable)
		col.Filterable = cloneBool(col.Filterable)
		col.Options = append([]Option(nil), col.Options...)
		out.Columns[i] = col
	}
	out.Actions = append([]Action(nil), c.Actions...)
	out.GlobalFilterFields = append([]string(nil), c.GlobalFilterFields...)
	out.Scrollable = cloneBool(c.Scrollable)
	out.ShowGridlines = cloneBool(c.ShowGridlines)
	out.ReorderableColumns = cloneBool(c.ReorderableColumns)
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
