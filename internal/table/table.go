package table

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrActionDisabled = errors.New("action disabled")
	ErrRowOutOfRange  = errors.New("row out of range")
)

// Handlers receive the table's events. Nil handlers are skipped.
type Handlers struct {
	Sort         func(SortEvent)
	Filter       func(FilterEvent)
	StatusChange func(StatusChange)
}

// Options configure a Table beyond its column configuration.
type Options struct {
	Caption  Caption
	Renderer *Renderer
	Handlers Handlers
}

// Table is a configured data table. It owns only local UI state (sort
// indicator and search text); the data is supplied by the parent and is
// never reordered or mutated.
type Table struct {
	cfg      Configuration
	caption  Caption
	renderer *Renderer
	handlers Handlers

	data  []Row
	state State
}

func New(cfg Configuration, opts Options) *Table {
	r := opts.Renderer
	if r == nil {
		r = DefaultRenderer()
	}
	return &Table{
		cfg:      cfg.clone(),
		caption:  opts.Caption,
		renderer: r,
		handlers: opts.Handlers,
	}
}

// SetData replaces the rows wholesale.
func (t *Table) SetData(rows []Row) {
	t.data = append([]Row(nil), rows...)
}

// Data returns the rows as supplied.
func (t *Table) Data() []Row { return append([]Row(nil), t.data...) }

func (t *Table) Config() Configuration { return t.cfg.clone() }

func (t *Table) State() State { return t.state }

// Visible returns the rows that pass the current search.
func (t *Table) Visible() []Row {
	if !t.cfg.Searchable() {
		return t.Data()
	}
	return FilterRows(t.data, searchFields(t.cfg), t.state.Search)
}

// Render builds the current tree.
func (t *Table) Render() Tree {
	return t.renderer.Render(t.data, t.cfg, t.caption, t.state)
}

// Sort activates the header of field. It reports false, with no event, when
// the column is unknown or not sortable.
func (t *Table) Sort(field string) bool {
	col, ok := t.cfg.Column(field)
	if !ok || !col.IsSortable() {
		return false
	}
	ev := t.state.Sort.next(field)
	t.state.Sort = ev
	if t.handlers.Sort != nil {
		t.handlers.Sort(ev)
	}
	return true
}

// Search sets the search text and emits a filter event when it changed. It
// reports false when the table has no search box or the text is unchanged.
func (t *Table) Search(text string) bool {
	if !t.cfg.Searchable() || text == t.state.Search {
		return false
	}
	t.state.Search = text
	if t.handlers.Filter != nil {
		ev := FilterEvent{
			Filters:       map[string]FilterMetadata{},
			FilteredValue: t.Visible(),
		}
		if text != "" {
			ev.Filters[GlobalFilterKey] = FilterMetadata{Value: text, MatchMode: MatchContains}
		}
		t.handlers.Filter(ev)
	}
	return true
}

// SelectStatus picks value in the status dropdown of field on the row at
// index. Exactly one StatusChange is emitted per transition; selecting the
// current value or an unknown option emits nothing.
func (t *Table) SelectStatus(index int, field, value string) bool {
	if index < 0 || index >= len(t.data) {
		return false
	}
	col, ok := t.cfg.Column(field)
	if !ok || col.Type != TypeTemplate || col.TemplateName != TemplateStatusDropdown {
		return false
	}
	if !hasOption(StatusOptions(col), value) {
		return false
	}
	item := t.data[index]
	if Plain(item.Lookup(field)) == value {
		return false
	}
	if t.handlers.StatusChange != nil {
		t.handlers.StatusChange(StatusChange{Item: item, NewStatus: value})
	}
	return true
}

// RunAction invokes the action labelled label on the row at index.
func (t *Table) RunAction(label string, index int) error {
	if index < 0 || index >= len(t.data) {
		return fmt.Errorf("run action %q: %w", label, ErrRowOutOfRange)
	}
	item := t.data[index]
	for _, a := range t.cfg.Actions {
		if a.Label != label {
			continue
		}
		if a.Disabled != nil && a.Disabled(item) {
			return fmt.Errorf("run action %q: %w", label, ErrActionDisabled)
		}
		if a.Command != nil {
			a.Command(item)
		}
		return nil
	}
	return fmt.Errorf("run action %q: %w", label, ErrUnknownAction)
}
