package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/tidwall/gjson"

	"github.com/five82/fleetdash/internal/table"
)

const (
	pxPerRow       = 40
	pxPerCell      = 8
	defaultRowsMax = 10
)

// statusPicker is an open status dropdown. It is bound to a record, not a
// position; setRows re-resolves index after every refresh.
type statusPicker struct {
	index   int // row index in the table data
	key     string
	field   string
	options []table.Option
	cursor  int
}

// tableView hosts a table.Table. It is the parent of the table: it applies
// the sort the table asks for and queues status edits for the model.
type tableView struct {
	tbl      *table.Table
	renderer *table.Renderer
	cfg      table.Configuration

	source []table.Row
	sort   table.SortEvent
	filter table.FilterEvent

	search    textinput.Model
	searching bool
	cursor    int // position among rendered rows
	col       int // focused column
	offset    int
	picker    *statusPicker

	changes []table.StatusChange
	errs    []error
}

func newTableView(cfg table.Configuration, renderer *table.Renderer, caption table.Caption) *tableView {
	if renderer == nil {
		renderer = table.DefaultRenderer()
	}
	tv := &tableView{renderer: renderer, cfg: cfg}
	tv.tbl = table.New(cfg, table.Options{
		Caption:  caption,
		Renderer: renderer,
		Handlers: table.Handlers{
			Sort: func(ev table.SortEvent) {
				tv.sort = ev
				tv.tbl.SetData(table.SortRows(tv.source, ev, tv.renderer.Format.Tag()))
			},
			Filter: func(ev table.FilterEvent) {
				tv.filter = ev
			},
			StatusChange: func(ch table.StatusChange) {
				tv.changes = append(tv.changes, ch)
			},
		},
	})

	ti := textinput.New()
	ti.Placeholder = table.SearchPlaceholder
	ti.Prompt = "⌕ "
	ti.CharLimit = 64
	tv.search = ti
	return tv
}

// setRows replaces the authoritative rows and re-applies the current sort.
func (tv *tableView) setRows(rows []table.Row) {
	tv.source = append([]table.Row(nil), rows...)
	tv.tbl.SetData(table.SortRows(tv.source, tv.sort, tv.renderer.Format.Tag()))
	tv.rebindPicker()
	tv.clamp()
}

// rebindPicker points an open picker at its record's new position, closing
// it when the record is gone.
func (tv *tableView) rebindPicker() {
	p := tv.picker
	if p == nil {
		return
	}
	for i, r := range tv.tbl.Data() {
		if rowKey(r) != p.key {
			continue
		}
		p.index = i
		for pos, br := range tv.tbl.Render().Rows {
			if br.Index == i {
				tv.cursor = pos
			}
		}
		return
	}
	tv.picker = nil
}

// rowKey identifies a record across refreshes: its id, or the whole record
// when it has none.
func rowKey(r table.Row) string {
	if id := r.Lookup("id"); id.Exists() && id.Type != gjson.Null {
		return "id:" + id.Raw
	}
	return "raw:" + r.String()
}

// drainChanges returns and clears the queued status edits.
func (tv *tableView) drainChanges() []table.StatusChange {
	out := tv.changes
	tv.changes = nil
	return out
}

// drainErrors returns and clears errors from row actions.
func (tv *tableView) drainErrors() []error {
	out := tv.errs
	tv.errs = nil
	return out
}

// editing reports whether keystrokes belong to the table's own inputs.
func (tv *tableView) editing() bool { return tv.searching || tv.picker != nil }

func (tv *tableView) clamp() {
	n := len(tv.tbl.Render().Rows)
	if tv.cursor >= n {
		tv.cursor = n - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
	if cols := len(tv.cfg.Columns); tv.col >= cols {
		tv.col = cols - 1
	}
	if tv.col < 0 {
		tv.col = 0
	}
	limit := tv.visibleRows()
	if limit <= 0 {
		tv.offset = 0
		return
	}
	if tv.cursor < tv.offset {
		tv.offset = tv.cursor
	}
	if tv.cursor >= tv.offset+limit {
		tv.offset = tv.cursor - limit + 1
	}
}

// visibleRows is the body height, zero meaning unbounded.
func (tv *tableView) visibleRows() int {
	if !tv.cfg.IsScrollable() {
		return 0
	}
	px, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(tv.cfg.Height()), "px"))
	if err != nil || px <= 0 {
		return defaultRowsMax
	}
	return max(px/pxPerRow, 1)
}

// handleKey processes a key while the table has focus.
func (tv *tableView) handleKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	if tv.searching {
		return tv.handleSearchKey(msg, keys)
	}
	if tv.picker != nil {
		tv.handlePickerKey(msg, keys)
		return nil
	}

	tree := tv.tbl.Render()
	switch {
	case key.Matches(msg, keys.Up):
		tv.cursor--
	case key.Matches(msg, keys.Down):
		tv.cursor++
	case key.Matches(msg, keys.Top):
		tv.cursor = 0
	case key.Matches(msg, keys.Bottom):
		tv.cursor = len(tree.Rows) - 1
	case key.Matches(msg, keys.Left):
		tv.col--
	case key.Matches(msg, keys.Right):
		tv.col++
	case key.Matches(msg, keys.Sort):
		if tv.col < len(tv.cfg.Columns) {
			tv.tbl.Sort(tv.cfg.Columns[tv.col].Field)
		}
	case key.Matches(msg, keys.Search):
		if tree.Search != nil {
			tv.searching = true
			return tv.search.Focus()
		}
	case key.Matches(msg, keys.Confirm):
		tv.openPicker(tree)
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && tree.HasActions {
			tv.runAction(tree, n-1)
		}
	}
	tv.clamp()
	return nil
}

func (tv *tableView) handleSearchKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Confirm) {
		tv.searching = false
		tv.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	tv.search, cmd = tv.search.Update(msg)
	if tv.tbl.Search(tv.search.Value()) {
		tv.cursor, tv.offset = 0, 0
	}
	tv.clamp()
	return cmd
}

func (tv *tableView) handlePickerKey(msg tea.KeyMsg, keys keyMap) {
	p := tv.picker
	switch {
	case key.Matches(msg, keys.Escape):
		tv.picker = nil
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Confirm):
		if p.cursor >= 0 && p.cursor < len(p.options) {
			tv.tbl.SelectStatus(p.index, p.field, p.options[p.cursor].Value)
		}
		tv.picker = nil
	}
}

// openPicker opens the status dropdown under the cursor, if there is one.
func (tv *tableView) openPicker(tree table.Tree) {
	if tv.cursor < 0 || tv.cursor >= len(tree.Rows) || tv.col >= len(tv.cfg.Columns) {
		return
	}
	row := tree.Rows[tv.cursor]
	cell := row.Cells[tv.col]
	if cell.Kind != table.CellStatus {
		return
	}
	p := &statusPicker{index: row.Index, key: rowKey(row.Item), field: cell.Field, options: cell.Options}
	for i, opt := range cell.Options {
		if opt.Value == cell.Text {
			p.cursor = i
		}
	}
	tv.picker = p
}

func (tv *tableView) runAction(tree table.Tree, n int) {
	if tv.cursor < 0 || tv.cursor >= len(tree.Rows) {
		return
	}
	row := tree.Rows[tv.cursor]
	if n < 0 || n >= len(row.Actions) {
		return
	}
	if err := tv.tbl.RunAction(row.Actions[n].Label, row.Index); err != nil {
		tv.errs = append(tv.errs, err)
	}
}

// view draws the table tree.
func (tv *tableView) view(th Theme, width int, focused bool) string {
	styles := th.Styles()
	tree := tv.tbl.Render()

	var parts []string
	if tree.ShowCaption {
		title := styles.Text.Bold(true).Render(tree.Caption.Title)
		if tree.Caption.Image != "" {
			title = styles.AccentText.Render("▣ ") + title
		}
		parts = append(parts, title)
		if tree.Caption.Description != "" {
			parts = append(parts, styles.MutedText.Render(tree.Caption.Description))
		}
	}
	if tree.Search != nil {
		search := tv.search.View()
		if !tv.searching && tv.search.Value() == "" {
			search = styles.FaintText.Render("/ " + tree.Search.Placeholder)
		}
		parts = append(parts, search)
	}

	parts = append(parts, tv.grid(th, tree, width, focused))

	if tv.picker != nil {
		parts = append(parts, tv.pickerView(th))
	}
	parts = append(parts, styles.FaintText.Render(tv.footer(tree)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (tv *tableView) grid(th Theme, tree table.Tree, width int, focused bool) string {
	styles := th.Styles()

	headers := make([]string, 0, len(tree.Headers)+1)
	for _, h := range tree.Headers {
		headers = append(headers, headerLabel(h))
	}
	if tree.HasActions {
		headers = append(headers, "Actions")
	}

	var rows [][]string
	var statusCells [][]string // raw status text per body row, for badge coloring
	if tree.Empty {
		row := make([]string, tree.Colspan)
		if len(row) > 0 {
			row[0] = tree.EmptyMessage
		}
		rows = append(rows, row)
	} else {
		start, end := 0, len(tree.Rows)
		if limit := tv.visibleRows(); limit > 0 && end > limit {
			start = tv.offset
			end = min(start+limit, len(tree.Rows))
		}
		for _, br := range tree.Rows[start:end] {
			cells := make([]string, 0, len(br.Cells)+1)
			status := make([]string, len(br.Cells))
			for i, c := range br.Cells {
				cells = append(cells, truncate(cellText(c), columnWidth(tree.Headers[i].Width)))
				if c.Kind == table.CellStatus {
					status[i] = c.Text
				}
			}
			if tree.HasActions {
				cells = append(cells, actionsText(br.Actions))
			}
			rows = append(rows, cells)
			statusCells = append(statusCells, status)
		}
	}

	border := lipgloss.NormalBorder()
	borderColor := th.Border
	if focused {
		borderColor = th.BorderFocus
	}

	offset := tv.offset
	if tv.visibleRows() == 0 {
		offset = 0
	}

	t := ltable.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))).
		BorderHeader(true).
		BorderColumn(tree.Gridlines).
		BorderRow(tree.Gridlines).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				s := base.Bold(true).Foreground(lipgloss.Color(th.Accent))
				if focused && col == tv.col {
					s = s.Underline(true)
				}
				return s
			}
			if tree.Empty {
				return base.Foreground(lipgloss.Color(th.Muted))
			}
			if focused && row+offset == tv.cursor {
				return base.Inherit(styles.Selected)
			}
			if row < len(statusCells) && col < len(statusCells[row]) && statusCells[row][col] != "" {
				return base.Foreground(lipgloss.Color(statusColor(th, statusCells[row][col])))
			}
			return base.Foreground(lipgloss.Color(th.Text))
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func (tv *tableView) pickerView(th Theme) string {
	styles := th.Styles()
	lines := []string{styles.MutedText.Render(table.StatusPlaceholder)}
	for i, opt := range tv.picker.options {
		line := "  " + styles.StatusStyle(opt.Value).Render(opt.Label)
		if i == tv.picker.cursor {
			line = styles.Selected.Render("▸ " + opt.Label)
		}
		lines = append(lines, line)
	}
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (tv *tableView) footer(tree table.Tree) string {
	total := len(tv.source)
	shown := len(tree.Rows)
	parts := []string{fmt.Sprintf("Showing %d of %d", shown, total)}
	if f, ok := tv.filter.Filters[table.GlobalFilterKey]; ok {
		parts = append(parts, fmt.Sprintf("matching %q", f.Value))
	}
	if tv.sort.Order != table.SortNone {
		if col, ok := tv.cfg.Column(tv.sort.Field); ok {
			parts = append(parts, fmt.Sprintf("sorted by %s (%s)", col.Header, tv.sort.Order))
		}
	}
	return strings.Join(parts, " · ")
}

func headerLabel(h table.HeaderCell) string {
	if !h.Sortable {
		return h.Header
	}
	switch h.Order {
	case table.SortAscending:
		return h.Header + " ▲"
	case table.SortDescending:
		return h.Header + " ▼"
	default:
		return h.Header + " ⇅"
	}
}

// cellText maps a rendered cell to terminal text.
func cellText(c table.Cell) string {
	switch c.Kind {
	case table.CellBoolean:
		return ternary(c.Truthy, table.GlyphTrue, table.GlyphFalse)
	case table.CellDevice:
		if c.Text == "" {
			return ""
		}
		return "▢ " + c.Text
	case table.CellStatus:
		if c.Text == "" {
			return c.Placeholder + " ▾"
		}
		return c.Text + " ▾"
	default:
		return c.Text
	}
}

func actionsText(actions []table.ActionState) string {
	labels := make([]string, 0, len(actions))
	for i, a := range actions {
		label := fmt.Sprintf("%d:%s", i+1, a.Label)
		if a.Disabled {
			label = "(" + label + ")"
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " ")
}

// columnWidth converts a width hint such as "120px" to terminal cells; zero
// leaves the cell untruncated.
func columnWidth(hint string) int {
	px, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(hint), "px"))
	if err != nil || px <= 0 {
		return 0
	}
	return max(px/pxPerCell, 4)
}

func statusColor(th Theme, status string) string {
	if c, ok := th.StatusColors[status]; ok {
		return c
	}
	return th.Muted
}
