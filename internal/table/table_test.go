package table

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func utcRenderer(locale string) *Renderer {
	return NewRenderer(NewFormatter(locale, time.UTC), nil)
}

func statusConfig() Configuration {
	return Configuration{
		Columns: []Column{
			{Field: "vehicle", Header: "Vehicle", Type: TypeText},
			{Field: "status", Header: "Status", Type: TypeTemplate, TemplateName: TemplateStatusDropdown},
		},
	}
}

func TestEndToEndStatusChange(t *testing.T) {
	var got []StatusChange
	tbl := New(statusConfig(), Options{
		Renderer: utcRenderer("en-US"),
		Handlers: Handlers{StatusChange: func(c StatusChange) { got = append(got, c) }},
	})
	tbl.SetData([]Row{MustRow(map[string]any{"vehicle": "V1", "status": "Active"})})

	tree := tbl.Render()
	require.Len(t, tree.Rows, 1)
	require.False(t, tree.Empty)
	cell := tree.Rows[0].Cells[1]
	require.Equal(t, CellStatus, cell.Kind)
	require.Equal(t, "Active", cell.Text)
	require.Equal(t, DefaultStatusOptions, cell.Options)

	require.True(t, tbl.SelectStatus(0, "status", "Inactive"))
	require.Len(t, got, 1)
	require.Equal(t, "Inactive", got[0].NewStatus)
	require.JSONEq(t, `{"vehicle":"V1","status":"Active"}`, got[0].Item.String())
}

func TestSelectStatusDoesNotMutateInput(t *testing.T) {
	count := 0
	tbl := New(statusConfig(), Options{Handlers: Handlers{StatusChange: func(StatusChange) { count++ }}})
	rows := []Row{MustRow(map[string]any{"vehicle": "V1", "status": "Active"})}
	before := rows[0].Raw()
	tbl.SetData(rows)

	require.True(t, tbl.SelectStatus(0, "status", "Inactive"))
	require.Equal(t, 1, count)
	require.JSONEq(t, string(before), rows[0].String())
	require.JSONEq(t, string(before), tbl.Data()[0].String())
	require.Equal(t, "Active", tbl.Render().Rows[0].Cells[1].Text)
}

func TestSelectStatusRejects(t *testing.T) {
	count := 0
	tbl := New(statusConfig(), Options{Handlers: Handlers{StatusChange: func(StatusChange) { count++ }}})
	tbl.SetData([]Row{MustRow(map[string]any{"vehicle": "V1", "status": "Active"})})

	require.False(t, tbl.SelectStatus(0, "status", "Active"), "same value")
	require.False(t, tbl.SelectStatus(0, "status", "Retired"), "unknown option")
	require.False(t, tbl.SelectStatus(0, "vehicle", "Inactive"), "not a status column")
	require.False(t, tbl.SelectStatus(3, "status", "Inactive"), "row out of range")
	require.Zero(t, count)
}

func TestSortToggling(t *testing.T) {
	var events []SortEvent
	cfg := Configuration{Columns: []Column{
		{Field: "vehicle", Header: "Vehicle"},
		{Field: "plateNum", Header: "Plate"},
		{Field: "gps", Header: "GPS", Sortable: Bool(false)},
	}}
	tbl := New(cfg, Options{Handlers: Handlers{Sort: func(e SortEvent) { events = append(events, e) }}})

	require.True(t, tbl.Sort("vehicle"))
	require.True(t, tbl.Sort("vehicle"))
	require.True(t, tbl.Sort("vehicle"))
	require.True(t, tbl.Sort("plateNum"))
	require.False(t, tbl.Sort("gps"))
	require.False(t, tbl.Sort("nope"))

	require.Equal(t, []SortEvent{
		{Field: "vehicle", Order: SortAscending},
		{Field: "vehicle", Order: SortDescending},
		{Field: "vehicle", Order: SortAscending},
		{Field: "plateNum", Order: SortAscending},
	}, events)

	tree := tbl.Render()
	require.Equal(t, SortNone, tree.Headers[0].Order)
	require.Equal(t, SortAscending, tree.Headers[1].Order)
	require.False(t, tree.Headers[2].Sortable)
}

func TestSortDoesNotReorderData(t *testing.T) {
	tbl := New(Configuration{Columns: []Column{{Field: "n", Header: "N"}}}, Options{})
	tbl.SetData([]Row{MustRow(map[string]int{"n": 2}), MustRow(map[string]int{"n": 1})})
	tbl.Sort("n")
	tree := tbl.Render()
	require.Equal(t, "2", tree.Rows[0].Cells[0].Text)
	require.Equal(t, "1", tree.Rows[1].Cells[0].Text)
}

func TestSearch(t *testing.T) {
	var events []FilterEvent
	cfg := Configuration{
		Columns: []Column{
			{Field: "vehicle", Header: "Vehicle"},
			{Field: "fleet", Header: "Fleet"},
			{Field: "sim", Header: "SIM", Filterable: Bool(false)},
		},
		GlobalFilterFields: []string{"vehicle", "fleet", "sim"},
	}
	tbl := New(cfg, Options{Handlers: Handlers{Filter: func(e FilterEvent) { events = append(events, e) }}})
	tbl.SetData([]Row{
		MustRow(map[string]string{"vehicle": "Truck 1", "fleet": "North", "sim": "alpha"}),
		MustRow(map[string]string{"vehicle": "Van 2", "fleet": "South", "sim": "north"}),
	})

	require.True(t, tbl.Search("NORTH"))
	require.False(t, tbl.Search("NORTH"))
	require.Len(t, events, 1)
	require.Equal(t, FilterMetadata{Value: "NORTH", MatchMode: MatchContains}, events[0].Filters[GlobalFilterKey])
	require.Len(t, events[0].FilteredValue, 1)
	require.Equal(t, "Truck 1", events[0].FilteredValue[0].Lookup("vehicle").String())

	tree := tbl.Render()
	require.NotNil(t, tree.Search)
	require.Equal(t, "NORTH", tree.Search.Value)
	require.Len(t, tree.Rows, 1)
	require.Equal(t, 0, tree.Rows[0].Index)

	require.True(t, tbl.Search(""))
	require.Empty(t, events[1].Filters)
	require.Len(t, events[1].FilteredValue, 2)
}

func TestSearchDisabledWithoutFilterFields(t *testing.T) {
	called := false
	tbl := New(statusConfig(), Options{Handlers: Handlers{Filter: func(FilterEvent) { called = true }}})
	require.False(t, tbl.Search("x"))
	require.False(t, called)
	require.Nil(t, tbl.Render().Search)
}

func TestRunAction(t *testing.T) {
	var ran []string
	cfg := Configuration{
		Columns: []Column{{Field: "vehicle", Header: "Vehicle"}},
		Actions: []Action{
			{Label: "Edit", Icon: "pi pi-pencil", Command: func(r Row) { ran = append(ran, r.Lookup("vehicle").String()) }},
			{Label: "Delete", Command: func(Row) { ran = append(ran, "deleted") }, Disabled: func(r Row) bool {
				return r.Lookup("locked").Bool()
			}},
		},
	}
	tbl := New(cfg, Options{})
	tbl.SetData([]Row{MustRow(map[string]any{"vehicle": "V1", "locked": true})})

	require.NoError(t, tbl.RunAction("Edit", 0))
	require.ErrorIs(t, tbl.RunAction("Delete", 0), ErrActionDisabled)
	require.ErrorIs(t, tbl.RunAction("Archive", 0), ErrUnknownAction)
	require.ErrorIs(t, tbl.RunAction("Edit", 4), ErrRowOutOfRange)
	require.Equal(t, []string{"V1"}, ran)

	tree := tbl.Render()
	require.True(t, tree.HasActions)
	require.Equal(t, []ActionState{{Label: "Edit", Icon: "pi pi-pencil"}, {Label: "Delete", Disabled: true}}, tree.Rows[0].Actions)
}

func TestConfigIsCopied(t *testing.T) {
	cfg := statusConfig()
	tbl := New(cfg, Options{})
	cfg.Columns[0].Header = "changed"
	require.Equal(t, "Vehicle", tbl.Config().Columns[0].Header)
}

func TestValidate(t *testing.T) {
	require.NoError(t, statusConfig().Validate())

	cfg := Configuration{Columns: []Column{
		{Field: ""},
		{Field: "a", Type: TypeTemplate},
		{Field: "b", Type: "currency"},
		{Field: "b"},
	}}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "field is empty")
	require.Contains(t, err.Error(), "template type without template name")
	require.Contains(t, err.Error(), `unknown type "currency"`)
	require.Contains(t, err.Error(), "duplicate field")
}

func TestErrorsWrap(t *testing.T) {
	tbl := New(Configuration{}, Options{})
	err := tbl.RunAction("x", 0)
	require.True(t, errors.Is(err, ErrRowOutOfRange))
}
