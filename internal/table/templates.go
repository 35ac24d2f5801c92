package table

import "github.com/tidwall/gjson"

const (
	TemplateDeviceIcon     = "deviceIcon"
	TemplateStatusDropdown = "statusDropdown"

	DeviceIconPath    = "images/device-icon.svg"
	StatusPlaceholder = "Select Status"
)

// CellKind tells a host how to draw a cell.
type CellKind int

const (
	CellText CellKind = iota
	CellBoolean
	CellDevice
	CellStatus
)

func (k CellKind) String() string {
	switch k {
	case CellBoolean:
		return "boolean"
	case CellDevice:
		return "device"
	case CellStatus:
		return "status"
	default:
		return "text"
	}
}

// Cell is one rendered body cell.
type Cell struct {
	Kind  CellKind
	Field string
	// Text is the display text. For status cells it is the current value.
	Text string
	// Icon is the icon class for boolean cells or the image path for device cells.
	Icon   string
	Truthy bool
	// Options and Placeholder are set on status cells.
	Options     []Option
	Placeholder string
}

// CellContext is handed to a template renderer.
type CellContext struct {
	Row      Row
	RowIndex int
	Column   Column
	Value    gjson.Result
}

// CellRenderer produces the cell for a template column.
type CellRenderer func(ctx CellContext) Cell

// Templates maps template names to renderers.
type Templates map[string]CellRenderer

// BuiltinTemplates returns the deviceIcon and statusDropdown renderers.
func BuiltinTemplates() Templates {
	return Templates{
		TemplateDeviceIcon:     deviceIconCell,
		TemplateStatusDropdown: statusDropdownCell,
	}
}

// With returns a copy of t with name bound to fn.
func (t Templates) With(name string, fn CellRenderer) Templates {
	out := make(Templates, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[name] = fn
	return out
}

func deviceIconCell(ctx CellContext) Cell {
	return Cell{
		Kind:  CellDevice,
		Field: ctx.Column.Field,
		Text:  Plain(ctx.Value),
		Icon:  DeviceIconPath,
	}
}

func statusDropdownCell(ctx CellContext) Cell {
	return Cell{
		Kind:        CellStatus,
		Field:       ctx.Column.Field,
		Text:        Plain(ctx.Value),
		Options:     StatusOptions(ctx.Column),
		Placeholder: StatusPlaceholder,
	}
}
