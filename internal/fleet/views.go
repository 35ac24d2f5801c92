package fleet

import "github.com/five82/fleetdash/internal/table"

// PrimaryView is the vehicle table with the inline status editor.
func PrimaryView() table.Configuration {
	return table.Configuration{
		Columns: []table.Column{
			{Field: "vehicle", Header: "Vehicle", Width: "120px", Sortable: table.Bool(true)},
			{Field: "plateNum", Header: "Plate Num.", Width: "100px", Sortable: table.Bool(true)},
			{Field: "odometer", Header: "Odometer", Width: "120px", Sortable: table.Bool(true)},
			{Field: "gps", Header: "GPS", Width: "180px", Sortable: table.Bool(true)},
			{Field: "device", Header: "Device", Width: "200px", Sortable: table.Bool(true), Type: table.TypeTemplate, TemplateName: table.TemplateDeviceIcon},
			{Field: "sim", Header: "SIM", Width: "150px", Sortable: table.Bool(true)},
			{Field: "fleet", Header: "Fleet", Width: "80px", Sortable: table.Bool(true)},
			{Field: "status", Header: "Status", Width: "100px", Sortable: table.Bool(true), Type: table.TypeTemplate, TemplateName: table.TemplateStatusDropdown},
		},
		GlobalFilterFields: []string{"vehicle", "plateNum", "device", "fleet", "status"},
		Scrollable:         table.Bool(true),
		ScrollHeight:       "400px",
	}
}

// SecondaryView is a read-only maintenance view over the same vehicles.
func SecondaryView() table.Configuration {
	return table.Configuration{
		Columns: []table.Column{
			{Field: "vehicle", Header: "Vehicle", Width: "120px"},
			{Field: "owner.name", Header: "Owner", Width: "160px"},
			{Field: "lastService", Header: "Last Service", Width: "120px", Type: table.TypeDate},
			{Field: "mileage", Header: "Mileage", Width: "120px", Type: table.TypeNumber},
			{Field: "gpsEnabled", Header: "GPS", Width: "60px", Type: table.TypeBoolean, Sortable: table.Bool(false)},
			{Field: "status", Header: "Status", Width: "100px"},
		},
		GlobalFilterFields: []string{"vehicle", "owner.name"},
		ScrollHeight:       "300px",
	}
}

// ApplyStatus returns a copy of rows where every record whose vehicle name
// matches item has its status replaced. Matching is by name, so duplicate
// names all change.
func ApplyStatus(rows []table.Row, item table.Row, status string) ([]table.Row, error) {
	name := item.Lookup("vehicle").String()
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		if r.Lookup("vehicle").String() != name {
			out[i] = r
			continue
		}
		updated, err := WithStatus(r, status)
		if err != nil {
			return nil, err
		}
		out[i] = updated
	}
	return out, nil
}

// WithStatus returns a copy of r with its status field set.
func WithStatus(r table.Row, status string) (table.Row, error) {
	var rec map[string]any
	if err := r.Decode(&rec); err != nil {
		return table.Row{}, err
	}
	rec["status"] = status
	return table.NewRow(rec)
}
