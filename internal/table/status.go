package table

// Option is one choice of a status dropdown.
type Option struct {
	Label string `toml:"label" json:"label"`
	Value string `toml:"value" json:"value"`
}

// DefaultStatusOptions is the option set used when a column names none.
var DefaultStatusOptions = []Option{
	{Label: "Active", Value: "Active"},
	{Label: "Inactive", Value: "Inactive"},
}

// StatusChange is emitted when a status cell selects a new value. Item is
// the row as it was before the change; the table never mutates it.
type StatusChange struct {
	Item      Row    `json:"item"`
	NewStatus string `json:"newStatus"`
}

// StatusOptions returns the dropdown options for col.
func StatusOptions(col Column) []Option {
	if len(col.Options) > 0 {
		return append([]Option(nil), col.Options...)
	}
	return append([]Option(nil), DefaultStatusOptions...)
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
