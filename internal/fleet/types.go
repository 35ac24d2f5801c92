package fleet

import (
	"fmt"
	"strconv"
	"strings"
)

// Vehicle mirrors a record of the /vehicles collection.
type Vehicle struct {
	ID       int    `json:"id"`
	Vehicle  string `json:"vehicle"`
	PlateNum string `json:"plateNum"`
	Odometer string `json:"odometer"`
	GPS      string `json:"gps"`
	Device   string `json:"device"`
	SIM      string `json:"sim"`
	Fleet    string `json:"fleet"`
	Status   string `json:"status"`

	Owner       *Owner   `json:"owner,omitempty"`
	LastService string   `json:"lastService,omitempty"`
	Mileage     *float64 `json:"mileage,omitempty"`
	GPSEnabled  *bool    `json:"gpsEnabled,omitempty"`
}

// Owner is the optional nested owner record of a vehicle.
type Owner struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Vehicle statuses offered by the status dropdown.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type CardType string

const (
	CardPercentage CardType = "percentage"
	CardSimple     CardType = "simple"
)

type CardColor string

const (
	ColorPrimary CardColor = "primary"
	ColorSuccess CardColor = "success"
	ColorWarning CardColor = "warning"
	ColorDanger  CardColor = "danger"
)

// DashboardCard mirrors a record of the /dashboardCards collection.
type DashboardCard struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Value      float64   `json:"value"`
	Total      *float64  `json:"total,omitempty"`
	Percentage *float64  `json:"percentage,omitempty"`
	Type       CardType  `json:"type"`
	Color      CardColor `json:"color"`
}

// Ratio returns the card's completion in [0,1], preferring Percentage over
// Value/Total.
func (c DashboardCard) Ratio() float64 {
	var r float64
	switch {
	case c.Percentage != nil:
		r = *c.Percentage / 100
	case c.Total != nil && *c.Total != 0:
		r = c.Value / *c.Total
	}
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Headline is the card's primary figure: "value/total" for percentage cards
// with a total, the value otherwise.
func (c DashboardCard) Headline() string {
	v := formatFigure(c.Value)
	if c.Type == CardPercentage && c.Total != nil {
		return v + "/" + formatFigure(*c.Total)
	}
	return v
}

// PercentLabel renders the percentage badge, empty when the card has none.
func (c DashboardCard) PercentLabel() string {
	if c.Percentage == nil {
		return ""
	}
	return formatFigure(*c.Percentage) + "%"
}

func formatFigure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Role is a selectable user role.
type Role struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Roles lists the roles offered by the user form.
var Roles = []Role{
	{Label: "Administrator", Value: "admin"},
	{Label: "Fleet Manager", Value: "manager"},
	{Label: "Driver", Value: "driver"},
	{Label: "Viewer", Value: "viewer"},
}

// RoleLabel returns the label for value, or value itself when unknown.
func RoleLabel(value string) string {
	for _, r := range Roles {
		if r.Value == value {
			return r.Label
		}
	}
	return value
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// User is a created user as returned by the backend.
type User struct {
	ID string `json:"id"`
	CreateUserRequest
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CreatedMessage is the success toast detail for u.
func (u User) CreatedMessage() string {
	return fmt.Sprintf("User %s %s created successfully", u.FirstName, u.LastName)
}
