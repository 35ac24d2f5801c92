package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fleetdash/internal/fleet"
)

const (
	fieldFirst = iota
	fieldLast
	fieldEmail
	fieldPhone
	fieldRole
	fieldSubmit
	fieldReset
	fieldCount
)

var formFields = [...]string{fleet.FieldFirstName, fleet.FieldLastName, fleet.FieldEmail, fleet.FieldPhone, fleet.FieldRole}

var formLabels = [...]string{"First Name", "Last Name", "Email", "Phone Number", "Role"}

// userForm is the create-user form. Role is an index into fleet.Roles, -1
// when nothing is selected.
type userForm struct {
	inputs     [4]textinput.Model
	role       int
	focus      int
	touched    map[string]bool
	submitting bool
}

func newUserForm() userForm {
	placeholders := [4]string{"Enter first name", "Enter last name", "Enter email address", "Enter phone number"}
	f := userForm{role: -1, touched: make(map[string]bool)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 120
		f.inputs[i] = ti
	}
	f.inputs[fieldFirst].Focus()
	return f
}

func (f userForm) request() fleet.CreateUserRequest {
	req := fleet.CreateUserRequest{
		FirstName: strings.TrimSpace(f.inputs[fieldFirst].Value()),
		LastName:  strings.TrimSpace(f.inputs[fieldLast].Value()),
		Email:     strings.TrimSpace(f.inputs[fieldEmail].Value()),
		Phone:     strings.TrimSpace(f.inputs[fieldPhone].Value()),
	}
	if f.role >= 0 && f.role < len(fleet.Roles) {
		req.Role = fleet.Roles[f.role].Value
	}
	return req
}

func (f userForm) valid() bool { return len(f.request().Validate()) == 0 }

// canSubmit reports whether the submit button is enabled.
func (f userForm) canSubmit() bool { return f.valid() && !f.submitting }

// fieldErrors maps form fields to their first problem.
func (f userForm) fieldErrors() map[string]*fleet.FieldError {
	out := make(map[string]*fleet.FieldError)
	for _, fe := range f.request().Validate() {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe
		}
	}
	return out
}

func (f *userForm) reset() {
	*f = newUserForm()
}

func (f *userForm) setFocus(i int) {
	if f.focus < len(formFields) {
		f.touched[formFields[f.focus]] = true
	}
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *userForm) touchAll() {
	for _, name := range formFields {
		f.touched[name] = true
	}
}

// formAction is what a key press asks the model to do.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formReset
)

// update handles a key press aimed at the form.
func (f userForm) update(msg tea.KeyMsg, keys keyMap) (userForm, formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		f.touchAll()
		if f.canSubmit() {
			return f, formSubmit, nil
		}
		return f, formNone, nil
	case key.Matches(msg, keys.Reset):
		return f, formReset, nil
	case msg.Type == tea.KeyDown || (key.Matches(msg, keys.Confirm) && f.focus < fieldSubmit):
		f.setFocus(f.focus + 1)
		return f, formNone, nil
	case msg.Type == tea.KeyUp:
		f.setFocus(f.focus - 1)
		return f, formNone, nil
	}

	switch f.focus {
	case fieldRole:
		switch {
		case msg.Type == tea.KeyLeft:
			f.role = ternaryInt(f.role <= 0, len(fleet.Roles)-1, f.role-1)
		case msg.Type == tea.KeyRight, msg.Type == tea.KeySpace:
			f.role = (f.role + 1) % len(fleet.Roles)
		}
		return f, formNone, nil
	case fieldSubmit:
		if key.Matches(msg, keys.Confirm) {
			f.touchAll()
			if f.canSubmit() {
				return f, formSubmit, nil
			}
		}
		return f, formNone, nil
	case fieldReset:
		if key.Matches(msg, keys.Confirm) {
			return f, formReset, nil
		}
		return f, formNone, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, formNone, cmd
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

// renderUsers draws the user management view.
func (m Model) renderUsers(width int) string {
	styles := m.theme.Styles()
	f := m.form
	errs := f.fieldErrors()

	focused := m.focus == focusForm
	labelStyle := styles.Text.Bold(true)
	hintStyle := styles.DangerText.Bold(false)

	lines := []string{
		styles.Text.Bold(true).Render("User Management"),
		styles.MutedText.Render("Create a new user for your organization"),
		"",
	}

	for i, label := range formLabels {
		marker := "  "
		if focused && f.focus == i {
			marker = styles.AccentText.Render("▸ ")
		}
		lines = append(lines, marker+labelStyle.Render(label+" *"))

		var value string
		if i == fieldRole {
			value = styles.FaintText.Render("Select a role")
			if f.role >= 0 && f.role < len(fleet.Roles) {
				value = styles.Text.Render(fleet.Roles[f.role].Label)
			}
			value = "◂ " + value + " ▸"
		} else {
			value = f.inputs[i].View()
		}
		lines = append(lines, "  "+value)

		if fe, ok := errs[formFields[i]]; ok && f.touched[formFields[i]] {
			lines = append(lines, "  "+hintStyle.Render(fe.Message()))
		}
		lines = append(lines, "")
	}

	submitLabel := "Create User"
	if f.submitting {
		submitLabel = m.spinner.View() + " Creating..."
	}
	submit := m.button(submitLabel, f.canSubmit(), focused && f.focus == fieldSubmit)
	reset := m.button("Reset", !f.submitting, focused && f.focus == fieldReset)
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, submit, " ", reset))

	panelWidth := min(max(width-2, 40), 72)
	panel := styles.Panel
	if focused {
		panel = styles.FocusedPanel
	}
	return panel.Width(panelWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) button(label string, enabled, focused bool) string {
	style := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	switch {
	case !enabled:
		style = style.Foreground(lipgloss.Color(m.theme.Faint)).BorderForeground(lipgloss.Color(m.theme.Faint))
	case focused:
		style = style.Foreground(lipgloss.Color(m.theme.SelectionText)).
			Background(lipgloss.Color(m.theme.SelectionBg)).
			BorderForeground(lipgloss.Color(m.theme.BorderFocus))
	default:
		style = style.Foreground(lipgloss.Color(m.theme.Accent)).BorderForeground(lipgloss.Color(m.theme.Border))
	}
	return style.Render(label)
}
