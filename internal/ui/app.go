package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/fleetapi"
	"github.com/five82/fleetdash/internal/logging"
	"github.com/five82/fleetdash/internal/logtail"
	"github.com/five82/fleetdash/internal/prefs"
	"github.com/five82/fleetdash/internal/state"
	"github.com/five82/fleetdash/internal/table"
)

var errNoBackend = errors.New("no backend configured")

type focus int

const (
	focusSidebar focus = iota
	focusPrimary
	focusSecondary
	focusForm
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Backend   fleetapi.Backend
	Store     *state.Store
	Logger    *zap.Logger
	Renderer  *table.Renderer
	Primary   table.Configuration
	Secondary table.Configuration
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	// LogPath is the log file shown on the activity report. Empty hides it.
	LogPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	backend   fleetapi.Backend
	store     *state.Store
	logger    *zap.Logger
	prefsPath string
	logPath   string
	pollTick  time.Duration
	keys      keyMap

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	route    Route
	focus    focus

	sidebar   sidebar
	primary   *tableView
	secondary *tableView
	form      userForm
	report    report
	spinner   spinner.Model
	body      viewport.Model
	loading   bool

	snapshot state.Snapshot
	toasts   toasts

	// editSeq numbers status edits; latestEdit holds the newest per vehicle.
	editSeq    uint64
	latestEdit map[string]uint64
	now      func() time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	primaryCfg, secondaryCfg := opts.Primary, opts.Secondary
	if len(primaryCfg.Columns) == 0 {
		primaryCfg = fleet.PrimaryView()
	}
	if len(secondaryCfg.Columns) == 0 {
		secondaryCfg = fleet.SecondaryView()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:       ctx,
		backend:   opts.Backend,
		store:     opts.Store,
		logger:    logging.OrNop(opts.Logger),
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		route:     RouteDashboard,
		focus:     focusPrimary,
		sidebar:   newSidebar(userPrefs.SidebarOpen, userPrefs.Expanded),
		primary: newTableView(primaryCfg, opts.Renderer, table.Caption{
			Title:       "Vehicles",
			Description: "Live status of every vehicle in the fleet",
		}),
		secondary: newTableView(secondaryCfg, opts.Renderer, table.Caption{
			Title:       "Maintenance",
			Description: "Owners, service dates and mileage",
		}),
		form:    newUserForm(),
		spinner: sp,
		body:    viewport.New(0, 0),
		loading: true,
		now:     time.Now,

		latestEdit: make(map[string]uint64),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.refreshBody()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		m.toasts = m.toasts.prune(time.Time(msg))
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.route == RouteReport {
			cmds = append(cmds, loadReportCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case reportLoadedMsg:
		m.report.apply(msg)
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case vehicleUpdatedMsg:
		m.handleVehicleUpdated(msg)
		return m, nil

	case userCreatedMsg:
		m.handleUserCreated(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	bar := m.renderCommandBar()
	side := m.renderSidebar(m.bodyHeight())
	main := lipgloss.JoinHorizontal(lipgloss.Top, side, " ", m.body.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, main)
}

func (m Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderCommandBar())
	return max(h, 1)
}

func (m Model) contentWidth() int {
	side := sidebarWidth
	if !m.sidebar.open {
		side = collapsedSidebarWidth
	}
	// sidebar padding plus the gutter
	return max(m.width-side-3, 20)
}

// refreshBody re-renders the scrollable content into the body viewport.
func (m *Model) refreshBody() {
	if !m.ready {
		return
	}
	m.body.Width = m.contentWidth()
	m.body.Height = m.bodyHeight()
	m.body.SetContent(m.renderContent(m.body.Width))
}

func (m Model) renderContent(width int) string {
	var content string
	switch m.route {
	case RouteUsers:
		content = m.renderUsers(width)
	case RouteReport:
		content = m.renderReport(width)
	default:
		content = m.renderDashboard(width)
	}
	if t := m.renderToasts(); t != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, lipgloss.PlaceHorizontal(width, lipgloss.Right, t), content)
	}
	return content
}

// typing reports whether a text input owns the keyboard.
func (m Model) typing() bool {
	switch m.focus {
	case focusPrimary:
		return m.primary.editing()
	case focusSecondary:
		return m.secondary.editing()
	case focusForm:
		return m.form.focus < fieldRole
	}
	return false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.body.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.body.HalfViewUp()
		return m, nil
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.savePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ToggleSidebar):
			m.sidebar.toggleOpen()
			m.savePrefs()
			return m, nil
		}
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusPrimary:
		return m.handleTableKey(m.primary, msg)
	case focusSecondary:
		return m.handleTableKey(m.secondary, msg)
	case focusForm:
		return m.handleFormKey(msg)
	}
	return m, nil
}

// panes lists the focusable panes of the current route in tab order.
func (m Model) panes() []focus {
	switch m.route {
	case RouteUsers:
		return []focus{focusSidebar, focusForm}
	case RouteReport:
		return []focus{focusSidebar}
	}
	return []focus{focusSidebar, focusPrimary, focusSecondary}
}

func (m *Model) cycleFocus(delta int) {
	panes := m.panes()
	idx := 0
	for i, f := range panes {
		if f == m.focus {
			idx = i
		}
	}
	m.focus = panes[(idx+delta+len(panes))%len(panes)]
}

func (m *Model) navigate(r Route) {
	m.route = r
	m.body.GotoTop()
	if !slices.Contains(m.panes(), m.focus) {
		m.focus = focusSidebar
	}
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.sidebar.move(1)
	case key.Matches(msg, m.keys.Confirm):
		item, ok := m.sidebar.current()
		if !ok {
			break
		}
		switch {
		case item.Route != nil:
			m.navigate(*item.Route)
			if *item.Route == RouteReport {
				return m, loadReportCmd(m.logPath)
			}
		case len(item.Children) > 0:
			m.sidebar.toggleExpanded(item.Title)
			m.savePrefs()
		}
	case key.Matches(msg, m.keys.Expand):
		if item, ok := m.sidebar.current(); ok && len(item.Children) > 0 {
			m.sidebar.toggleExpanded(item.Title)
			m.savePrefs()
		}
	case key.Matches(msg, m.keys.AddUser):
		if item, ok := m.sidebar.current(); ok && item.Action != nil {
			m.addNewUser()
		}
	}
	return m, nil
}

// addNewUser opens a blank user form.
func (m *Model) addNewUser() {
	m.navigate(RouteUsers)
	if !m.form.submitting {
		m.form.reset()
	}
	m.focus = focusForm
}

func (m Model) handleTableKey(tv *tableView, msg tea.KeyMsg) (Model, tea.Cmd) {
	cmd := tv.handleKey(msg, m.keys)
	cmds := []tea.Cmd{cmd}
	for _, err := range tv.drainErrors() {
		m.logger.Warn("row action failed", zap.Error(err))
		m.pushToast(SeverityError, "Error", err.Error())
	}
	for _, ch := range tv.drainChanges() {
		cmds = append(cmds, m.applyStatusChange(ch))
	}
	return m, tea.Batch(cmds...)
}

// applyStatusChange applies an edit to the local rows right away, then
// persists it. A failed update is rolled back in handleVehicleUpdated.
func (m *Model) applyStatusChange(ch table.StatusChange) tea.Cmd {
	previous := table.Plain(ch.Item.Lookup("status"))
	updated, err := fleet.WithStatus(ch.Item, ch.NewStatus)
	if err != nil {
		m.pushToast(SeverityError, "Error", fmt.Sprintf("update status: %v", err))
		return nil
	}
	if m.store != nil {
		err := m.store.Mutate(func(rows []table.Row) ([]table.Row, error) {
			return fleet.ApplyStatus(rows, ch.Item, ch.NewStatus)
		})
		if err != nil {
			m.pushToast(SeverityError, "Error", err.Error())
			return nil
		}
		m.applySnapshot(m.store.Snapshot())
	}
	m.editSeq++
	m.latestEdit[table.Plain(ch.Item.Lookup("vehicle"))] = m.editSeq
	return updateVehicleCmd(m.ctx, m.backend, updated, previous, m.editSeq)
}

func (m *Model) handleVehicleUpdated(msg vehicleUpdatedMsg) {
	name := table.Plain(msg.item.Lookup("vehicle"))
	status := table.Plain(msg.item.Lookup("status"))
	newest := m.latestEdit[name] == msg.seq
	if newest {
		delete(m.latestEdit, name)
	}
	if msg.err == nil {
		m.logger.Info("vehicle status updated",
			zap.String("vehicle", name),
			zap.String("from", msg.previous),
			zap.String("to", status))
		return
	}

	m.logger.Warn("vehicle status update failed", zap.String("vehicle", name), zap.Error(msg.err))
	// A later edit to the same vehicle owns the row now.
	if m.store != nil && newest {
		err := m.store.Mutate(func(rows []table.Row) ([]table.Row, error) {
			return fleet.ApplyStatus(rows, msg.item, msg.previous)
		})
		if err != nil {
			m.logger.Error("roll back vehicle status", zap.String("vehicle", name), zap.Error(err))
		}
		m.applySnapshot(m.store.Snapshot())
	}
	m.pushToast(SeverityError, "Error", fmt.Sprintf("Failed to update status for %s: %v", name, msg.err))
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.focus = focusSidebar
		return m, nil
	}
	form, action, cmd := m.form.update(msg, m.keys)
	m.form = form
	switch action {
	case formSubmit:
		m.form.submitting = true
		return m, tea.Batch(cmd, createUserCmd(m.ctx, m.backend, m.form.request()))
	case formReset:
		if !m.form.submitting {
			m.form.reset()
		}
	}
	return m, cmd
}

func (m *Model) handleUserCreated(msg userCreatedMsg) {
	m.form.submitting = false
	if msg.err != nil {
		m.logger.Warn("create user failed", zap.Error(msg.err))
		detail := msg.err.Error()
		if detail == "" {
			detail = "Failed to create user"
		}
		m.pushToast(SeverityError, "Error", detail)
		return
	}
	m.logger.Info("user created", zap.String("id", msg.user.ID), zap.String("role", msg.user.Role))
	m.pushToast(SeveritySuccess, "Success", msg.user.CreatedMessage())
	m.form.reset()
}

// applySnapshot takes in new store contents and hands fresh rows to both tables.
func (m *Model) applySnapshot(snap state.Snapshot) {
	prev := m.snapshot
	m.snapshot = snap
	if snap.HasCards || snap.LastError != nil {
		m.loading = false
	}
	if snap.Revision != prev.Revision || prev.Revision == 0 {
		m.primary.setRows(snap.Vehicles)
		m.secondary.setRows(snap.Vehicles)
	}
	if snap.LastError != nil && snap.ConsecutiveFailures > 0 && prev.ConsecutiveFailures == 0 {
		m.pushToast(SeverityError, "Error", snap.LastError.Error())
	}
}

func (m *Model) pushToast(sev Severity, summary, detail string) {
	m.toasts = m.toasts.push(sev, summary, detail, m.now())
}

func (m Model) savePrefs() {
	p := prefs.Prefs{
		Theme:       m.theme.Name,
		SidebarOpen: m.sidebar.open,
		Expanded:    m.sidebar.expandedTitles(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type vehicleUpdatedMsg struct {
	item     table.Row
	previous string
	seq      uint64
	err      error
}

type userCreatedMsg struct {
	user fleet.User
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadReportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return reportLoadedMsg{}
		}
		entries, err := logtail.ReadEntries(path, reportLines)
		return reportLoadedMsg{entries: entries, err: err}
	}
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func updateVehicleCmd(ctx context.Context, backend fleetapi.Backend, item table.Row, previous string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		err := errNoBackend
		if backend != nil {
			err = backend.UpdateVehicle(ctx, item)
		}
		return vehicleUpdatedMsg{item: item, previous: previous, seq: seq, err: err}
	}
}

func createUserCmd(ctx context.Context, backend fleetapi.Backend, req fleet.CreateUserRequest) tea.Cmd {
	return func() tea.Msg {
		if backend == nil {
			return userCreatedMsg{err: errNoBackend}
		}
		user, err := backend.CreateUser(ctx, req)
		return userCreatedMsg{user: user, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
