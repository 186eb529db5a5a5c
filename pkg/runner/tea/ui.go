package teaui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/collection/viewmodel"
	"tableflip.dev/todo/pkg/filter"
	"tableflip.dev/todo/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/todo/pkg/runner/tea/internal/panel"
	"tableflip.dev/todo/pkg/runner/tea/internal/theme"
	"tableflip.dev/todo/pkg/settings"
	"tableflip.dev/todo/pkg/store"
	"tableflip.dev/todo/pkg/task"
)

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAddTask
	actionRenameTask
	actionNewCollection
)

type pane int

const (
	paneSidebar pane = iota
	paneTasks
)

const ddWindow = 600 * time.Millisecond

// inbox collects session events raised while Update runs. The session calls
// subscribers synchronously, so a pointer shared by every copy of Model is
// enough.
type inbox struct {
	events []app.Event
}

// Options configures a Model beyond its session.
type Options struct {
	Settings     settings.Provider
	Watch        <-chan store.Event
	CloseTimeout time.Duration
	Notices      []string
	Log          *logrus.Entry
}

// Model contains UI state
type Model struct {
	sess     *app.Session
	settings settings.Provider
	watch    <-chan store.Event
	log      *logrus.Entry
	theme    theme.Theme

	// helpStyle is the glamour style for the help panel.
	helpStyle string

	mode   mode
	action action
	focus  pane

	sums   []viewmodel.Summary
	tasks  []task.Task
	cursor int

	sidebarShow bool
	rightHanded bool

	input textinput.Model
	bar   bottombar.Model
	help  panel.Model

	events *inbox
	sub    int

	autosave     time.Duration
	closeTimeout time.Duration
	quitting     bool
	closeSeq     int

	awaitingDD bool
	lastDTime  time.Time

	termWidth  int
	termHeight int
}

// messages
type saveDoneMsg struct {
	job *app.SaveJob
	err error
}
type autosaveTickMsg struct{}
type closeTimeoutMsg struct {
	seq int
}
type watchMsg struct {
	ev store.Event
	ok bool
}

var commandOptions = []bottombar.CommandOption{
	{Name: "add", Description: "add a task to the collection"},
	{Name: "new", Description: "create a collection"},
	{Name: "filter", Description: "all, open or done"},
	{Name: "clear", Description: "remove done tasks"},
	{Name: "write", Description: "save now"},
	{Name: "reload", Description: "read the data file again"},
	{Name: "quit", Description: "save and exit"},
	{Name: "q!", Description: "exit without saving"},
}

// New creates a UI model bound to sess.
func New(sess *app.Session, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	provider := opts.Settings
	if provider == nil {
		provider = settings.Missing{}
	}

	scheme := settings.SchemeDefault
	sidebarShow, rightHanded := true, true
	if st, ok := provider.Settings(); ok {
		scheme = st.String(settings.ColorScheme)
		sidebarShow = st.Bool(settings.SidebarShow)
		rightHanded = st.Bool(settings.RightHanded)
	}
	th := theme.ForScheme(scheme)
	helpStyle := "dark"
	if scheme == settings.SchemeForceLight {
		helpStyle = "light"
	}

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""

	closeTimeout := opts.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 5 * time.Second
	}

	m := Model{
		sess:         sess,
		settings:     provider,
		watch:        opts.Watch,
		log:          log,
		theme:        th,
		helpStyle:    helpStyle,
		mode:         modeNormal,
		action:       actionNone,
		focus:        paneTasks,
		sidebarShow:  sidebarShow,
		rightHanded:  rightHanded,
		input:        ti,
		bar:          bottombar.New(th.Footer),
		help:         panel.New(th.Panel),
		events:       &inbox{},
		closeTimeout: closeTimeout,
	}
	if interval, ok := app.AutosaveInterval(provider); ok && sess.Persistent() {
		m.autosave = interval
	}
	events := m.events
	m.sub = sess.Subscribe(func(ev app.Event) {
		events.events = append(events.events, ev)
	})

	m.bar.SetCommandDefinitions(commandOptions)
	m.bar.SetFilter(string(sess.Preference()))
	m.bar.SetStatus(strings.Join(opts.Notices, " · "))
	m.updateHelp()
	m.refresh()
	return m
}

// Init starts the autosave timer and the data file watch.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.autosave > 0 {
		cmds = append(cmds, autosaveTick(m.autosave))
	}
	if m.watch != nil {
		cmds = append(cmds, waitForChange(m.watch))
	}
	return tea.Batch(cmds...)
}

func autosaveTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return autosaveTickMsg{} })
}

func waitForChange(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return watchMsg{ev: ev, ok: ok}
	}
}

func runSave(job *app.SaveJob) tea.Cmd {
	return func() tea.Msg {
		return saveDoneMsg{job: job, err: job.Run()}
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case saveDoneMsg:
		if m.sess.FinishSave(msg.job, msg.err) {
			m.drain()
			return m, tea.Quit
		}
		if msg.err != nil && m.quitting {
			m.quitting = false
			m.log.WithError(msg.err).Warn("save failed while closing, staying open")
			m.drain()
			m.bar.SetStatus("Save failed: " + msg.err.Error() + " (w retry, :q! discard)")
		}
	case autosaveTickMsg:
		if m.sess.AutosaveDue() {
			cmds = append(cmds, m.beginSave())
		}
		cmds = append(cmds, autosaveTick(m.autosave))
	case closeTimeoutMsg:
		if m.quitting && msg.seq == m.closeSeq {
			m.log.WithField("timeout", m.closeTimeout).Warn("save did not finish before close timeout, quitting anyway")
			return m, tea.Quit
		}
	case watchMsg:
		if !msg.ok {
			m.log.Debug("data file watch stopped")
			m.watch = nil
			break
		}
		m.onDiskChange(msg.ev)
		cmds = append(cmds, waitForChange(m.watch))
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	m.drain()
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.mode {
	case modeHelp:
		switch msg.String() {
		case "q", "esc", "?":
			m.mode = modeNormal
			m.bar.SetMode(bottombar.ModeNormal)
			m.help.Reset()
		}
		return nil
	case modeInsert:
		return m.handleInsert(msg)
	case modeCommand:
		return m.handleCommand(msg)
	}
	return m.handleNormal(msg)
}

func (m *Model) handleNormal(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "d" {
		m.awaitingDD = false
	}

	switch key {
	case "q":
		return m.quit()
	case ":":
		return m.enterCommandMode()
	case "?":
		m.showHelp()

	// pane focus
	case "h", "left":
		if m.sidebarShow {
			m.focus = paneSidebar
		}
	case "l", "right", "enter":
		m.focus = paneTasks
	case "tab":
		m.toggleSidebar()

	// movement
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		m.moveTo(0)
	case "G", "end":
		if m.focus == paneSidebar {
			m.moveTo(len(m.sums) - 1)
		} else {
			m.moveTo(len(m.tasks) - 1)
		}

	// tasks
	case " ", "x":
		if m.focus == paneTasks && len(m.tasks) > 0 {
			m.report(m.sess.ToggleTask(m.cursor), "")
		}
	case "a", "o":
		if m.sess.ActiveCollection() == nil {
			m.bar.SetStatus("Create a collection first (n)")
			return nil
		}
		return m.enterInsert(actionAddTask, "New task", "")
	case "e", "i":
		if m.focus == paneTasks && m.cursor < len(m.tasks) {
			return m.enterInsert(actionRenameTask, "Edit task", m.tasks[m.cursor].Title)
		}
	case "d":
		if m.focus != paneTasks || m.cursor >= len(m.tasks) {
			return nil
		}
		if m.awaitingDD && time.Since(m.lastDTime) < ddWindow {
			m.awaitingDD = false
			removed, err := m.sess.RemoveTask(m.cursor)
			m.report(err, fmt.Sprintf("Removed %q", removed.Title))
			return nil
		}
		m.awaitingDD = true
		m.lastDTime = time.Now()
		m.bar.SetStatus("Press d again to remove the task")
	case "D":
		m.removeDone()

	// collections and filter
	case "n":
		return m.enterInsert(actionNewCollection, "Collection title", "")
	case "f":
		m.setPreference(m.sess.Preference().Next())

	// persistence
	case "w", "ctrl+s":
		return m.saveNow()
	case "r":
		m.reload()
	}
	return nil
}

func (m *Model) handleInsert(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		if input == "" && m.action == actionNewCollection {
			m.bar.SetStatus("A collection needs a title")
			return nil
		}
		switch m.action {
		case actionAddTask:
			if input != "" {
				_, err := m.sess.AddTask(input)
				m.report(err, "Added")
				m.cursor = len(m.tasks)
				m.focus = paneTasks
			}
		case actionRenameTask:
			if input != "" {
				m.report(m.sess.RenameTask(m.cursor, input), "Edited")
			}
		case actionNewCollection:
			_, err := m.sess.NewCollection(input)
			m.report(err, fmt.Sprintf("Created %q", input))
			m.cursor = 0
		}
		m.exitInsert()
	case "esc":
		prev := m.action
		m.exitInsert()
		switch prev {
		case actionAddTask:
			m.bar.SetStatus("Add cancelled")
		case actionRenameTask:
			m.bar.SetStatus("Edit cancelled")
		case actionNewCollection:
			m.bar.SetStatus("New collection cancelled")
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleCommand(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		m.exitCommandMode()
		return m.runCommand(input)
	case "esc":
		m.exitCommandMode()
		m.bar.SetStatus("Command cancelled")
	case "tab":
		if s := m.bar.Suggestions(); len(s) > 0 {
			m.input.SetValue(s[0].Name + " ")
			m.input.CursorEnd()
			m.bar.UpdateCommandInput(m.input.Value(), m.input.View())
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.bar.UpdateCommandInput(m.input.Value(), m.input.View())
		return cmd
	}
	return nil
}

// runCommand executes a ':' command line.
func (m *Model) runCommand(line string) tea.Cmd {
	name, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	switch name {
	case "":
		return nil
	case "q", "quit", "exit", "wq":
		return m.quit()
	case "q!", "quit!":
		if m.sess.Dirty() {
			m.log.Warn("quitting with unsaved changes")
		}
		return tea.Quit
	case "w", "write":
		return m.saveNow()
	case "reload":
		m.reload()
	case "clear":
		m.removeDone()
	case "filter":
		pref, err := filter.ParsePreference(arg)
		if err != nil {
			m.bar.SetStatus("Filter must be all, open or done")
			return nil
		}
		m.setPreference(pref)
	case "new":
		if arg == "" {
			return m.enterInsert(actionNewCollection, "Collection title", "")
		}
		_, err := m.sess.NewCollection(arg)
		m.report(err, fmt.Sprintf("Created %q", arg))
		m.cursor = 0
	case "add":
		if arg == "" {
			return m.enterInsert(actionAddTask, "New task", "")
		}
		_, err := m.sess.AddTask(arg)
		m.report(err, "Added")
	default:
		m.bar.SetStatus(fmt.Sprintf("Unknown command: %s", name))
	}
	return nil
}

func (m *Model) report(err error, ok string) {
	switch {
	case err == nil:
		if ok != "" {
			m.bar.SetStatus(ok)
		}
	case errors.Is(err, app.ErrNoCollection):
		m.bar.SetStatus("No collection selected")
	default:
		m.log.WithError(err).Warn("action failed")
		m.bar.SetStatus("ERR: " + err.Error())
	}
}

func (m *Model) move(delta int) {
	if m.focus == paneSidebar {
		m.moveTo(m.sess.Active() + delta)
		return
	}
	m.moveTo(m.cursor + delta)
}

func (m *Model) moveTo(i int) {
	if i < 0 {
		i = 0
	}
	if m.focus == paneSidebar {
		if len(m.sums) == 0 || i >= len(m.sums) {
			return
		}
		if i != m.sess.Active() {
			m.report(m.sess.Select(m.sums[i].Index), "")
			m.cursor = 0
		}
		return
	}
	if i >= len(m.tasks) {
		i = len(m.tasks) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
}

func (m *Model) removeDone() {
	n, err := m.sess.RemoveDoneTasks()
	m.report(err, fmt.Sprintf("Removed %d done task(s)", n))
}

func (m *Model) setPreference(pref filter.Preference) {
	err := m.sess.SetPreference(pref)
	if errors.Is(err, settings.ErrSchemaMissing) {
		m.bar.SetStatus("Filter applies to this session only")
		return
	}
	m.report(err, "")
}

func (m *Model) toggleSidebar() {
	m.sidebarShow = !m.sidebarShow
	if !m.sidebarShow {
		m.focus = paneTasks
	}
	if st, ok := m.settings.Settings(); ok {
		if err := st.Set(settings.SidebarShow, m.sidebarShow); err != nil {
			m.log.WithError(err).Warn("could not store sidebar setting")
		}
	}
}

func (m *Model) beginSave() tea.Cmd {
	job, err := m.sess.BeginSave()
	if err != nil {
		if !errors.Is(err, app.ErrSaveInProgress) {
			m.report(err, "")
		}
		return nil
	}
	return runSave(job)
}

func (m *Model) saveNow() tea.Cmd {
	if !m.sess.Persistent() {
		m.bar.SetStatus("Changes will not be saved")
		return nil
	}
	if !m.sess.Dirty() {
		m.bar.SetStatus("Nothing to save")
		return nil
	}
	return m.beginSave()
}

func (m *Model) reload() {
	if m.sess.Dirty() || m.sess.Saving() {
		m.bar.SetStatus("Unsaved changes, save before reloading")
		return
	}
	m.report(m.sess.Reload(), "Reloaded")
}

// onDiskChange reloads after another process rewrote the data file. Local
// edits that are not saved yet win.
func (m *Model) onDiskChange(ev store.Event) {
	m.log.WithField("path", ev.Path).WithField("type", ev.Type).Debug("data file changed")
	if ev.Type == store.EventDataRemoved {
		m.sess.Notify("Data file was removed; it will be written again on the next save")
		return
	}
	if m.sess.Dirty() || m.sess.Saving() {
		m.sess.Notify("Data file changed on disk; keeping unsaved changes")
		return
	}
	if err := m.sess.Reload(); err != nil {
		m.sess.Notify("Could not reload collections: %v", err)
	}
}

// quit saves pending changes first. The bounded wait keeps a hung write from
// blocking exit forever.
func (m *Model) quit() tea.Cmd {
	if m.quitting {
		return nil
	}
	m.quitting = true
	m.closeSeq++
	m.saveGeometry()
	seq := m.closeSeq
	timeout := tea.Tick(m.closeTimeout, func(time.Time) tea.Msg { return closeTimeoutMsg{seq: seq} })

	if m.sess.Saving() {
		m.sess.RequestClose()
		return timeout
	}
	if m.sess.Persistent() && m.sess.Dirty() {
		if job, err := m.sess.BeginSave(); err == nil {
			m.sess.RequestClose()
			return tea.Batch(
				runSave(job),
				timeout,
			)
		}
	}
	return tea.Quit
}

func (m *Model) saveGeometry() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	st, ok := m.settings.Settings()
	if !ok {
		return
	}
	err := st.SaveGeometry(settings.Geometry{Width: m.termWidth, Height: m.termHeight})
	if err != nil {
		m.log.WithError(err).Warn("could not store window geometry")
	}
}

// drain applies queued session events to the footer.
func (m *Model) drain() {
	for _, ev := range m.events.events {
		switch ev.Type {
		case app.EventFilterChanged:
			m.bar.SetFilter(ev.Message)
			m.cursor = 0
		case app.EventSaveStarted:
			m.bar.SetSaving(true)
		case app.EventSaveFinished:
			m.bar.SetSaving(false)
			if ev.Err != nil {
				m.bar.SetStatus("Save failed: " + ev.Err.Error())
			} else {
				m.bar.SetStatus("Saved")
			}
		case app.EventNotice:
			m.bar.SetStatus(ev.Message)
		}
	}
	m.events.events = m.events.events[:0]
}

// refresh copies sidebar and task rows out of the session.
func (m *Model) refresh() {
	m.sums = viewmodel.Build(m.sess.Store())
	m.tasks = nil
	if v := m.sess.View(); v != nil {
		m.tasks = v.Items()
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.updateHelp()
}

func (m *Model) enterInsert(a action, placeholder, value string) tea.Cmd {
	m.mode = modeInsert
	m.action = a
	m.bar.SetMode(bottombar.ModeInsert)
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) exitInsert() {
	m.mode = modeNormal
	m.action = actionNone
	m.bar.SetMode(bottombar.ModeNormal)
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) enterCommandMode() tea.Cmd {
	m.mode = modeCommand
	m.bar.SetMode(bottombar.ModeCommand)
	m.input.Reset()
	m.input.Placeholder = "command"
	m.bar.UpdateCommandInput("", m.input.View())
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) exitCommandMode() {
	m.mode = modeNormal
	m.bar.SetMode(bottombar.ModeNormal)
	m.input.Reset()
	m.input.Blur()
}

var keyHelp = [][2]string{
	{"h / l", "switch panes"},
	{"j / k", "move"},
	{"g / G", "top, bottom"},
	{"space, x", "complete or reopen"},
	{"a", "add task"},
	{"e", "edit task"},
	{"dd", "remove task"},
	{"D", "remove done tasks"},
	{"n", "new collection"},
	{"f", "cycle filter"},
	{"tab", "show or hide collections"},
	{"w", "save now"},
	{"r", "reload from disk"},
	{":", "command"},
	{"q", "save and quit"},
}

func (m *Model) showHelp() {
	m.mode = modeHelp
	m.bar.SetMode(bottombar.ModeHelp)

	var md strings.Builder
	md.WriteString("| Key | Action |\n| --- | --- |\n")
	for _, k := range keyHelp {
		fmt.Fprintf(&md, "| `%s` | %s |\n", k[0], k[1])
	}
	lines, err := renderMarkdown(md.String(), m.helpStyle, 72)
	if err != nil {
		m.log.WithError(err).Debug("plain help")
		lines = make([]string, 0, len(keyHelp))
		for _, k := range keyHelp {
			lines = append(lines, fmt.Sprintf("%-10s %s", k[0], k[1]))
		}
	}
	m.help.SetContent("Keys", lines)
}

func renderMarkdown(md, style string, width int) ([]string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(md)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.Trim(out, "\n"), "\n"), nil
}

func (m *Model) updateHelp() {
	switch m.mode {
	case modeInsert:
		m.bar.SetHelp("enter confirm · esc cancel")
	case modeCommand:
		m.bar.SetHelp("")
	case modeHelp:
		m.bar.SetHelp("esc close")
	default:
		if m.focus == paneSidebar {
			m.bar.SetHelp("Collections · j/k select · l tasks · n new · ? help")
		} else {
			m.bar.SetHelp("Tasks · j/k move · space toggle · a add · f filter · ? help")
		}
	}
}

// View renders the sidebar, the task list and the footer.
func (m Model) View() string {
	width := m.termWidth
	if width <= 0 {
		width = 80
	}
	height := m.termHeight
	if height <= 0 {
		height = 24
	}
	footer, footerHeight := m.bar.View()
	bodyHeight := height - footerHeight - 2
	if m.mode == modeInsert {
		bodyHeight -= 2
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	if m.mode == modeHelp {
		body, _ = m.help.View()
	} else {
		left, right := m.paneWidths(width)
		tasks := m.renderTasks(right, bodyHeight)
		if m.sidebarShow {
			side := m.renderSidebar(left, bodyHeight)
			if m.rightHanded {
				body = lipgloss.JoinHorizontal(lipgloss.Top, side, tasks)
			} else {
				body = lipgloss.JoinHorizontal(lipgloss.Top, tasks, side)
			}
		} else {
			body = tasks
		}
	}

	if m.mode == modeInsert {
		prompt := ""
		switch m.action {
		case actionAddTask:
			prompt = "Add: "
		case actionRenameTask:
			prompt = "Edit: "
		case actionNewCollection:
			prompt = "New collection: "
		}
		body += "\n\n" + prompt + m.input.View()
	}
	return body + "\n" + footer
}

// paneWidths allocates ~1/3 for collections with sensible bounds.
func (m Model) paneWidths(width int) (left, right int) {
	if !m.sidebarShow {
		return 0, width - 2
	}
	left = width / 3
	if left < 20 {
		left = 20
	}
	if left > 36 {
		left = 36
	}
	right = width - left - 4
	if right < 20 {
		right = 20
	}
	return left, right
}

func (m Model) renderSidebar(width, height int) string {
	s := m.theme.Sidebar
	marker := "  "
	if m.focus == paneSidebar {
		marker = "» "
	}
	lines := []string{s.Title.Render(marker + "Collections"), ""}
	if len(m.sums) == 0 {
		lines = append(lines, s.Counts.Render("none yet, press n"))
	}
	for _, sum := range m.sums {
		label := truncate(sum.Label(), width-8)
		counts := s.Counts.Render(fmt.Sprintf("%d/%d", sum.Open, sum.Total()))
		if sum.Index == m.sess.Active() {
			lines = append(lines, s.Selected.Render("▸ "+label)+" "+counts)
			continue
		}
		lines = append(lines, s.Item.Render("  "+label)+" "+counts)
	}
	return s.Frame.Width(width).Height(height).Render(strings.Join(clip(lines, height), "\n"))
}

func (m Model) renderTasks(width, height int) string {
	s := m.theme.Tasks
	marker := "  "
	if m.focus == paneTasks {
		marker = "» "
	}
	title := "No collection"
	if c := m.sess.ActiveCollection(); c != nil {
		title = c.Title
	}
	lines := []string{s.Title.Render(marker + title), ""}

	if !m.sess.TaskListVisible() {
		empty := "No tasks"
		if m.sess.ActiveCollection() != nil && m.sess.Preference() != filter.All {
			empty = fmt.Sprintf("No %s tasks", strings.ToLower(string(m.sess.Preference())))
		}
		lines = append(lines, s.Empty.Render(empty))
		return s.Frame.Width(width).Height(height).Render(strings.Join(lines, "\n"))
	}

	// Keep the cursor on screen.
	rows := height - len(lines)
	start := 0
	if rows > 0 && m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(m.tasks); i++ {
		t := m.tasks[i]
		text := truncate(t.Title, width-8)
		style := s.Open
		if t.Completed {
			style = s.Done
		}
		prefix := "   "
		if i == m.cursor && m.focus == paneTasks {
			prefix = s.Cursor.Render("→  ")
			if !t.Completed {
				style = s.Selected
			}
		}
		lines = append(lines, prefix+t.Mark()+" "+style.Render(text))
	}
	return s.Frame.Width(width).Height(height).Render(strings.Join(clip(lines, height), "\n"))
}

func clip(lines []string, height int) []string {
	if height > 0 && len(lines) > height {
		return lines[:height]
	}
	return lines
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Close drops the session subscription.
func (m Model) Close() {
	m.sess.Unsubscribe(m.sub)
}
