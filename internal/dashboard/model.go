// Package dashboard implements the interactive task TUI: a scrollable task
// list with a details pane, vim-style navigation, and a :q command mode.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cruzluna/reclaim-cli/internal/api"
)

// TaskLister fetches tasks for the dashboard's refresh action.
type TaskLister interface {
	ListTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, error)
}

// ─── Sort modes ──────────────────────────────────────────────────────────────

type sortMode int

const (
	sortDefault sortMode = iota
	sortDue
	sortPriority
	sortTitle
	sortModeCount
)

var sortNames = []string{"default", "due", "priority", "title"}

func (s sortMode) String() string { return sortNames[s] }

// ─── Key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	First   key.Binding
	Last    key.Binding
	Refresh key.Binding
	Sort    key.Binding
	Filter  key.Binding
	Help    key.Binding
	Command key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		First:   key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/home", "jump to first task")),
		Last:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "jump to last task")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh tasks from API")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort order")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle completion filter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle this help")),
		Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":q", "vim-style quit command")),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc/ctrl+c", "quit immediately")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.First, k.Last},
		{k.Refresh, k.Sort, k.Filter, k.Help},
		{k.Command, k.Quit},
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the task dashboard.
type Model struct {
	ctx    context.Context
	lister TaskLister
	filter api.TaskFilter

	tasks      []api.Task
	completion api.CompletionFilter
	sorting    sortMode

	// cursor indexes the visible (filtered, sorted) list; -1 means nothing
	// is selected.
	cursor int
	offset int

	width  int
	height int

	showHelp      bool
	commandBuffer string
	status        string
	statusIsError bool
	quitting      bool

	keys keyMap
	help help.Model
}

// New builds a dashboard over an already-fetched task list. The lister is
// only consulted again when the user refreshes.
func New(ctx context.Context, lister TaskLister, filter api.TaskFilter, tasks []api.Task) Model {
	cursor := -1
	if len(tasks) > 0 {
		cursor = 0
	}
	helpModel := help.New()
	helpModel.ShowAll = true

	return Model{
		ctx:    ctx,
		lister: lister,
		filter: filter,
		tasks:  tasks,
		cursor: cursor,
		width:  100,
		height: 30,
		keys:   defaultKeyMap(),
		help:   helpModel,
	}
}

// Run fetches the initial task list and drives the dashboard until the user
// quits. includeAll widens the fetch from active tasks to everything.
func Run(ctx context.Context, lister TaskLister, includeAll bool) error {
	filter := api.FilterActive
	if includeAll {
		filter = api.FilterAll
	}

	tasks, err := lister.ListTasks(ctx, filter)
	if err != nil {
		return err
	}

	program := tea.NewProgram(New(ctx, lister, filter, tasks), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("Could not run dashboard: %v", err)
	}
	return nil
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Key handling ────────────────────────────────────────────────────────────

// handleKey dispatches in priority order: the hard quit keys always win,
// then an open command buffer captures input, then the help panel.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.commandBuffer != "" {
		return m.handleCommandKey(msg)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEnter {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.setStatus("Help opened. Press ? or Enter to close.", false)
	case key.Matches(msg, m.keys.Command):
		m.commandBuffer = ":"
		m.setStatus("Command mode: type :q to quit.", false)
	case key.Matches(msg, m.keys.Down):
		m.selectNext()
	case key.Matches(msg, m.keys.Up):
		m.selectPrevious()
	case key.Matches(msg, m.keys.First):
		m.selectFirst()
	case key.Matches(msg, m.keys.Last):
		m.selectLast()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.Sort):
		m.sorting = (m.sorting + 1) % sortModeCount
		m.clampCursor()
		m.setStatus(fmt.Sprintf("Sort: %s.", m.sorting), false)
	case key.Matches(msg, m.keys.Filter):
		m.completion = nextCompletion(m.completion)
		m.clampCursor()
		label := m.completion.String()
		if label == "" {
			label = "off"
		}
		m.setStatus(fmt.Sprintf("Completion filter: %s.", label), false)
	}

	return m, nil
}

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {

	case tea.KeyEnter:
		command := m.commandBuffer
		m.commandBuffer = ""
		switch command {
		case ":q":
			m.quitting = true
			return m, tea.Quit
		case ":":
			m.setStatus("Command cancelled.", false)
		default:
			m.setStatus("Unknown command: "+command, false)
		}

	case tea.KeyBackspace:
		if m.commandBuffer != "" {
			_, size := utf8.DecodeLastRuneInString(m.commandBuffer)
			m.commandBuffer = m.commandBuffer[:len(m.commandBuffer)-size]
		}
		if m.commandBuffer == "" {
			m.setStatus(dashboardHint, false)
		}

	case tea.KeySpace:
		m.commandBuffer += " "

	case tea.KeyRunes:
		if msg.Alt {
			break
		}
		m.commandBuffer += string(msg.Runes)
		if m.commandBuffer == ":q" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ─── Refresh ─────────────────────────────────────────────────────────────────

// refresh re-fetches tasks synchronously; input is not processed while the
// request is in flight.
func (m *Model) refresh() {
	fetched, err := m.lister.ListTasks(m.ctx, m.filter)
	if err != nil {
		line := err.Error()
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
		}
		if line == "" {
			line = "Refresh failed."
		}
		m.setStatus("Refresh failed: "+line, true)
		return
	}
	m.replaceTasks(fetched)
}

func (m *Model) replaceTasks(tasks []api.Task) {
	m.tasks = tasks
	m.clampCursor()

	count := len(tasks)
	plural := "s"
	if count == 1 {
		plural = ""
	}
	m.setStatus(fmt.Sprintf("Refreshed: %d task%s loaded.", count, plural), false)
}

func (m *Model) setStatus(message string, isError bool) {
	m.status = message
	m.statusIsError = isError
}

// ─── Selection ───────────────────────────────────────────────────────────────

// visible returns the tasks the list pane shows, with the completion filter
// and sort order applied. The underlying task slice is never reordered.
func (m Model) visible() []api.Task {
	tasks := api.FilterByCompletion(m.tasks, m.completion)
	if m.sorting == sortDefault {
		return tasks
	}

	sorted := make([]api.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessTasks(sorted[i], sorted[j], m.sorting)
	})
	return sorted
}

func lessTasks(a, b api.Task, mode sortMode) bool {
	switch mode {
	case sortDue:
		return lessOptional(a.DueOr(""), b.DueOr(""))
	case sortPriority:
		return lessOptional(a.PriorityOr(""), b.PriorityOr(""))
	case sortTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	return false
}

// lessOptional orders ascending with missing values last.
func lessOptional(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}

func (m Model) selectedTask() *api.Task {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return &visible[m.cursor]
}

func (m *Model) selectNext() {
	count := len(m.visible())
	if count == 0 {
		m.cursor = -1
		return
	}
	if m.cursor+1 < count {
		m.cursor++
	} else {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) selectPrevious() {
	count := len(m.visible())
	if count == 0 {
		m.cursor = -1
		return
	}
	if m.cursor <= 0 {
		m.cursor = count - 1
	} else {
		m.cursor--
	}
	m.ensureVisible()
}

func (m *Model) selectFirst() {
	if len(m.visible()) == 0 {
		m.cursor = -1
		return
	}
	m.cursor = 0
	m.ensureVisible()
}

func (m *Model) selectLast() {
	count := len(m.visible())
	if count == 0 {
		m.cursor = -1
		return
	}
	m.cursor = count - 1
	m.ensureVisible()
}

// clampCursor re-validates the selection after the visible set changes.
func (m *Model) clampCursor() {
	count := len(m.visible())
	if count == 0 {
		m.cursor = -1
		m.offset = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
	m.ensureVisible()
}

// ensureVisible scrolls the list viewport so the cursor stays on screen.
func (m *Model) ensureVisible() {
	if m.cursor < 0 {
		m.offset = 0
		return
	}
	rows := m.viewportRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// viewportRows is the row count inside the task list panel: the full height
// minus the header, footer, panel border, and panel title.
func (m Model) viewportRows() int {
	rows := m.height - 7
	if rows < 1 {
		rows = 1
	}
	return rows
}

func nextCompletion(filter api.CompletionFilter) api.CompletionFilter {
	switch filter {
	case api.CompletionAny:
		return api.CompletionOpen
	case api.CompletionOpen:
		return api.CompletionCompleted
	default:
		return api.CompletionAny
	}
}
