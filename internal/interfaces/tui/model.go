package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rbetancur/amg-desk-ai/internal/application/store"
	"github.com/rbetancur/amg-desk-ai/internal/shared/biztime"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

const (
	descriptionWidth = 40
	updateBuffer     = 32
)

// stateMsg carries a fresh store snapshot into the update loop.
type stateMsg store.State

// loadDoneMsg reports the outcome of a page load.
type loadDoneMsg struct {
	err error
}

type keyMap struct {
	Refresh key.Binding
	Next    key.Binding
	Prev    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left"),
		key.WithHelp("p", "previous page"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model shows the signed-in user's requests and repaints whenever the
// store publishes a new snapshot.
type Model struct {
	store    *store.Store
	username string

	state   store.State
	limit   int
	offset  int
	loading bool
	err     error

	spinner  spinner.Model
	updates  chan tea.Msg
	detach   func()
	width    int
	quitting bool
}

// NewModel builds the request board over an already-started store.
func NewModel(s *store.Store, username string, limit int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := Model{
		store:    s,
		username: username,
		limit:    limit,
		loading:  true,
		spinner:  sp,
		updates:  make(chan tea.Msg, updateBuffer),
	}

	updates := m.updates
	m.detach = s.Subscribe(func(st store.State) {
		select {
		case updates <- stateMsg(st):
		default:
		}
	})

	return m
}

// Init kicks off the spinner, the snapshot listener, and the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen(), m.load())
}

// listen waits for the next snapshot pushed by the store.
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

func (m Model) load() tea.Cmd {
	s, limit, offset := m.store, m.limit, m.offset
	return func() tea.Msg {
		return loadDoneMsg{err: s.Load(context.Background(), limit, offset)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = store.State(msg)
		m.loading = false
		return m, m.listen()

	case loadDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.loading = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		if m.detach != nil {
			m.detach()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case key.Matches(msg, keys.Next):
		if !m.state.Pagination.HasMore {
			return m, nil
		}
		m.offset += m.pageSize()
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case key.Matches(msg, keys.Prev):
		if m.offset == 0 {
			return m, nil
		}
		m.offset -= m.pageSize()
		if m.offset < 0 {
			m.offset = 0
		}
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())
	}

	return m, nil
}

func (m Model) pageSize() int {
	if m.state.Pagination.Limit > 0 {
		return m.state.Pagination.Limit
	}
	return m.limit
}

// View renders the request board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(fmt.Sprintf("Requests · %s", m.username))

	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " Loading requests..."
	case len(m.state.Requests) == 0:
		body = mutedStyle.Render("No requests yet. Submit one with: deskai submit")
	default:
		body = m.renderTable()
	}

	footer := m.renderFooter()

	sections := []string{header, boardStyle.Render(body), footer}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(apperrors.UserMessage(m.err)))
	}
	sections = append(sections, helpStyle.Render("r refresh · n/p page · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTable() string {
	var sb strings.Builder

	sb.WriteString(columnStyle.Render(fmt.Sprintf("%-6s %-32s %-12s %-17s %s",
		"ID", "Category", "Status", "Requested", "Description")))
	sb.WriteString("\n")

	for _, req := range m.state.Requests {
		line := fmt.Sprintf("%-6d %-32s %s %-17s %s",
			req.ID,
			req.CategoryLabel(),
			padStatus(req.StatusLabel()),
			biztime.FormatDisplay(req.RequestedAt),
			excerpt(req.Description, descriptionWidth),
		)
		sb.WriteString(rowStyle.Render(line))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// padStatus pads the plain label before styling so ANSI codes do not
// break column alignment.
func padStatus(label string) string {
	padded := fmt.Sprintf("%-12s", label)
	return styleStatus(label) + padded[len(label):]
}

func (m Model) renderFooter() string {
	p := m.state.Pagination
	page := ""
	if p.Limit > 0 {
		page = fmt.Sprintf("page %d · ", p.Offset/p.Limit+1)
	}
	return mutedStyle.Render(fmt.Sprintf("%s%d total · live", page, p.Total))
}

func excerpt(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
