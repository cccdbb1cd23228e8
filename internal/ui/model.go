package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/journal"
	"github.com/ngmaloney/weather-now/internal/search"
)

// DefaultTimeout bounds each request when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Focus represents which widget receives key presses
type Focus int

const (
	FocusSearch Focus = iota
	FocusList
)

// Options configures a Model. Zero values fall back to the public
// Open-Meteo endpoints and a discarding logger.
type Options struct {
	Searcher geocoding.Searcher
	Weather  forecast.WeatherClient
	Journal  journal.Recorder // optional
	Logger   *slog.Logger
	Timeout  time.Duration

	// InitialQuery is submitted as soon as the program starts.
	InitialQuery string
}

// Model represents the application's state
type Model struct {
	session search.Session
	focus   Focus
	width   int
	height  int

	searchInput   textinput.Model
	candidateList list.Model
	spinner       spinner.Model

	// API clients
	searcher geocoding.Searcher
	weather  forecast.WeatherClient
	journal  journal.Recorder

	logger       *slog.Logger
	timeout      time.Duration
	initialQuery string

	// cancel aborts the request that is currently in flight
	cancel context.CancelFunc
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a city name (e.g. Paris, Tokyo, Springfield)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if opts.Searcher == nil {
		opts.Searcher = geocoding.NewClient(nil, "", "")
	}
	if opts.Weather == nil {
		opts.Weather = forecast.NewWeatherClient(nil, "", "")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return Model{
		focus:         FocusSearch,
		searchInput:   ti,
		candidateList: createCandidateList(nil, 0),
		spinner:       s,
		searcher:      opts.Searcher,
		weather:       opts.Weather,
		journal:       opts.Journal,
		logger:        opts.Logger,
		timeout:       opts.Timeout,
		initialQuery:  opts.InitialQuery,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.initialQuery != "" {
		query := m.initialQuery
		return tea.Batch(textinput.Blink, func() tea.Msg {
			return submitQueryMsg{query: query}
		})
	}
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidateList.SetWidth(m.listWidth())
		return m, nil

	case submitQueryMsg:
		m.searchInput.SetValue(msg.query)
		return m.submitSearch()

	case resolvedMsg:
		applied, err := m.session.CompleteResolve(msg.seq, msg.results, msg.err)
		if !applied || err != nil {
			return m, nil
		}
		m.candidateList = createCandidateList(m.session.Candidates(), m.listWidth())
		m.focusList()
		return m, nil

	case weatherFetchedMsg:
		applied, err := m.session.CompleteFetch(msg.seq, msg.conditions, msg.err)
		if !applied || err != nil || m.journal == nil {
			return m, nil
		}
		return m, recordObservation(m.journal, *m.session.Selected(), m.session.Weather(), m.logger)

	case observationRecordedMsg:
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once nothing is loading
		if !m.session.Loading() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Global keys
		if msg.String() == "ctrl+c" {
			m.cancelInFlight()
			return m, tea.Quit
		}

		switch m.focus {
		case FocusList:
			return m.handleListKeys(msg)
		default:
			return m.handleSearchInput(msg)
		}
	}

	// Forward everything else (cursor blink etc.) to the focused widget
	if m.focus == FocusList {
		m.candidateList, cmd = m.candidateList.Update(msg)
	} else {
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// handleSearchInput handles keyboard input while the search box has focus
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		return m.submitSearch()
	case tea.KeyTab:
		if len(m.session.Candidates()) > 0 {
			m.focusList()
		}
		return m, nil
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleListKeys handles keyboard input while the candidate list has focus
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case msg.Type == tea.KeyEnter:
		req, err := m.session.Select(m.candidateList.Index())
		if err != nil {
			return m, nil
		}
		return m.startFetch(req)

	case msg.String() == "/" || msg.Type == tea.KeyEsc || msg.Type == tea.KeyTab:
		return m.focusSearch()

	case msg.String() == "r":
		req, err := m.session.Refresh()
		if err != nil {
			return m, nil
		}
		return m.startFetch(req)

	case msg.String() == "q":
		m.cancelInFlight()
		return m, tea.Quit
	}

	m.candidateList, cmd = m.candidateList.Update(msg)
	return m, cmd
}

// submitSearch starts a geocoding search for the search box contents.
// A blank query is rejected without issuing any command.
func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	m.cancelInFlight()
	m.candidateList = createCandidateList(nil, m.listWidth())
	m.focus = FocusSearch
	m.searchInput.Focus()

	req, err := m.session.BeginResolve(m.searchInput.Value())
	if err != nil {
		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancel = cancel
	return m, tea.Batch(
		m.spinner.Tick,
		searchCities(ctx, cancel, m.searcher, req, m.logger),
	)
}

func (m Model) startFetch(req search.FetchRequest) (tea.Model, tea.Cmd) {
	m.cancelInFlight()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancel = cancel
	return m, tea.Batch(
		m.spinner.Tick,
		fetchWeather(ctx, cancel, m.weather, req, m.logger),
	)
}

func (m *Model) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) focusList() {
	m.focus = FocusList
	m.searchInput.Blur()
}

func (m Model) focusSearch() (tea.Model, tea.Cmd) {
	m.focus = FocusSearch
	m.searchInput.Focus()
	return m, textinput.Blink
}

func (m Model) listWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return 0
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	// Title
	sections = append(sections,
		titleStyle.Render("☀ Weather Now"),
		mutedStyle.Render("Current conditions from Open-Meteo"),
		"",
	)

	// Search box
	box := searchBoxStyle
	if m.focus == FocusSearch {
		box = activeSearchBoxStyle
	}
	sections = append(sections, box.Render(m.searchInput.View()))

	if m.session.Loading() && m.session.Selected() == nil {
		sections = append(sections, loadingStyle.Render(fmt.Sprintf("%s Searching…", m.spinner.View())))
	}

	if err := m.session.Err(); err != nil {
		sections = append(sections, "", errorStyle.Render("✗ "+err.Error()))
	}

	// Candidates
	if n := len(m.session.Candidates()); n > 0 {
		sections = append(sections,
			sectionHeaderStyle.Render(fmt.Sprintf("Found %d matches for %q", n, m.session.Query())),
			m.candidateList.View(),
		)
	}

	// Selected location and weather
	if card := m.renderLocationCard(); card != "" {
		sections = append(sections, "", card)
	}

	sections = append(sections, helpStyle.Render(m.helpText()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpText() string {
	if m.focus == FocusList {
		return "↑/↓: Navigate • Enter: Select • R: Refresh • / or Esc: Search • Q: Quit"
	}
	if len(m.session.Candidates()) > 0 {
		return "Enter: Search • Tab: Results • Ctrl+C: Quit"
	}
	return "Press Enter to search • Ctrl+C to quit"
}
