// Package tui is the terminal front-end: page controllers bound to
// the query cache and the view components they render.
package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/MelonSeo/trendstream-tui/internal/api"
	"github.com/MelonSeo/trendstream-tui/internal/config"
	"github.com/MelonSeo/trendstream-tui/internal/history"
	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

type View int

const (
	ViewNews View = iota
	ViewDetail
	ViewTrends
	ViewStats
	ViewSubscriptions
	ViewHelp
)

type Model struct {
	cfg     *config.Config
	client  *api.Client
	cache   *query.Cache
	history *history.DB
	log     zerolog.Logger

	view     View
	prevView View
	width    int
	height   int

	// shared fetch tracking: one active query at a time, results
	// filtered by request id
	pendingID uint64
	activeKey string
	loading   bool
	err       error

	// news list pages
	op       listOp
	term     string
	pageIdx  int
	newsPage models.Page[models.NewsItem]
	haveNews bool
	names    map[string][]string
	list     list.Model
	readIDs  map[int64]struct{}

	termInput   textinput.Model
	editingTerm bool

	detail *models.NewsItem

	period    string
	trends    []models.TrendEntry
	haveTrend bool

	dashboard models.Dashboard
	haveDash  bool
	tickGen   int

	email          string
	subs           models.UserSubscriptions
	haveSubs       bool
	activeKeywords []string
	subCursor      int
	subForm        subForm
	subErr         error

	statusMsg string
}

func New(cfg *config.Config, client *api.Client, cache *query.Cache, hist *history.DB, log zerolog.Logger) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "TrendStream — Latest News"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	ti := textinput.New()
	ti.CharLimit = 80

	return Model{
		cfg:       cfg,
		client:    client,
		cache:     cache,
		history:   hist,
		log:       log,
		view:      ViewNews,
		op:        opLatest,
		period:    "24h",
		list:      l,
		termInput: ti,
		names:     make(map[string][]string),
		readIDs:   make(map[int64]struct{}),
		subForm:   newSubForm(),
	}
}

// Init defers the first load to an initMsg so the request id lands on
// the model instance bubbletea keeps.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return initMsg{} },
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		// the load mutates request-tracking fields, so build the
		// command before m is copied into the return value
		cmd := tea.Batch(m.loadNews(opLatest, "", 0), m.loadReadIDs())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case newsPageMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.haveNews = true
		m.newsPage = msg.page
		m.syncNewsList()
		return m, nil

	case newsItemMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = nil
		item := msg.item
		m.detail = &item
		m.view = ViewDetail
		return m, m.markRead(item)

	case trendsMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.haveTrend = true
		m.trends = msg.entries
		return m, nil

	case dashboardMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.haveDash = true
		m.dashboard = msg.dashboard
		return m, nil

	case userSubsMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.haveSubs = true
		m.subs = msg.subs
		if m.subCursor >= len(m.subs.Subscriptions) {
			m.subCursor = 0
		}
		return m, nil

	case keywordsMsg:
		// background load; never gates the page state
		m.activeKeywords = msg.keywords
		return m, nil

	case namesMsg:
		m.names[msg.op] = msg.names
		return m, nil

	case fetchErrMsg:
		if msg.id != m.pendingID {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case readIDsMsg:
		m.readIDs = msg.ids
		m.syncNewsList()
		return m, nil

	case statusMsg:
		m.statusMsg = string(msg)
		return m, nil

	case dashTickMsg:
		if m.view != ViewStats || msg.gen != m.tickGen {
			return m, nil
		}
		m.cache.Invalidate(query.Key("dashboard"))
		cmd := tea.Batch(m.loadDashboard(), m.dashTick())
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// cancelPending abandons the in-flight request, if any. Navigations
// that issue no fetch call this so a late result cannot change the
// view out from under the prompt they render.
func (m *Model) cancelPending() {
	m.pendingID = m.cache.Next()
	m.activeKey = ""
	m.loading = false
	m.err = nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTerm {
		return m.handleTermInput(msg)
	}
	if m.view == ViewSubscriptions && m.subForm.active() {
		return m.handleSubFormKeys(msg)
	}
	// while the list filter is open, all keys belong to it
	if m.view == ViewNews && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.view == ViewDetail || m.view == ViewHelp {
			break // view-local handling below
		}
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6":
		return m.switchNewsRoute(routeForKey(msg.String()))

	case "t":
		return m.enterTrends()

	case "s":
		if m.view != ViewSubscriptions {
			return m.enterStats()
		}

	case "u":
		return m.enterSubscriptions()

	case "?":
		m.prevView = m.view
		m.view = ViewHelp
		return m, nil
	}

	switch m.view {
	case ViewNews:
		return m.handleNewsKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewTrends:
		return m.handleTrendsKeys(msg)
	case ViewStats:
		return m.handleStatsKeys(msg)
	case ViewSubscriptions:
		return m.handleSubsKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.view = m.prevView
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	switch m.view {
	case ViewNews:
		return m.renderNews()
	case ViewDetail:
		return m.renderDetail()
	case ViewTrends:
		return m.renderTrends()
	case ViewStats:
		return m.renderStats()
	case ViewSubscriptions:
		return m.renderSubscriptions()
	case ViewHelp:
		return m.renderHelp()
	}
	return ""
}

// statusBar is the shared error/status footer line.
func (m Model) statusBar() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + errorText(m.err))
	}
	if m.statusMsg != "" {
		return statusStyle.Render(m.statusMsg)
	}
	return ""
}

func (m Model) renderHelp() string {
	help := `
TrendStream — Keyboard Shortcuts

Pages:
  1            Latest news
  2            Popular news
  3            Search
  4            By category
  5            By source
  6            By tag
  t            Trends
  s            Stats dashboard
  u            Subscriptions

News list:
  ↑/↓, j/k     Navigate items
  enter        Open item
  o            Open link in browser
  [ / ]        Previous / next page
  { / }        First / last page
  e            Edit the search term / filter
  r            Refresh current page

Detail:
  o            Open link in browser
  esc          Back to list

General:
  ?            Show/hide this help
  q, ctrl+c    Quit
`
	return help + "\n" + helpStyle.Render("Press ? or esc to close help")
}

func routeForKey(key string) listOp {
	switch key {
	case "2":
		return opPopular
	case "3":
		return opSearch
	case "4":
		return opCategory
	case "5":
		return opSource
	case "6":
		return opTag
	default:
		return opLatest
	}
}

// openBrowser launches the platform browser for a news link.
func openBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("empty link")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
