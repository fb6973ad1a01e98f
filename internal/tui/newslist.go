package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MelonSeo/trendstream-tui/internal/pagination"
	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

// listOp selects which paged news operation a list page runs. All six
// news routes share one controller parameterized by op and term.
type listOp int

const (
	opLatest listOp = iota
	opPopular
	opSearch
	opCategory
	opSource
	opTag
)

func (o listOp) cacheOp() string {
	switch o {
	case opPopular:
		return "popular"
	case opSearch:
		return "search"
	case opCategory:
		return "category"
	case opSource:
		return "source"
	case opTag:
		return "tag"
	default:
		return "news"
	}
}

func (o listOp) title() string {
	switch o {
	case opPopular:
		return "TrendStream — Popular News"
	case opSearch:
		return "TrendStream — Search"
	case opCategory:
		return "TrendStream — By Category"
	case opSource:
		return "TrendStream — By Source"
	case opTag:
		return "TrendStream — By Tag"
	default:
		return "TrendStream — Latest News"
	}
}

// needsTerm reports whether the route requires a keyword/name. Pages
// with a missing term render a prompt and never issue a request.
func (o listOp) needsTerm() bool {
	return o == opSearch || o == opCategory || o == opSource || o == opTag
}

func (o listOp) prompt() string {
	switch o {
	case opSearch:
		return "Enter a search keyword"
	case opCategory:
		return "Enter a category name"
	case opSource:
		return "Enter a source name"
	case opTag:
		return "Enter a tag"
	default:
		return ""
	}
}

// loadNews issues the paged fetch for the current route through the
// cache. The returned message carries the request id for out-of-order
// filtering.
func (m *Model) loadNews(op listOp, term string, pageIdx int) tea.Cmd {
	size := m.cfg.UI.PageSize
	key := query.Key(op.cacheOp(), term, pageIdx, size)
	id := m.cache.Next()
	m.pendingID = id
	m.activeKey = key
	m.loading = true
	m.err = nil

	// show whatever the cache holds for this key while the fetch runs,
	// stale or not
	if page, ok, _ := query.LookupAs[models.Page[models.NewsItem]](m.cache, key); ok {
		m.newsPage = page
		m.haveNews = true
		m.syncNewsList()
	}

	client := m.client
	cache := m.cache
	return func() tea.Msg {
		page, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) (models.Page[models.NewsItem], error) {
				switch op {
				case opPopular:
					return client.PopularNews(ctx, pageIdx, size)
				case opSearch:
					return client.SearchNews(ctx, term, pageIdx, size)
				case opCategory:
					return client.NewsByCategory(ctx, term, pageIdx, size)
				case opSource:
					return client.NewsBySource(ctx, term, pageIdx, size)
				case opTag:
					return client.NewsByTag(ctx, term, pageIdx, size)
				default:
					return client.News(ctx, pageIdx, size)
				}
			})
		if err != nil {
			return fetchErrMsg{resultMsg{key, id}, err}
		}
		return newsPageMsg{resultMsg{key, id}, page}
	}
}

// loadNewsItem fetches a single item for the detail view.
func (m *Model) loadNewsItem(id64 int64) tea.Cmd {
	key := query.Key("newsItem", id64)
	id := m.cache.Next()
	m.pendingID = id
	m.loading = true

	client := m.client
	cache := m.cache
	return func() tea.Msg {
		item, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) (models.NewsItem, error) {
				return client.NewsByID(ctx, id64)
			})
		if err != nil {
			return fetchErrMsg{resultMsg{key, id}, err}
		}
		return newsItemMsg{resultMsg{key, id}, item}
	}
}

// loadNames fetches the category/source pick lists shown under the
// term prompt. Best effort: failures only skip the hint line.
func (m *Model) loadNames(op listOp) tea.Cmd {
	var cacheOp string
	switch op {
	case opCategory:
		cacheOp = "categories"
	case opSource:
		cacheOp = "sources"
	default:
		return nil
	}

	key := query.Key(cacheOp)
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		names, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) ([]string, error) {
				if op == opCategory {
					return client.Categories(ctx)
				}
				return client.Sources(ctx)
			})
		if err != nil {
			return statusMsg("")
		}
		return namesMsg{resultMsg{key: key}, cacheOp, names}
	}
}

func (m *Model) loadReadIDs() tea.Cmd {
	hist := m.history
	if hist == nil {
		return nil
	}
	return func() tea.Msg {
		ids, err := hist.ReadIDs()
		if err != nil {
			return statusMsg("")
		}
		return readIDsMsg{ids}
	}
}

func (m *Model) markRead(item models.NewsItem) tea.Cmd {
	hist := m.history
	if hist == nil {
		return nil
	}
	return func() tea.Msg {
		if err := hist.MarkRead(item.ID, item.Title); err != nil {
			return statusMsg("")
		}
		ids, err := hist.ReadIDs()
		if err != nil {
			return statusMsg("")
		}
		return readIDsMsg{ids}
	}
}

func (m Model) switchNewsRoute(op listOp) (tea.Model, tea.Cmd) {
	m.view = ViewNews
	m.op = op
	m.term = ""
	m.pageIdx = 0
	m.haveNews = false
	m.err = nil
	m.statusMsg = ""
	m.list.Title = op.title()
	m.list.SetItems(nil)

	if op.needsTerm() {
		// missing-parameter state: prompt, no request
		m.cancelPending()
		m.editingTerm = true
		m.termInput.SetValue("")
		m.termInput.Placeholder = op.prompt()
		m.termInput.Focus()
		return m, tea.Batch(textinput.Blink, m.loadNames(op))
	}
	// the load mutates request-tracking fields, so build the command
	// before m is copied into the return value
	cmd := m.loadNews(op, "", 0)
	return m, cmd
}

func (m Model) handleTermInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.cancelPending()
		m.editingTerm = false
		m.termInput.Blur()
		return m, nil

	case "enter":
		term := strings.TrimSpace(m.termInput.Value())
		if term == "" {
			// stay in the prompt; blank input never reaches the API
			return m, nil
		}
		m.editingTerm = false
		m.termInput.Blur()
		m.term = term
		m.pageIdx = 0
		m.haveNews = false
		cmd := m.loadNews(m.op, term, 0)
		return m, cmd
	}

	var cmd tea.Cmd
	m.termInput, cmd = m.termInput.Update(msg)
	return m, cmd
}

func (m Model) handleNewsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if i, ok := m.list.SelectedItem().(newsListItem); ok {
			cmd := m.loadNewsItem(i.news.ID)
			return m, cmd
		}

	case "o":
		if i, ok := m.list.SelectedItem().(newsListItem); ok {
			if err := openBrowser(i.news.Link); err != nil {
				return m, func() tea.Msg { return statusMsg("Could not open browser") }
			}
			return m, func() tea.Msg { return statusMsg("Opened in browser") }
		}

	case "e":
		if m.op.needsTerm() {
			m.editingTerm = true
			m.termInput.SetValue(m.term)
			m.termInput.Focus()
			return m, textinput.Blink
		}

	case "r":
		if !m.op.needsTerm() || m.term != "" {
			m.cache.Invalidate(query.Key(m.op.cacheOp(), m.term, m.pageIdx, m.cfg.UI.PageSize))
			cmd := m.loadNews(m.op, m.term, m.pageIdx)
			return m, cmd
		}

	case "[", "left":
		if m.canPaginate() && m.pageIdx > 0 {
			m.pageIdx--
			cmd := m.loadNews(m.op, m.term, m.pageIdx)
			return m, cmd
		}

	case "]", "right":
		if m.canPaginate() && m.pageIdx < m.newsPage.TotalPages-1 {
			m.pageIdx++
			cmd := m.loadNews(m.op, m.term, m.pageIdx)
			return m, cmd
		}

	case "{":
		if m.canPaginate() && m.pageIdx > 0 {
			m.pageIdx = 0
			cmd := m.loadNews(m.op, m.term, 0)
			return m, cmd
		}

	case "}":
		if m.canPaginate() && m.pageIdx < m.newsPage.TotalPages-1 {
			m.pageIdx = m.newsPage.TotalPages - 1
			cmd := m.loadNews(m.op, m.term, m.pageIdx)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) canPaginate() bool {
	return m.haveNews && m.newsPage.TotalPages > 1
}

func (m *Model) syncNewsList() {
	items := make([]list.Item, len(m.newsPage.Content))
	for i, n := range m.newsPage.Content {
		_, read := m.readIDs[n.ID]
		items[i] = newsListItem{news: n, read: read}
	}
	m.list.SetItems(items)
}

func (m Model) newsState() viewState {
	missing := m.op.needsTerm() && m.term == ""
	// loading renders only when there is nothing to show; a refetch
	// with data on screen keeps the list visible
	return selectState(missing, m.loading && !m.haveNews, m.err, m.haveNews && len(m.newsPage.Content) == 0)
}

func (m Model) renderNews() string {
	var s strings.Builder

	switch m.newsState() {
	case stateMissingParam:
		s.WriteString(titleStyle.Render(m.op.title()))
		s.WriteString("\n")
		s.WriteString(promptStyle.Render(m.op.prompt()))
		s.WriteString("\n")
		if m.editingTerm {
			s.WriteString(m.termInput.View())
			s.WriteString("\n")
		} else {
			s.WriteString(helpStyle.Render("press e to enter one"))
			s.WriteString("\n")
		}
		if hints := m.nameHints(); hints != "" {
			s.WriteString("\n")
			s.WriteString(chipStyle.Render(hints))
			s.WriteString("\n")
		}

	case stateLoading:
		s.WriteString(titleStyle.Render(m.op.title()))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("Loading…"))
		s.WriteString("\n")

	case stateError:
		s.WriteString(titleStyle.Render(m.op.title()))
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(errorText(m.err)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("press 1 to return to the latest news"))
		s.WriteString("\n")

	case stateEmpty:
		s.WriteString(titleStyle.Render(m.op.title()))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render(m.emptyText()))
		s.WriteString("\n")

	case statePopulated:
		s.WriteString(m.list.View())
		s.WriteString("\n")
		s.WriteString(m.renderPager())
		s.WriteString("\n")
	}

	if bar := m.statusBar(); bar != "" && m.newsState() != stateError {
		s.WriteString(bar)
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("enter: open • o: browser • [ ]: page • 1-6 t s u: pages • ?: help • q: quit"))
	return s.String()
}

func (m Model) emptyText() string {
	if m.term != "" {
		return fmt.Sprintf("No results for %q. Try another term (e).", m.term)
	}
	return "Nothing here yet."
}

func (m Model) nameHints() string {
	var names []string
	switch m.op {
	case opCategory:
		names = m.names["categories"]
	case opSource:
		names = m.names["sources"]
	}
	if len(names) == 0 {
		return ""
	}
	return "available: " + truncate(strings.Join(names, ", "), 120)
}

// renderPager draws the bounded page-number footer, e.g.
// « ‹ 1 … 8 [9] 10 … 20 › »
func (m Model) renderPager() string {
	total := m.newsPage.TotalPages
	if total == 0 && m.newsPage.TotalElements > 0 {
		total = pagination.TotalPages(m.newsPage.TotalElements, m.newsPage.Size)
	}
	w := pagination.Compute(m.pageIdx, total)
	if len(w.Pages) == 0 {
		return helpStyle.Render(fmt.Sprintf("%d items", m.newsPage.TotalElements))
	}

	var parts []string
	if w.ShowFirst {
		parts = append(parts, pageStyle.Render("«"))
	}
	if w.ShowPrev {
		parts = append(parts, pageStyle.Render("‹"))
	}
	if w.LeadingGap {
		parts = append(parts, helpStyle.Render("…"))
	}
	for _, p := range w.Pages {
		label := fmt.Sprintf(" %d ", p+1)
		if p == m.pageIdx {
			parts = append(parts, pageActiveStyle.Render(label))
		} else {
			parts = append(parts, pageStyle.Render(label))
		}
	}
	if w.TrailingGap {
		parts = append(parts, helpStyle.Render("…"))
	}
	if w.ShowNext {
		parts = append(parts, pageStyle.Render("›"))
	}
	if w.ShowLast {
		parts = append(parts, pageStyle.Render("»"))
	}

	counts := helpStyle.Render(fmt.Sprintf("  page %d/%d • %d items",
		m.pageIdx+1, total, m.newsPage.TotalElements))
	return strings.Join(parts, " ") + counts
}
