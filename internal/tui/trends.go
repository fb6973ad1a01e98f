package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

var trendPeriods = []string{"24h", "7d", "30d"}

func (m Model) enterTrends() (tea.Model, tea.Cmd) {
	m.view = ViewTrends
	m.err = nil
	m.statusMsg = ""
	m.haveTrend = false
	// build the command before m is copied into the return value
	cmd := m.loadTrends(m.period)
	return m, cmd
}

func (m *Model) loadTrends(period string) tea.Cmd {
	limit := m.cfg.UI.TrendLimit
	key := query.Key("trends", period, limit)
	id := m.cache.Next()
	m.pendingID = id
	m.loading = true
	m.err = nil

	client := m.client
	cache := m.cache
	return func() tea.Msg {
		entries, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) ([]models.TrendEntry, error) {
				return client.Trends(ctx, period, limit)
			})
		if err != nil {
			return fetchErrMsg{resultMsg{key, id}, err}
		}
		return trendsMsg{resultMsg{key, id}, period, entries}
	}
}

func (m Model) handleTrendsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m.cyclePeriod(-1)
	case "right", "l", "tab":
		return m.cyclePeriod(1)
	case "r":
		m.cache.Invalidate(query.Key("trends", m.period, m.cfg.UI.TrendLimit))
		cmd := m.loadTrends(m.period)
		return m, cmd
	case "o":
		// open the top related link of the first trend as a shortcut
		if len(m.trends) > 0 && len(m.trends[0].RelatedNews) > 0 {
			if err := openBrowser(m.trends[0].RelatedNews[0].Link); err != nil {
				return m, func() tea.Msg { return statusMsg("Could not open browser") }
			}
			return m, func() tea.Msg { return statusMsg("Opened in browser") }
		}
	}
	return m, nil
}

func (m Model) cyclePeriod(dir int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, p := range trendPeriods {
		if p == m.period {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(trendPeriods)) % len(trendPeriods)
	m.period = trendPeriods[idx]
	m.haveTrend = false
	cmd := m.loadTrends(m.period)
	return m, cmd
}

func (m Model) trendsState() viewState {
	return selectState(false, m.loading, m.err, m.haveTrend && len(m.trends) == 0)
}

func (m Model) renderTrends() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("TrendStream — Trends"))
	s.WriteString("\n")

	var tabs []string
	for _, p := range trendPeriods {
		if p == m.period {
			tabs = append(tabs, pageActiveStyle.Render(" "+p+" "))
		} else {
			tabs = append(tabs, pageStyle.Render(" "+p+" "))
		}
	}
	s.WriteString(strings.Join(tabs, " "))
	s.WriteString("\n\n")

	switch m.trendsState() {
	case stateLoading:
		s.WriteString(helpStyle.Render("Loading…"))
		s.WriteString("\n")

	case stateError:
		s.WriteString(errorStyle.Render(errorText(m.err)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("press 1 to return to the latest news"))
		s.WriteString("\n")

	case stateEmpty:
		s.WriteString(helpStyle.Render("No trends for this period yet."))
		s.WriteString("\n")

	case statePopulated:
		// bars scale against the max count of the response; ordering
		// is taken as served
		var max int64 = 1
		for _, t := range m.trends {
			if t.Count > max {
				max = t.Count
			}
		}
		barWidth := m.width - 40
		if barWidth < 10 {
			barWidth = 10
		}
		for i, t := range m.trends {
			s.WriteString(fmt.Sprintf("%2d. %-20s %s %d\n",
				i+1, truncate(t.Keyword, 20), bar(t.Count, max, barWidth), t.Count))
			for _, rn := range t.RelatedNews {
				s.WriteString(dimStyle.Render("      ↳ " + truncate(rn.Title, m.width-10)))
				s.WriteString("\n")
			}
		}
	}

	s.WriteString("\n")
	if bar := m.statusBar(); bar != "" && m.trendsState() != stateError {
		s.WriteString(bar)
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("←/→: period • r: refresh • 1-6 s u: pages • ?: help • q: quit"))
	return s.String()
}
