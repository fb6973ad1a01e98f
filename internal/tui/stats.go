package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

func (m Model) enterStats() (tea.Model, tea.Cmd) {
	m.view = ViewStats
	m.err = nil
	m.statusMsg = ""
	m.haveDash = false
	m.tickGen++
	// the load mutates request-tracking fields, so build the command
	// before m is copied into the return value
	cmd := tea.Batch(m.loadDashboard(), m.dashTick())
	return m, cmd
}

func (m *Model) loadDashboard() tea.Cmd {
	key := query.Key("dashboard")
	id := m.cache.Next()
	m.pendingID = id
	m.loading = true
	m.err = nil

	client := m.client
	cache := m.cache
	return func() tea.Msg {
		dash, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) (models.Dashboard, error) {
				return client.StatsDashboard(ctx)
			})
		if err != nil {
			return fetchErrMsg{resultMsg{key, id}, err}
		}
		return dashboardMsg{resultMsg{key, id}, dash}
	}
}

// dashTick re-arms the auto-refresh timer. Update only acts on the
// tick while the stats view is showing.
func (m Model) dashTick() tea.Cmd {
	refresh, err := m.cfg.UI.GetDashboardRefresh()
	if err != nil || refresh <= 0 {
		refresh = 60 * time.Second
	}
	gen := m.tickGen
	return tea.Tick(refresh, func(time.Time) tea.Msg { return dashTickMsg{gen: gen} })
}

func (m Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.cache.Invalidate(query.Key("dashboard"))
		cmd := m.loadDashboard()
		return m, cmd
	}
	return m, nil
}

func (m Model) statsState() viewState {
	return selectState(false, m.loading && !m.haveDash, m.err, false)
}

func (m Model) renderStats() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("TrendStream — Stats Dashboard"))
	s.WriteString("\n")

	switch m.statsState() {
	case stateLoading:
		s.WriteString(helpStyle.Render("Loading…"))
		s.WriteString("\n")

	case stateError:
		s.WriteString(errorStyle.Render(errorText(m.err)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("press 1 to return to the latest news"))
		s.WriteString("\n")

	case statePopulated:
		d := m.dashboard
		s.WriteString(fmt.Sprintf("%s  %s\n\n",
			statusStyle.Render(fmt.Sprintf("today: %d", d.TotalToday)),
			statusStyle.Render(fmt.Sprintf("last 7 days: %d", d.TotalWeek))))

		barWidth := m.width - 40
		if barWidth < 10 {
			barWidth = 10
		}

		if len(d.SourceStats) > 0 {
			s.WriteString(detailTitleStyle.Render("News by source (7 days)"))
			s.WriteString("\n")
			var max int64 = 1
			for _, st := range d.SourceStats {
				if st.Count > max {
					max = st.Count
				}
			}
			for _, st := range d.SourceStats {
				s.WriteString(fmt.Sprintf("%-20s %s %d\n",
					truncate(st.Source, 20), bar(st.Count, max, barWidth), st.Count))
			}
			s.WriteString("\n")
		}

		if len(d.DailyStats) > 0 {
			s.WriteString(detailTitleStyle.Render("Daily intake (7 days)"))
			s.WriteString("\n")
			var max int64 = 1
			for _, st := range d.DailyStats {
				if st.Count > max {
					max = st.Count
				}
			}
			for _, st := range d.DailyStats {
				s.WriteString(fmt.Sprintf("%-12s %s %d\n",
					st.Date, bar(st.Count, max, barWidth), st.Count))
			}
			s.WriteString("\n")
		}

		if len(d.HourlyStats) > 0 {
			s.WriteString(detailTitleStyle.Render("Today by hour"))
			s.WriteString("\n")
			counts := make(map[int]int64, len(d.HourlyStats))
			var max int64 = 1
			for _, st := range d.HourlyStats {
				counts[st.Hour] = st.Count
				if st.Count > max {
					max = st.Count
				}
			}
			for hour := 0; hour < 24; hour++ {
				s.WriteString(fmt.Sprintf("%02d:00 %s %d\n",
					hour, bar(counts[hour], max, barWidth), counts[hour]))
			}
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("auto-refreshes • r: refresh now • 1-6 t u: pages • ?: help • q: quit"))
	return s.String()
}
