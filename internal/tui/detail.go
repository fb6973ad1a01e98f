package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MelonSeo/trendstream-tui/internal/render"
)

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc", "backspace":
		m.view = ViewNews
		m.detail = nil
		return m, nil

	case "o":
		if m.detail != nil {
			if err := openBrowser(m.detail.Link); err != nil {
				return m, func() tea.Msg { return statusMsg("Could not open browser") }
			}
			return m, func() tea.Msg { return statusMsg("Opened in browser") }
		}
	}
	return m, nil
}

func (m Model) renderDetail() string {
	if m.detail == nil {
		return helpStyle.Render("Loading…")
	}
	item := *m.detail

	var s strings.Builder
	s.WriteString(detailTitleStyle.Render(item.Title))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%s %s | %s | %s",
		typeBadge(item.Type), item.Source,
		item.PubDate.Format("Jan 2, 2006 15:04"), item.Link)))
	s.WriteString("\n")
	if len(item.Tags) > 0 {
		s.WriteString(chipStyle.Render("tags: " + strings.Join(item.Tags, ", ")))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if ai := item.AIResult; ai != nil {
		s.WriteString(aiBadges(ai))
		s.WriteString("\n\n")
		if ai.Summary != "" {
			s.WriteString(render.Terminal(ai.Summary, m.width))
			s.WriteString("\n\n")
		}
		if len(ai.Keywords) > 0 {
			s.WriteString(chipStyle.Render("keywords: " + strings.Join(ai.Keywords, ", ")))
			s.WriteString("\n\n")
		}
	} else {
		s.WriteString(dimStyle.Render(analyzingPlaceholder))
		s.WriteString("\n\n")
	}

	if item.Description != "" {
		s.WriteString(render.Description(item.Description, m.width))
		s.WriteString("\n\n")
	}

	if bar := m.statusBar(); bar != "" {
		s.WriteString(bar)
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("o: open browser • esc: back • ?: help • q: quit"))
	return s.String()
}
