package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

type subStage int

const (
	subStageEmail subStage = iota
	subStageBrowse
	subStageAdd
)

// subForm holds the subscription page inputs: the email lookup and
// the add-keyword form.
type subForm struct {
	stage   subStage
	email   textinput.Model
	name    textinput.Model
	keyword textinput.Model
	focus   int // 0 = name, 1 = keyword
}

func newSubForm() subForm {
	email := textinput.New()
	email.Placeholder = "email address"
	email.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "name (optional)"
	name.CharLimit = 80

	keyword := textinput.New()
	keyword.Placeholder = "keyword to subscribe"
	keyword.CharLimit = 80

	return subForm{stage: subStageBrowse, email: email, name: name, keyword: keyword}
}

func (f subForm) active() bool {
	return f.stage != subStageBrowse
}

func (m Model) enterSubscriptions() (tea.Model, tea.Cmd) {
	m.view = ViewSubscriptions
	m.err = nil
	m.subErr = nil
	m.statusMsg = ""

	if m.email == "" {
		// email prompt: no request, so drop any in-flight one
		m.cancelPending()
		m.subForm.stage = subStageEmail
		m.subForm.email.Focus()
		return m, textinput.Blink
	}
	m.haveSubs = false
	// the load mutates request-tracking fields, so build the command
	// before m is copied into the return value
	cmd := tea.Batch(m.loadSubscriptions(m.email), m.loadActiveKeywords())
	return m, cmd
}

func (m *Model) loadSubscriptions(email string) tea.Cmd {
	key := query.Key("subs", email)
	id := m.cache.Next()
	m.pendingID = id
	m.loading = true
	m.err = nil

	client := m.client
	cache := m.cache
	return func() tea.Msg {
		subs, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) (models.UserSubscriptions, error) {
				return client.UserSubscriptions(ctx, email)
			})
		if err != nil {
			return fetchErrMsg{resultMsg{key, id}, err}
		}
		return userSubsMsg{resultMsg{key, id}, subs}
	}
}

func (m *Model) loadActiveKeywords() tea.Cmd {
	key := query.Key("activeKeywords")
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		keywords, err := query.FetchAs(context.Background(), cache, key,
			func(ctx context.Context) ([]string, error) {
				return client.ActiveKeywords(ctx)
			})
		if err != nil {
			return statusMsg("")
		}
		return keywordsMsg{resultMsg{key: key}, keywords}
	}
}

func (m *Model) doSubscribe(name, keyword string) tea.Cmd {
	req := models.SubscriptionRequest{Email: m.email, Name: name, Keyword: keyword}
	if req.Name == "" {
		req.Name = strings.SplitN(m.email, "@", 2)[0]
	}
	client := m.client
	return func() tea.Msg {
		return mutationDoneMsg{"subscribe", client.Subscribe(context.Background(), req)}
	}
}

func (m *Model) doUnsubscribe(keyword string) tea.Cmd {
	email := m.email
	client := m.client
	return func() tea.Msg {
		return mutationDoneMsg{"unsubscribe", client.Unsubscribe(context.Background(), email, keyword)}
	}
}

// handleMutationDone invalidates the affected queries and refetches.
// The cache is never written directly with a mutation result.
func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.subErr = msg.err
		return m, nil
	}
	m.subErr = nil
	m.cache.Invalidate(query.Key("subs", m.email), query.Key("activeKeywords"))

	status := "Subscribed"
	if msg.action == "unsubscribe" {
		status = "Unsubscribed"
	}
	m.statusMsg = status
	m.haveSubs = false
	cmd := tea.Batch(m.loadSubscriptions(m.email), m.loadActiveKeywords())
	return m, cmd
}

func (m Model) handleSubFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.subForm.stage = subStageBrowse
		m.subForm.email.Blur()
		m.subForm.name.Blur()
		m.subForm.keyword.Blur()
		return m, nil

	case "tab", "shift+tab":
		if m.subForm.stage == subStageAdd {
			m.subForm.focus = 1 - m.subForm.focus
			if m.subForm.focus == 0 {
				m.subForm.name.Focus()
				m.subForm.keyword.Blur()
			} else {
				m.subForm.name.Blur()
				m.subForm.keyword.Focus()
			}
			return m, textinput.Blink
		}

	case "enter":
		switch m.subForm.stage {
		case subStageEmail:
			email := strings.TrimSpace(m.subForm.email.Value())
			if email == "" {
				return m, nil
			}
			m.email = email
			m.subForm.stage = subStageBrowse
			m.subForm.email.Blur()
			m.haveSubs = false
			cmd := tea.Batch(m.loadSubscriptions(email), m.loadActiveKeywords())
			return m, cmd

		case subStageAdd:
			keyword := strings.TrimSpace(m.subForm.keyword.Value())
			if keyword == "" {
				return m, nil
			}
			name := strings.TrimSpace(m.subForm.name.Value())
			m.subForm.stage = subStageBrowse
			m.subForm.name.Blur()
			m.subForm.keyword.Blur()
			m.subForm.name.SetValue("")
			m.subForm.keyword.SetValue("")
			return m, m.doSubscribe(name, keyword)
		}
	}

	var cmd tea.Cmd
	switch m.subForm.stage {
	case subStageEmail:
		m.subForm.email, cmd = m.subForm.email.Update(msg)
	case subStageAdd:
		if m.subForm.focus == 0 {
			m.subForm.name, cmd = m.subForm.name.Update(msg)
		} else {
			m.subForm.keyword, cmd = m.subForm.keyword.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) handleSubsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.subForm.stage = subStageEmail
		m.subForm.email.SetValue(m.email)
		m.subForm.email.Focus()
		return m, textinput.Blink

	case "a":
		if m.email != "" {
			m.subForm.stage = subStageAdd
			m.subForm.focus = 1
			m.subForm.keyword.Focus()
			return m, textinput.Blink
		}

	case "d":
		if m.haveSubs && len(m.subs.Subscriptions) > 0 && m.subCursor < len(m.subs.Subscriptions) {
			return m, m.doUnsubscribe(m.subs.Subscriptions[m.subCursor].Keyword)
		}

	case "up", "k":
		if m.subCursor > 0 {
			m.subCursor--
		}
		return m, nil

	case "down", "j":
		if m.haveSubs && m.subCursor < len(m.subs.Subscriptions)-1 {
			m.subCursor++
		}
		return m, nil

	case "r":
		if m.email != "" {
			m.cache.Invalidate(query.Key("subs", m.email), query.Key("activeKeywords"))
			m.haveSubs = false
			cmd := tea.Batch(m.loadSubscriptions(m.email), m.loadActiveKeywords())
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) subsState() viewState {
	missing := m.email == ""
	return selectState(missing, m.loading, m.err, m.haveSubs && len(m.subs.Subscriptions) == 0)
}

func (m Model) renderSubscriptions() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("TrendStream — Keyword Subscriptions"))
	s.WriteString("\n")

	if m.subForm.stage == subStageEmail {
		s.WriteString(promptStyle.Render("Manage subscriptions by email"))
		s.WriteString("\n")
		s.WriteString(m.subForm.email.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("enter: look up • esc: cancel"))
		return s.String()
	}

	switch m.subsState() {
	case stateMissingParam:
		s.WriteString(promptStyle.Render("Enter an email to manage subscriptions"))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("press c to enter one"))
		s.WriteString("\n")

	case stateLoading:
		s.WriteString(helpStyle.Render("Loading…"))
		s.WriteString("\n")

	case stateError:
		// an unknown email reads as an invitation, not a failure
		s.WriteString(promptStyle.Render(fmt.Sprintf("No subscriptions found for %s", m.email)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("press a to subscribe to your first keyword"))
		s.WriteString("\n")

	case stateEmpty:
		s.WriteString(statusStyle.Render(m.subHeader()))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("No subscribed keywords yet. Press a to add one."))
		s.WriteString("\n")

	case statePopulated:
		s.WriteString(statusStyle.Render(m.subHeader()))
		s.WriteString("\n\n")
		for i, sub := range m.subs.Subscriptions {
			item := subscriptionItem{sub}
			cursor := "  "
			line := fmt.Sprintf("%s  %s", item.Title(), dimStyle.Render(item.Description()))
			if i == m.subCursor {
				cursor = pageActiveStyle.Render("> ")
			}
			s.WriteString(cursor + line + "\n")
		}
	}

	if m.subForm.stage == subStageAdd {
		s.WriteString("\n")
		s.WriteString(promptStyle.Render("Add a keyword subscription"))
		s.WriteString("\n")
		s.WriteString(m.subForm.name.View())
		s.WriteString("\n")
		s.WriteString(m.subForm.keyword.View())
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("tab: switch field • enter: subscribe • esc: cancel"))
		s.WriteString("\n")
	}

	if m.subErr != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + errorText(m.subErr)))
		s.WriteString("\n")
	}

	if len(m.activeKeywords) > 0 {
		s.WriteString("\n")
		s.WriteString(chipStyle.Render("active keywords: " + truncate(strings.Join(m.activeKeywords, ", "), 150)))
		s.WriteString("\n")
	}

	if bar := m.statusBar(); bar != "" && m.subsState() != stateError {
		s.WriteString(bar)
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("a: add • d: remove • c: change email • r: refresh • ?: help • q: quit"))
	return s.String()
}

func (m Model) subHeader() string {
	name := m.subs.Name
	if name == "" {
		name = m.email
	}
	return fmt.Sprintf("%s <%s> — %d keyword(s)", name, m.email, len(m.subs.Subscriptions))
}
