package tui

import (
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

// initMsg triggers the first page load after program start.
type initMsg struct{}

// resultMsg identifies which fetch a message answers. Controllers
// compare id against the most recently issued request and drop
// anything older, so a slow response for a superseded query never
// renders (fast pagination clicks, rapid search edits).
type resultMsg struct {
	key string
	id  uint64
}

type newsPageMsg struct {
	resultMsg
	page models.Page[models.NewsItem]
}

type newsItemMsg struct {
	resultMsg
	item models.NewsItem
}

type trendsMsg struct {
	resultMsg
	period  string
	entries []models.TrendEntry
}

type dashboardMsg struct {
	resultMsg
	dashboard models.Dashboard
}

type userSubsMsg struct {
	resultMsg
	subs models.UserSubscriptions
}

type keywordsMsg struct {
	resultMsg
	keywords []string
}

// namesMsg carries the category/source pick lists.
type namesMsg struct {
	resultMsg
	op    string
	names []string
}

type fetchErrMsg struct {
	resultMsg
	err error
}

// mutationDoneMsg reports a subscribe/unsubscribe outcome. Errors
// render near the subscription form, not globally.
type mutationDoneMsg struct {
	action string
	err    error
}

type readIDsMsg struct {
	ids map[int64]struct{}
}

type statusMsg string

// dashTickMsg drives the stats auto-refresh. gen identifies the tick
// chain that sent it; ticks from superseded chains are dropped so
// re-entering the stats view never stacks refresh loops.
type dashTickMsg struct {
	gen int
}
