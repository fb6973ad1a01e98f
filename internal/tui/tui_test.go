package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelonSeo/trendstream-tui/internal/api"
	"github.com/MelonSeo/trendstream-tui/internal/config"
	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

func testModel(t *testing.T) Model {
	t.Helper()

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: "http://localhost:1", Timeout: "1s"},
		UI:  config.UIConfig{PageSize: 10, TrendLimit: 10, DashboardRefresh: "60s"},
	}
	client, err := api.NewClient(cfg.API.BaseURL, time.Second, zerolog.Nop())
	require.NoError(t, err)
	cache := query.New(time.Minute, nil, zerolog.Nop())

	return New(cfg, client, cache, nil, zerolog.Nop())
}

func TestSelectState(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name         string
		missingParam bool
		loading      bool
		err          error
		empty        bool
		want         viewState
	}{
		{name: "missing parameter wins over everything", missingParam: true, loading: true, err: errBoom, want: stateMissingParam},
		{name: "loading", loading: true, want: stateLoading},
		{name: "loading wins over stale error", loading: true, err: errBoom, want: stateLoading},
		{name: "error", err: errBoom, want: stateError},
		{name: "empty success", empty: true, want: stateEmpty},
		{name: "populated success", want: statePopulated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := selectState(tt.missingParam, tt.loading, tt.err, tt.empty)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierForScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  scoreTier
	}{
		{score: 0, want: tierLow},
		{score: 39, want: tierLow},
		{score: 40, want: tierMid},
		{score: 59, want: tierMid},
		{score: 60, want: tierHigh},
		{score: 79, want: tierHigh},
		{score: 80, want: tierHot},
		{score: 100, want: tierHot},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tierForScore(tt.score), "score %d", tt.score)
	}
}

func TestAIBadgesPlaceholderForNilResult(t *testing.T) {
	t.Parallel()

	got := aiBadges(nil)
	assert.Contains(t, got, analyzingPlaceholder)
	assert.NotContains(t, got, "POSITIVE")
	assert.NotContains(t, got, "HOT")

	withResult := aiBadges(&models.AIResult{Sentiment: models.SentimentPositive, Score: 85})
	assert.Contains(t, withResult, "POSITIVE")
	assert.Contains(t, withResult, "HOT")
	assert.NotContains(t, withResult, analyzingPlaceholder)
}

func TestSearchWithoutKeywordIssuesNoRequest(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	next, _ := m.switchNewsRoute(opSearch)
	m = next.(Model)

	assert.Equal(t, stateMissingParam, m.newsState())
	assert.False(t, m.loading, "prompt state must not start a fetch")
	assert.Empty(t, m.activeKey, "no fetch in flight")
	assert.True(t, m.editingTerm)
}

func TestBlankTermStaysInPrompt(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	next, _ := m.switchNewsRoute(opSearch)
	m = next.(Model)

	next, cmd := m.handleTermInput(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, stateMissingParam, m.newsState())
	assert.Empty(t, m.activeKey)
	assert.False(t, m.loading)
}

func TestLatestRouteIssuesRequest(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	next, cmd := m.switchNewsRoute(opLatest)
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.NotZero(t, m.pendingID)
	assert.Equal(t, stateLoading, m.newsState())
}

func TestOutOfOrderResponsesAreDiscarded(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.view = ViewNews
	m.op = opSearch
	m.term = "ab"
	// the "ab" query is the latest issue; the superseded "a" query got
	// an earlier id
	m.pendingID = 2
	m.loading = true

	stale := models.Page[models.NewsItem]{
		Content:    []models.NewsItem{{ID: 1, Title: "result for a"}},
		TotalPages: 1, Size: 10,
	}
	next, _ := m.Update(newsPageMsg{resultMsg{key: "search|a|0|10", id: 1}, stale})
	m = next.(Model)

	assert.False(t, m.haveNews, "a late response for a superseded query must not render")
	assert.True(t, m.loading)

	current := models.Page[models.NewsItem]{
		Content:    []models.NewsItem{{ID: 2, Title: "result for ab"}},
		TotalPages: 1, Size: 10,
	}
	next, _ = m.Update(newsPageMsg{resultMsg{key: "search|ab|0|10", id: 2}, current})
	m = next.(Model)

	require.True(t, m.haveNews)
	assert.False(t, m.loading)
	require.Len(t, m.newsPage.Content, 1)
	assert.Equal(t, "result for ab", m.newsPage.Content[0].Title)
}

func TestStaleErrorsAreDiscardedToo(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.pendingID = 5
	m.loading = true

	next, _ := m.Update(fetchErrMsg{resultMsg{key: "news|0|10", id: 3}, errors.New("old failure")})
	m = next.(Model)

	assert.NoError(t, m.err)
	assert.True(t, m.loading)
}

func TestEmptySuccessState(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.op = opSearch
	m.term = "zebra"
	m.pendingID = 1

	next, _ := m.Update(newsPageMsg{
		resultMsg{key: "search|zebra|0|10", id: 1},
		models.Page[models.NewsItem]{Content: nil, TotalPages: 0, Size: 10},
	})
	m = next.(Model)

	assert.Equal(t, stateEmpty, m.newsState())
}

func TestErrorTextFallback(t *testing.T) {
	t.Parallel()

	assert.Contains(t, errorText(nil), "Something went wrong")
	assert.Equal(t, "boom", errorText(errors.New("boom")))
}

func TestMutationInvalidatesAndRefetches(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.email = "user@example.com"

	// seed the cache entries a mutation must invalidate
	subsKey := query.Key("subs", m.email)
	kwKey := query.Key("activeKeywords")
	_, err := query.FetchAs(context.Background(), m.cache, subsKey, func(context.Context) (models.UserSubscriptions, error) {
		return models.UserSubscriptions{Email: m.email}, nil
	})
	require.NoError(t, err)
	_, err = query.FetchAs(context.Background(), m.cache, kwKey, func(context.Context) ([]string, error) {
		return []string{"ai"}, nil
	})
	require.NoError(t, err)

	next, cmd := m.handleMutationDone(mutationDoneMsg{action: "subscribe"})
	m = next.(Model)

	assert.NotNil(t, cmd, "a successful mutation refetches the affected queries")
	_, ok, _ := m.cache.Lookup(subsKey)
	assert.False(t, ok, "subscription query invalidated")
	_, ok, _ = m.cache.Lookup(kwKey)
	assert.False(t, ok, "active keywords query invalidated")
	assert.Equal(t, "Subscribed", m.statusMsg)
}

func TestMutationErrorRendersLocally(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.email = "user@example.com"

	next, cmd := m.handleMutationDone(mutationDoneMsg{action: "subscribe", err: errors.New("already subscribed")})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Error(t, m.subErr)
	assert.NoError(t, m.err, "mutation failures stay near the form, not global")
}

func TestRouteSwitchAbandonsInFlightDetail(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	cmd := m.loadNewsItem(7)
	require.NotNil(t, cmd)
	staleID := m.pendingID

	// the search prompt issues no request, but must still retire the
	// pending one
	next, _ := m.switchNewsRoute(opSearch)
	m = next.(Model)
	assert.NotEqual(t, staleID, m.pendingID)

	next, _ = m.Update(newsItemMsg{
		resultMsg{key: "newsItem|7", id: staleID},
		models.NewsItem{ID: 7, Title: "late arrival"},
	})
	m = next.(Model)

	assert.Equal(t, ViewNews, m.view, "a result for an abandoned request must not change the view")
	assert.Nil(t, m.detail)
	assert.True(t, m.editingTerm, "the prompt stays up")
}

func TestEscapingPromptAbandonsInFlightRequest(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	cmd := m.loadNewsItem(9)
	require.NotNil(t, cmd)
	staleID := m.pendingID

	next, _ := m.switchNewsRoute(opSearch)
	m = next.(Model)
	next, _ = m.handleTermInput(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.NotEqual(t, staleID, m.pendingID)
	assert.False(t, m.loading)
}

func TestEmailPromptAbandonsInFlightRequest(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	cmd := m.loadNewsItem(11)
	require.NotNil(t, cmd)
	staleID := m.pendingID

	next, _ := m.enterSubscriptions()
	m = next.(Model)
	require.Equal(t, subStageEmail, m.subForm.stage)

	next, _ = m.Update(newsItemMsg{
		resultMsg{key: "newsItem|11", id: staleID},
		models.NewsItem{ID: 11, Title: "late arrival"},
	})
	m = next.(Model)

	assert.Equal(t, ViewSubscriptions, m.view, "the email prompt stays up")
	assert.Nil(t, m.detail)
}

func TestRepeatedStatsEntriesDropStaleTickChains(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	next, _ := m.enterStats()
	m = next.(Model)
	firstGen := m.tickGen

	// entering again supersedes the first chain
	next, _ = m.enterStats()
	m = next.(Model)
	require.NotEqual(t, firstGen, m.tickGen)

	next, cmd := m.Update(dashTickMsg{gen: firstGen})
	m = next.(Model)
	assert.Nil(t, cmd, "a tick from a superseded chain must not refetch or re-arm")

	next, cmd = m.Update(dashTickMsg{gen: m.tickGen})
	_ = next
	assert.NotNil(t, cmd, "the live chain keeps refreshing")
}

func TestTrendsOpenReportsBrowserFailure(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.view = ViewTrends
	m.trends = []models.TrendEntry{{
		Keyword:     "ai",
		Count:       3,
		RelatedNews: []models.RelatedNews{{Title: "x", Link: ""}},
	}}

	_, cmd := m.handleTrendsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg("Could not open browser"), cmd())
}

func TestRefreshKeepsListVisible(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.pendingID = 1
	next, _ := m.Update(newsPageMsg{
		resultMsg{key: "news||0|10", id: 1},
		models.Page[models.NewsItem]{
			Content:    []models.NewsItem{{ID: 1, Title: "still here"}},
			TotalPages: 1, Size: 10, TotalElements: 1,
		},
	})
	m = next.(Model)
	require.Equal(t, statePopulated, m.newsState())

	next, cmd := m.handleNewsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, statePopulated, m.newsState(), "data on screen stays visible while the refetch runs")
	assert.Equal(t, "still here", m.newsPage.Content[0].Title)
}

func TestRouteEntryRendersCachedPage(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	key := query.Key("news", "", 0, 10)
	_, err := query.FetchAs(context.Background(), m.cache, key, func(context.Context) (models.Page[models.NewsItem], error) {
		return models.Page[models.NewsItem]{
			Content:    []models.NewsItem{{ID: 5, Title: "cached"}},
			TotalPages: 1, Size: 10, TotalElements: 1,
		}, nil
	})
	require.NoError(t, err)

	next, _ := m.switchNewsRoute(opLatest)
	m = next.(Model)

	assert.True(t, m.haveNews, "cached data renders immediately while revalidation runs")
	assert.Equal(t, statePopulated, m.newsState())
	assert.Equal(t, "cached", m.newsPage.Content[0].Title)
}
