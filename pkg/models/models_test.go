package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

func TestTimeUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      time.Time
		wantError bool
	}{
		{
			name:  "zone-less ISO 8601",
			input: `"2026-02-03T00:20:00"`,
			want:  time.Date(2026, 2, 3, 0, 20, 0, 0, time.UTC),
		},
		{
			name:  "RFC 3339",
			input: `"2026-02-03T00:20:00Z"`,
			want:  time.Date(2026, 2, 3, 0, 20, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: `"2026-02-03"`,
			want:  time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:      "garbage",
			input:     `"yesterday"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ts models.Time
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestNewsItemNullAIResult(t *testing.T) {
	t.Parallel()

	// aiResult null means "not yet analyzed" and must survive decoding
	payload := `{
		"id": 42,
		"title": "Go 1.26 released",
		"link": "https://example.com/go",
		"description": "release notes",
		"source": "Hacker News",
		"type": "NEWS",
		"pubDate": "2026-02-03T00:20:00",
		"tags": ["go", "release"],
		"aiResult": null
	}`

	var item models.NewsItem
	require.NoError(t, json.Unmarshal([]byte(payload), &item))

	assert.Equal(t, int64(42), item.ID)
	assert.Equal(t, models.TypeNews, item.Type)
	assert.Nil(t, item.AIResult)
	assert.Equal(t, []string{"go", "release"}, item.Tags)
}

func TestPageEnvelope(t *testing.T) {
	t.Parallel()

	payload := `{
		"content": [{"id": 1, "title": "a"}, {"id": 2, "title": "b"}],
		"totalElements": 12,
		"totalPages": 2,
		"number": 0,
		"size": 10,
		"first": true,
		"last": false,
		"empty": false
	}`

	var page models.Page[models.NewsItem]
	require.NoError(t, json.Unmarshal([]byte(payload), &page))

	assert.Len(t, page.Content, 2)
	assert.LessOrEqual(t, len(page.Content), page.Size)
	assert.GreaterOrEqual(t, page.Number, 0)
	assert.Less(t, page.Number, page.TotalPages)
	assert.Equal(t, int64(12), page.TotalElements)
}

func TestSubscriptionOptionalLastNotified(t *testing.T) {
	t.Parallel()

	payload := `{
		"email": "user@example.com",
		"name": "User",
		"notificationEnabled": true,
		"subscriptions": [
			{"id": 1, "keyword": "ai", "createdAt": "2026-01-01T09:00:00", "lastNotifiedAt": null},
			{"id": 2, "keyword": "go", "createdAt": "2026-01-02T09:00:00", "lastNotifiedAt": "2026-01-03T10:00:00"}
		]
	}`

	var subs models.UserSubscriptions
	require.NoError(t, json.Unmarshal([]byte(payload), &subs))

	require.Len(t, subs.Subscriptions, 2)
	assert.Nil(t, subs.Subscriptions[0].LastNotifiedAt)
	require.NotNil(t, subs.Subscriptions[1].LastNotifiedAt)
	assert.Equal(t, 2026, subs.Subscriptions[1].LastNotifiedAt.Year())
}
