package models

import (
	"fmt"
	"strings"
	"time"
)

type NewsType string

const (
	TypeNews      NewsType = "NEWS"
	TypeBlog      NewsType = "BLOG"
	TypeCommunity NewsType = "COMMUNITY"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// Time decodes the backend's zone-less ISO 8601 timestamps
// (e.g. "2026-02-03T00:20:00") as well as RFC 3339.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parsing timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

type NewsItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Type        NewsType  `json:"type"`
	PubDate     Time      `json:"pubDate"`
	Tags        []string  `json:"tags"`
	AIResult    *AIResult `json:"aiResult"`
}

// AIResult is nil on a NewsItem until the backend's asynchronous
// analysis completes.
type AIResult struct {
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Keywords  []string  `json:"keywords"`
	Score     int       `json:"score"`
}

// Page is the server's paginated result envelope. Number is the
// 0-based index of the current page.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

type RelatedNews struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type TrendEntry struct {
	Keyword     string        `json:"keyword"`
	Count       int64         `json:"count"`
	RelatedNews []RelatedNews `json:"relatedNews"`
}

type SourceStat struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type HourlyStat struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type DailyStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Dashboard struct {
	TotalToday  int64        `json:"totalToday"`
	TotalWeek   int64        `json:"totalWeek"`
	SourceStats []SourceStat `json:"sourceStats"`
	HourlyStats []HourlyStat `json:"hourlyStats"`
	DailyStats  []DailyStat  `json:"dailyStats"`
}

type Subscription struct {
	ID             int64  `json:"id"`
	Keyword        string `json:"keyword"`
	CreatedAt      Time   `json:"createdAt"`
	LastNotifiedAt *Time  `json:"lastNotifiedAt"`
}

type UserSubscriptions struct {
	Email               string         `json:"email"`
	Name                string         `json:"name"`
	NotificationEnabled bool           `json:"notificationEnabled"`
	Subscriptions       []Subscription `json:"subscriptions"`
}

type SubscriptionRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}
