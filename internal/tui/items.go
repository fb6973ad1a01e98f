package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

type newsListItem struct {
	news models.NewsItem
	read bool
}

func (i newsListItem) Title() string {
	title := fmt.Sprintf("%s %s %s", typeBadge(i.news.Type), i.news.Title, aiBadges(i.news.AIResult))
	if i.read {
		return dimStyle.Render(title)
	}
	return title
}

func (i newsListItem) Description() string {
	desc := fmt.Sprintf("%s | %s", i.news.Source, i.news.PubDate.Format("Jan 2, 2006 15:04"))
	if len(i.news.Tags) > 0 {
		desc += " | " + strings.Join(i.news.Tags, ", ")
	}
	if i.read {
		return dimStyle.Render(desc)
	}
	return desc
}

func (i newsListItem) FilterValue() string {
	return i.news.Title
}

var _ list.Item = newsListItem{}

type subscriptionItem struct {
	sub models.Subscription
}

func (i subscriptionItem) Title() string {
	return i.sub.Keyword
}

func (i subscriptionItem) Description() string {
	desc := "subscribed " + i.sub.CreatedAt.Format("Jan 2, 2006")
	if i.sub.LastNotifiedAt != nil && !i.sub.LastNotifiedAt.IsZero() {
		desc += " | last notified " + i.sub.LastNotifiedAt.Format("Jan 2, 2006 15:04")
	}
	return desc
}

func (i subscriptionItem) FilterValue() string {
	return i.sub.Keyword
}

var _ list.Item = subscriptionItem{}
