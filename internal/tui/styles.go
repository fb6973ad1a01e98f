package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			MarginTop(1).
			MarginBottom(1)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86")).
				MarginBottom(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	pageActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("63"))

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)

// scoreTier buckets an importance score the way the product's score
// badge does: hot (>=80), high (>=60), mid (>=40), low.
type scoreTier int

const (
	tierLow scoreTier = iota
	tierMid
	tierHigh
	tierHot
)

func tierForScore(score int) scoreTier {
	switch {
	case score >= 80:
		return tierHot
	case score >= 60:
		return tierHigh
	case score >= 40:
		return tierMid
	default:
		return tierLow
	}
}

var scoreStyles = map[scoreTier]lipgloss.Style{
	tierHot:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("196")),
	tierHigh: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("208")),
	tierMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
	tierLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func scoreBadge(score int) string {
	tier := tierForScore(score)
	label := fmt.Sprintf(" %d ", score)
	if tier == tierHot {
		label = " HOT "
	}
	return scoreStyles[tier].Render(label)
}

var sentimentStyles = map[models.Sentiment]lipgloss.Style{
	models.SentimentPositive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	models.SentimentNegative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	models.SentimentNeutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func sentimentBadge(s models.Sentiment) string {
	style, ok := sentimentStyles[s]
	if !ok {
		style = sentimentStyles[models.SentimentNeutral]
	}
	return style.Render(string(s))
}

var typeLabels = map[models.NewsType]string{
	models.TypeNews:      "NEWS",
	models.TypeBlog:      "BLOG",
	models.TypeCommunity: "COMM",
}

func typeBadge(t models.NewsType) string {
	label, ok := typeLabels[t]
	if !ok {
		label = string(t)
	}
	return chipStyle.Render("[" + label + "]")
}

// analyzingPlaceholder renders instead of sentiment/score badges while
// aiResult is still null.
const analyzingPlaceholder = "analyzing…"

// aiBadges returns the badge strip for an item, or the placeholder
// when analysis has not completed yet.
func aiBadges(ai *models.AIResult) string {
	if ai == nil {
		return dimStyle.Render(analyzingPlaceholder)
	}
	return sentimentBadge(ai.Sentiment) + " " + scoreBadge(ai.Score)
}

// bar renders a proportional bar of at most width cells.
func bar(count, max int64, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	n := int(count * int64(width) / max)
	if n == 0 && count > 0 {
		n = 1
	}
	return barStyle.Render(strings.Repeat("█", n))
}
