package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownConvertsHTML(t *testing.T) {
	t.Parallel()

	out := Markdown("<p>hello <strong>world</strong></p>")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "**world**")
}

func TestMarkdownPlainTextPassesThrough(t *testing.T) {
	t.Parallel()

	out := Markdown("just a plain sentence")
	assert.Contains(t, out, "just a plain sentence")
}

func TestTerminalFallsBackToInput(t *testing.T) {
	t.Parallel()

	// whatever the terminal profile, the text itself must survive
	out := Terminal("some **bold** text", 40)
	assert.Contains(t, out, "bold")
}

func TestDescriptionPipeline(t *testing.T) {
	t.Parallel()

	out := Description("<p>breaking news</p>", 40)
	assert.Contains(t, out, "breaking news")
}
