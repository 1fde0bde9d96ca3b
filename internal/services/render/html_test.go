package render

import (
	"strings"
	"testing"

	"github.com/ternarybob/scribo/internal/common"
)

func TestRenderProducesCompletePage(t *testing.T) {
	renderer := NewRenderer(common.GetLogger())

	page := renderer.Render("widget-tracker", "# widget-tracker\n\nA **dashboard** for widgets.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")

	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("missing document preamble")
	}
	if !strings.Contains(page, "<title>widget-tracker</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(page, "<h1") {
		t.Error("heading not converted")
	}
	if !strings.Contains(page, "<strong>dashboard</strong>") {
		t.Error("bold not converted")
	}
	if !strings.Contains(page, "<table>") {
		t.Error("GFM table not converted")
	}
}

func TestRenderEscapesTitle(t *testing.T) {
	renderer := NewRenderer(common.GetLogger())
	page := renderer.Render("<script>x</script>", "body")
	if strings.Contains(page, "<script>") {
		t.Error("title not escaped")
	}
}
