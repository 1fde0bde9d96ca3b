package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts README markdown to a standalone HTML preview page
type Renderer struct {
	md     goldmark.Markdown
	logger arbor.ILogger
}

// NewRenderer creates an HTML preview renderer with GitHub Flavored
// Markdown extensions
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
		logger: logger,
	}
}

// Render converts markdown to a complete HTML document. Conversion
// failures fall back to the escaped source in a pre block so the preview
// always returns a page.
func (r *Renderer) Render(title, markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		r.logger.Warn().Err(err).Int("input_len", len(markdown)).Msg("Markdown conversion failed, serving escaped source")
		return wrapPage(title, "<pre>"+escapeHTML(markdown)+"</pre>")
	}
	return wrapPage(title, buf.String())
}

func wrapPage(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 880px; margin: 0 auto; padding: 2rem; color: #1f2328; line-height: 1.6; }
pre { background: #f6f8fa; padding: 1rem; border-radius: 6px; overflow-x: auto; }
code { background: #f6f8fa; padding: 0.15em 0.35em; border-radius: 4px; font-size: 0.9em; }
pre code { background: none; padding: 0; }
img { max-width: 100%%; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d1d9e0; padding: 0.4em 0.8em; }
blockquote { border-left: 4px solid #d1d9e0; margin-left: 0; padding-left: 1em; color: #59636e; }
</style>
</head>
<body>
%s
</body>
</html>
`, escapeHTML(title), body)
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}
