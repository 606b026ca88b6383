// Package renderer turns the budget engine's aggregates into markdown
// reports. View models are built first, then rendered through embedded
// text/template partials, so the report layout lives in .md files next to
// the code.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// LineRenderOptions holds configuration for rendering a reconciliation line
// report.
type LineRenderOptions struct {
	SkipTransactions bool // Render envelope balances only, without the per-transaction detail.
}

// RenderBook renders the BookReport struct to a markdown string.
func RenderBook(r *BookReport) string {
	partials := map[string]string{
		"book_title":     "book_title.md",
		"book_envelopes": "book_envelopes.md",
		"book_history":   "book_history.md",
		"book_tasks":     "book_tasks.md",
	}
	return renderTemplate("book", "book.md", partials, r)
}

// RenderLine renders the LineReport struct to a markdown string.
func RenderLine(r *LineReport, opts LineRenderOptions) string {
	partials := map[string]string{
		"line_title":       "line_title.md",
		"line_balances":    "line_balances.md",
		"line_adjustments": "line_adjustments.md",
		"line_summary":     "line_summary.md",
	}

	// Conditionally select the envelope view template.
	if opts.SkipTransactions {
		partials["entries_view"] = "line_entries_compact.md"
	} else {
		partials["entries_view"] = "line_entries.md"
	}

	return renderTemplate("line", "line.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends
// on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
