package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	//go:embed report.md.tmpl
	markdownTemplate string
	//go:embed page.html.tmpl
	pageTemplate string
)

//nolint:gochecknoglobals // parsed once, safe for concurrent use
var page = template.Must(template.New("page").Parse(pageTemplate))

// Markdown writes the report as a GitHub flavored Markdown document.
func (r Report) Markdown(w io.Writer) error {
	tmpl, err := texttemplate.New("report").Funcs(r.funcs()).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("parse markdown template: %w", err)
	}
	if err = tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("execute markdown template: %w", err)
	}
	return nil
}

// HTML writes the report as a standalone HTML page converted from the Markdown rendering.
func (r Report) HTML(w io.Writer) error {
	var md bytes.Buffer
	if err := r.Markdown(&md); err != nil {
		return err
	}
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	data := struct {
		Date string
		Body template.HTML
	}{
		Date: r.GeneratedAt.Format(time.DateOnly),
		Body: template.HTML(body.String()), //nolint:gosec // goldmark omits raw HTML from the source
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

func (r Report) funcs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"name": func(id string) string { return escapeCell(r.ExerciseName(id)) },
		"cell": escapeCell,
		"num":  formatNumber,
		"signed": func(v float64) string {
			if v > 0 {
				return "+" + formatNumber(v)
			}
			return formatNumber(v)
		},
		"signedInt": func(v int) string {
			if v > 0 {
				return "+" + strconv.Itoa(v)
			}
			return strconv.Itoa(v)
		},
		"date":     func(t time.Time) string { return t.Format(time.DateOnly) },
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"lastTrained": func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.Format("2006-01-02 15:04")
		},
		"join": func(ids []string) string { return escapeCell(strings.Join(ids, ", ")) },
	}
}

// formatNumber prints at most two decimals without trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64) //nolint:mnd // two decimals
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// escapeCell keeps text from breaking out of a Markdown table cell.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
