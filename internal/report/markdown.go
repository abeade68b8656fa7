package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/randalmurphal/pulse/internal/recap"
)

// markdownProjectLimit caps the project table, as the weekly report does.
const markdownProjectLimit = 10

const markdownTemplate = `# Daily Activity Report

**{{.R.Date}}**

## Summary

- **{{.R.TotalActivities}}** total activities
- **{{.R.TotalFiles}}** files touched
- **{{len .R.Projects}}** projects touched
{{- if gt .R.Claude.Sessions 0}}
- **{{.R.Claude.Sessions}}** Claude Code sessions
{{- end}}
{{- if .R.Team}}

## Team Distribution

{{- range $team, $pct := .R.Team}}
- **{{$team}}**: {{$pct}}%
{{- end}}
{{- end}}
{{- if .Projects}}

## Project Activity

| Project | Activities | Files |
|---------|------------|-------|
{{- range .Projects}}
| {{.Name}} | {{.Activities}} | {{.Files}} |
{{- end}}
{{- end}}
{{- if .R.TopThemes}}

## Top Themes

{{- range .R.TopThemes}}
- **{{themeName .}}** ({{.Project}}): {{.Count}} activities
{{- end}}
{{- end}}
{{- if and .R.Daily .R.Daily.Wins}}

## Wins

{{- range .R.Daily.Wins}}
- {{.}}
{{- end}}
{{- end}}
{{- if and .R.Daily .R.Daily.Blockers}}

## Blockers

{{- range .R.Daily.Blockers}}
- {{.}}
{{- end}}
{{- end}}
{{- if .R.Sources}}

## Activity Sources

{{- range $source, $count := .R.Sources}}
- **{{title $source}}**: {{$count}}
{{- end}}
{{- end}}
{{- if .R.UncategorizedWarning}}

> **Warning:** {{.R.Uncategorized}} of {{.R.TotalActivities}} activities could
> not be matched to a project. Add folder paths or aliases to the registry.
{{- end}}

---
*Generated by pulse on {{.GeneratedAt.Format "2006-01-02 15:04"}}*
`

var markdownTmpl = template.Must(template.New("markdown").Funcs(template.FuncMap{
	"title": titleWord,
	"themeName": func(t recap.ThemeCount) string {
		if t.ThemeName != "" {
			return t.ThemeName
		}
		return t.ThemeID
	},
}).Parse(markdownTemplate))

// Markdown renders a recap as a shareable Markdown document.
func Markdown(r *recap.Recap, now time.Time) (string, error) {
	projects := r.Projects
	if len(projects) > markdownProjectLimit {
		projects = projects[:markdownProjectLimit]
	}

	data := struct {
		R           *recap.Recap
		Projects    []recap.ProjectRecap
		GeneratedAt time.Time
	}{r, projects, now}

	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render markdown report: %w", err)
	}
	return buf.String(), nil
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
