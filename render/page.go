package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sync"
)

// Page is the template data for the dashboard.
type Page struct {
	Title       string
	GeneratedAt string
	Source      string
	LoadID      string
	Issues      int

	// Nil regions are not rendered.
	Summary *SummaryView
	Charts  *ChartSet
	Themes  []ThemeBlock
	Table   bool

	// Error replaces the whole dashboard body when set.
	Error string
}

// DefaultTitle heads the dashboard when a page sets no title.
const DefaultTitle = "HeadwayHQ Signals"

var (
	pageTmplOnce sync.Once
	pageTmpl     *template.Template
)

// PageTemplate returns the parsed dashboard template, named "dashboard".
func PageTemplate() *template.Template {
	pageTmplOnce.Do(func() {
		pageTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
			"json": func(v any) template.JS {
				b, _ := json.Marshal(v)
				return template.JS(b) //nolint:gosec // marshaled JSON, not user markup
			},
		}).Parse(pageTemplateText))
	})
	return pageTmpl
}

// WritePage renders the dashboard page to w.
func WritePage(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if err := PageTemplate().Execute(w, p); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}
