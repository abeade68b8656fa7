package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/randalmurphal/pulse/templates"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(templates.DashboardHTML))

// HTML renders the dashboard page with the recap JSON embedded in a script
// tag, producing a single file viewable over file://.
func HTML(d *Dashboard) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal dashboard data: %w", err)
	}

	// json.Marshal escapes <, > and & by default, so the payload cannot
	// break out of the script element.
	data := struct{ Data template.JS }{template.JS(raw)}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}
