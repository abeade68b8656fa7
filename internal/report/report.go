// Package report renders recaps into shareable text, Markdown, and HTML
// documents. The recap package owns the numbers; this package only lays
// them out.
package report

import (
	"time"

	"github.com/randalmurphal/pulse/internal/recap"
)

// View keys understood by the dashboard switcher.
const (
	ViewToday = "today"
	ViewWeek  = "week"
	ViewMonth = "month"
)

// ViewHours maps each dashboard view to its lookback window.
var ViewHours = map[string]int{
	ViewToday: 24,
	ViewWeek:  168,
	ViewMonth: 720,
}

var viewLabels = map[string]string{
	ViewToday: "Today",
	ViewWeek:  "This Week",
	ViewMonth: "This Month",
}

// viewOrder fixes tab order; maps would shuffle it.
var viewOrder = []string{ViewToday, ViewWeek, ViewMonth}

// View is one time window of the dashboard.
type View struct {
	Label string       `json:"label"`
	Hours int          `json:"hours"`
	Recap *recap.Recap `json:"recap"`
}

// Trend summarizes recent snapshot history for the dashboard footer.
type Trend struct {
	WeekChangePct int    `json:"week_change_pct"`
	Sparkline     string `json:"sparkline"`
	DaysTracked   int    `json:"days_tracked"`
}

// Dashboard is the document embedded into the HTML report.
type Dashboard struct {
	GeneratedAt time.Time        `json:"generated_at"`
	DefaultView string           `json:"default_view"`
	Views       map[string]*View `json:"views"`
	Trend       *Trend           `json:"trend,omitempty"`
}

// NewDashboard assembles the given recaps, keyed by view name. The default
// view is the shortest window present.
func NewDashboard(recaps map[string]*recap.Recap, trend *Trend, now time.Time) *Dashboard {
	d := &Dashboard{
		GeneratedAt: now.UTC(),
		Views:       make(map[string]*View, len(recaps)),
		Trend:       trend,
	}
	for _, key := range viewOrder {
		r := recaps[key]
		if r == nil {
			continue
		}
		d.Views[key] = &View{Label: viewLabels[key], Hours: ViewHours[key], Recap: r}
		if d.DefaultView == "" {
			d.DefaultView = key
		}
	}
	return d
}

// TrendFromHistory derives the dashboard trend from saved snapshots.
func TrendFromHistory(snaps []recap.Snapshot, today string) *Trend {
	if len(snaps) == 0 {
		return nil
	}
	return &Trend{
		WeekChangePct: recap.WeekTrend(snaps, today),
		Sparkline:     recap.Sparkline(snaps, today, 7),
		DaysTracked:   len(snaps),
	}
}
