package recap

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/randalmurphal/pulse/internal/util"
)

// HistoryLimit is how many daily snapshots the history file retains.
const HistoryLimit = 30

// sparkBlocks are the bar glyphs for trend sparklines, quietest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Snapshot captures one day's aggregate for trend rendering. Far smaller
// than the recap itself so thirty of them stay cheap to load.
type Snapshot struct {
	Date          string         `json:"date"`
	Total         int            `json:"total_activities"`
	Files         int            `json:"total_files"`
	Projects      map[string]int `json:"projects,omitempty"`
	Sources       map[string]int `json:"sources,omitempty"`
	Uncategorized int            `json:"uncategorized"`
}

// FromSummary reduces a summary to its snapshot.
func FromSummary(date string, sum *Summary) Snapshot {
	return Snapshot{
		Date:          date,
		Total:         sum.Total,
		Files:         sum.TotalFiles,
		Projects:      sum.ByProject,
		Sources:       sum.BySource,
		Uncategorized: len(sum.Uncategorized),
	}
}

// LoadHistory reads the snapshot log. A missing file is an empty history.
func LoadHistory(path string) ([]Snapshot, error) {
	var snaps []Snapshot
	if err := util.ReadJSONFile(path, &snaps); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return snaps, nil
}

// RecordSnapshot upserts the day's snapshot, trims the history to
// HistoryLimit newest days and saves it. Re-running a recap replaces that
// day's entry rather than duplicating it.
func RecordSnapshot(path string, s Snapshot) ([]Snapshot, error) {
	snaps, err := LoadHistory(path)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range snaps {
		if snaps[i].Date == s.Date {
			snaps[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		snaps = append(snaps, s)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Date < snaps[j].Date })
	if len(snaps) > HistoryLimit {
		snaps = snaps[len(snaps)-HistoryLimit:]
	}

	if err := util.WriteJSONFile(path, snaps); err != nil {
		return nil, fmt.Errorf("write snapshot history: %w", err)
	}
	return snaps, nil
}

// WeekTrend is the percent change of the last seven days' activity against
// the seven before, ending at today. Zero when there is no prior week to
// compare against.
func WeekTrend(snaps []Snapshot, today string) int {
	end, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0
	}
	totals := totalsByDate(snaps)

	var cur, prev int
	for i := 0; i < 7; i++ {
		cur += totals[end.AddDate(0, 0, -i).Format("2006-01-02")]
		prev += totals[end.AddDate(0, 0, -i-7).Format("2006-01-02")]
	}
	if prev == 0 {
		return 0
	}
	return int(math.Round(float64(cur-prev) / float64(prev) * 100))
}

// Sparkline renders the activity totals of the last days ending at today,
// one block glyph per day, scaled to the window's busiest day.
func Sparkline(snaps []Snapshot, today string, days int) string {
	end, err := time.Parse("2006-01-02", today)
	if err != nil || days <= 0 {
		return ""
	}
	totals := totalsByDate(snaps)

	values := make([]int, days)
	max := 0
	for i := 0; i < days; i++ {
		v := totals[end.AddDate(0, 0, i-days+1).Format("2006-01-02")]
		values[i] = v
		if v > max {
			max = v
		}
	}

	line := make([]rune, days)
	for i, v := range values {
		idx := 0
		if max > 0 {
			idx = v * (len(sparkBlocks) - 1) / max
		}
		line[i] = sparkBlocks[idx]
	}
	return string(line)
}

func totalsByDate(snaps []Snapshot) map[string]int {
	totals := make(map[string]int, len(snaps))
	for _, s := range snaps {
		totals[s.Date] = s.Total
	}
	return totals
}
