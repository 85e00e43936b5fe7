package domain

import (
	"math"
	"time"

	storedomain "studysprint/internal/modules/store/domain"
)

const (
	NoTagName  = "No tag"
	DayLayout  = "2006-01-02"
	WindowDays = 7
)

// SessionRow is one session flattened for projection. Day is the calendar
// date in the caller's location; TagKey is empty when the tag is gone.
type SessionRow struct {
	ID         string
	TagKey     string
	TagName    string
	Day        string
	StartedAt  time.Time
	FocusSec   int
	BreakSec   int
	Reflection *bool
}

type DayCount struct {
	Day   string `json:"day"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TagCount struct {
	TagID        string `json:"tag_id,omitempty"`
	Name         string `json:"name"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focus_minutes"`
}

// Aggregates are the grouped numbers a projection returns.
type Aggregates struct {
	Total        int
	FocusSeconds int
	Positive     int
	Answered     int
	Daily        map[string]int
	Tags         []TagCount
}

type Summary struct {
	TotalSessions int        `json:"total_sessions"`
	FocusMinutes  int        `json:"focus_minutes"`
	FocusRate     int        `json:"focus_rate"`
	LastSevenDays []DayCount `json:"last_seven_days"`
	Tags          []TagCount `json:"tags"`
}

// Rows flattens the snapshot. A non-empty tagID keeps only that tag's
// sessions. Sessions whose tag no longer resolves land in the No tag bucket.
func Rows(snap storedomain.Snapshot, loc *time.Location, tagID string) []SessionRow {
	rows := make([]SessionRow, 0, len(snap.Sessions))
	for _, session := range snap.Sessions {
		if tagID != "" && session.TagID != tagID {
			continue
		}
		row := SessionRow{
			ID:         session.ID,
			TagName:    NoTagName,
			Day:        session.StartedAt.In(loc).Format(DayLayout),
			StartedAt:  session.StartedAt,
			FocusSec:   session.FocusDurationSec,
			BreakSec:   session.BreakDurationSec,
			Reflection: session.ReflectionFocused,
		}
		if tag, ok := snap.TagByID(session.TagID); ok {
			row.TagKey = tag.ID
			row.TagName = tag.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// WindowStart is the first calendar day of the seven-day chart ending today.
func WindowStart(now time.Time) string {
	return startOfDay(now).AddDate(0, 0, -(WindowDays - 1)).Format(DayLayout)
}

// LastSevenDays lays daily counts out oldest first, today last, with zero
// for days without sessions.
func LastSevenDays(now time.Time, daily map[string]int) []DayCount {
	today := startOfDay(now)
	out := make([]DayCount, 0, WindowDays)
	for offset := WindowDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		key := day.Format(DayLayout)
		out = append(out, DayCount{Day: key, Label: day.Format("Mon")[:2], Count: daily[key]})
	}
	return out
}

// FocusRate is the rounded share of answered reflections that were positive,
// as a percentage. No answers means 0.
func FocusRate(positive, answered int) int {
	if answered <= 0 {
		return 0
	}
	return int(math.Round(float64(positive) / float64(answered) * 100))
}

func Summarize(agg Aggregates, now time.Time) Summary {
	tags := agg.Tags
	if tags == nil {
		tags = []TagCount{}
	}
	return Summary{
		TotalSessions: agg.Total,
		FocusMinutes:  agg.FocusSeconds / 60,
		FocusRate:     FocusRate(agg.Positive, agg.Answered),
		LastSevenDays: LastSevenDays(now, agg.Daily),
		Tags:          tags,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
