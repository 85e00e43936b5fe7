package domain

import (
	"sort"
	"strings"
	"time"

	storedomain "studysprint/internal/modules/store/domain"
)

const (
	sessionStreakGap = 2 * time.Hour
	rollingWindow    = 7 * 24 * time.Hour
)

// Metrics are the raw counters every badge is derived from.
type Metrics struct {
	Sessions            int  `json:"sessions"`
	PositiveReflections int  `json:"positive_reflections"`
	AnsweredReflections int  `json:"answered_reflections"`
	DayStreak           int  `json:"day_streak"`
	SessionStreak       int  `json:"session_streak"`
	MathSessions        int  `json:"math_sessions"`
	LanguageSessions    int  `json:"language_sessions"`
	DistinctTags        int  `json:"distinct_tags"`
	LastWeekSessions    int  `json:"last_week_sessions"`
	BreaksCompleted     int  `json:"breaks_completed"`
	CustomizedDurations bool `json:"customized_durations"`
	ThemeChanged        bool `json:"theme_changed"`
	ProfileSet          bool `json:"profile_set"`
}

// ComputeMetrics scans the snapshot once. Calendar days are taken in now's
// location.
func ComputeMetrics(snap storedomain.Snapshot, now time.Time) Metrics {
	m := Metrics{Sessions: len(snap.Sessions)}
	distinct := map[string]struct{}{}
	windowStart := now.Add(-rollingWindow)
	for _, session := range snap.Sessions {
		if session.ReflectionFocused != nil {
			m.AnsweredReflections++
			if *session.ReflectionFocused {
				m.PositiveReflections++
			}
		}
		if session.TagID != "" {
			distinct[session.TagID] = struct{}{}
		}
		if !session.StartedAt.Before(windowStart) {
			m.LastWeekSessions++
		}
		if session.BreakDurationSec > 0 {
			m.BreaksCompleted++
		}
		if tag, ok := snap.TagByID(session.TagID); ok {
			name := strings.ToLower(tag.Name)
			if strings.Contains(name, "math") {
				m.MathSessions++
			}
			if strings.Contains(name, "english") || strings.Contains(name, "language") {
				m.LanguageSessions++
			}
		}
	}
	m.DistinctTags = len(distinct)
	m.DayStreak = DayStreak(snap.Sessions, now.Location())
	m.SessionStreak = SessionStreak(snap.Sessions)
	m.CustomizedDurations = customizedDurations(snap)
	m.ThemeChanged = snap.Settings.Theme != "" && snap.Settings.Theme != storedomain.ThemeLight
	m.ProfileSet = snap.Profile.Name != "" && snap.Profile.Name != storedomain.DefaultProfileName
	return m
}

// DayStreak is the longest run of consecutive calendar days with at least one
// session.
func DayStreak(sessions []storedomain.StudySession, loc *time.Location) int {
	if len(sessions) == 0 {
		return 0
	}
	seen := make(map[time.Time]struct{}, len(sessions))
	days := make([]time.Time, 0, len(sessions))
	for _, session := range sessions {
		at := session.StartedAt.In(loc)
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// SessionStreak is the longest run of sessions each starting within two hours
// of the previous one.
func SessionStreak(sessions []storedomain.StudySession) int {
	if len(sessions) == 0 {
		return 0
	}
	starts := make([]time.Time, len(sessions))
	for i, session := range sessions {
		starts[i] = session.StartedAt
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	best, run := 1, 1
	for i := 1; i < len(starts); i++ {
		if starts[i].Sub(starts[i-1]) <= sessionStreakGap {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// customizedDurations treats zero settings as unset.
func customizedDurations(snap storedomain.Snapshot) bool {
	focus, brk := snap.Settings.DefaultFocusSec, snap.Settings.DefaultBreakSec
	if focus != 0 && focus != storedomain.DefaultFocusSec {
		return true
	}
	if brk != 0 && brk != storedomain.DefaultBreakSec {
		return true
	}
	for _, tag := range snap.Tags {
		if tag.HasDurationOverride() {
			return true
		}
	}
	return false
}
