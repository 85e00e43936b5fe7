package domain

import (
	"testing"
	"time"

	storedomain "studysprint/internal/modules/store/domain"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func defaultSnapshot() storedomain.Snapshot {
	return storedomain.Snapshot{
		Settings: storedomain.DefaultSettings(),
		Profile:  storedomain.DefaultProfile(),
	}
}

func sessionAt(at time.Time, tagID string) storedomain.StudySession {
	return storedomain.StudySession{ID: at.String(), TagID: tagID, StartedAt: at, FocusDurationSec: 1500, BreakDurationSec: 300}
}

func byID(progress []Progress) map[ID]Progress {
	out := make(map[ID]Progress, len(progress))
	for _, p := range progress {
		out[p.ID] = p
	}
	return out
}

func TestCatalogIsClosedAndOrdered(t *testing.T) {
	t.Parallel()
	defs := Catalog()
	if len(defs) != 15 {
		t.Fatalf("expected 15 badges, got %d", len(defs))
	}
	if defs[0].ID != FirstSession || defs[14].ID != HundredSessions {
		t.Fatalf("unexpected catalog order %s .. %s", defs[0].ID, defs[14].ID)
	}
	seen := map[ID]bool{}
	for _, def := range defs {
		if def.Target < 1 || def.Title == "" || def.Icon == "" || seen[def.ID] {
			t.Fatalf("invalid catalog entry %+v", def)
		}
		seen[def.ID] = true
	}
	if def, ok := Lookup(BreakMaster); !ok || def.Target != 10 {
		t.Fatalf("lookup breakMaster failed")
	}
}

func TestEmptySnapshotEvaluatesToZero(t *testing.T) {
	t.Parallel()
	for _, snap := range []storedomain.Snapshot{defaultSnapshot(), {}} {
		progress := Evaluate(snap, base)
		if len(progress) != 15 {
			t.Fatalf("expected 15 results, got %d", len(progress))
		}
		for _, p := range progress {
			if p.Current != 0 || p.Value != 0 || p.Unlocked || p.UnlockedAt != nil {
				t.Fatalf("expected %s to be zero and locked, got %+v", p.ID, p)
			}
		}
	}
}

func TestDayStreakCollapsesSameDay(t *testing.T) {
	t.Parallel()
	day := base
	sessions := []storedomain.StudySession{
		sessionAt(day, ""),
		sessionAt(day.Add(3*time.Hour), ""),
		sessionAt(day.AddDate(0, 0, 1), ""),
		sessionAt(day.AddDate(0, 0, 3), ""),
	}
	if got := DayStreak(sessions, time.UTC); got != 2 {
		t.Fatalf("expected streak 2, got %d", got)
	}
	if got := DayStreak(nil, time.UTC); got != 0 {
		t.Fatalf("expected empty streak 0, got %d", got)
	}
}

func TestDayStreakUsesLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 13:00 and 15:00 UTC straddle local midnight.
	sessions := []storedomain.StudySession{
		sessionAt(time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), ""),
		sessionAt(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), ""),
	}
	if got := DayStreak(sessions, time.UTC); got != 1 {
		t.Fatalf("expected one UTC day, got %d", got)
	}
	if got := DayStreak(sessions, loc); got != 2 {
		t.Fatalf("expected two local days, got %d", got)
	}
}

func TestSessionStreakGapBoundary(t *testing.T) {
	t.Parallel()
	sessions := []storedomain.StudySession{
		sessionAt(base.Add(10800*time.Second), ""),
		sessionAt(base, ""),
		sessionAt(base.Add(3600*time.Second), ""),
	}
	if got := SessionStreak(sessions); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
	sessions = append(sessions, sessionAt(base.Add(10800*time.Second+7201*time.Second), ""))
	if got := SessionStreak(sessions); got != 3 {
		t.Fatalf("gap over two hours must reset, got %d", got)
	}
}

func TestFuzzySubjectMatching(t *testing.T) {
	t.Parallel()
	snap := defaultSnapshot()
	snap.Tags = []storedomain.Tag{
		{ID: "m", Name: "Applied MATHEMATICS"},
		{ID: "e", Name: "English"},
		{ID: "l", Name: "Sign Language"},
		{ID: "both", Name: "Mathematics for English learners"},
		{ID: "h", Name: "History"},
	}
	snap.Sessions = []storedomain.StudySession{
		sessionAt(base, "m"),
		sessionAt(base, "e"),
		sessionAt(base, "l"),
		sessionAt(base, "both"),
		sessionAt(base, "h"),
		sessionAt(base, "deleted-math"),
		sessionAt(base, ""),
	}
	m := ComputeMetrics(snap, base)
	if m.MathSessions != 2 || m.LanguageSessions != 3 {
		t.Fatalf("unexpected subject counts math=%d language=%d", m.MathSessions, m.LanguageSessions)
	}
	if m.DistinctTags != 6 {
		t.Fatalf("expected 6 distinct tag ids including dangling ones, got %d", m.DistinctTags)
	}
}

func TestCountersAndFlags(t *testing.T) {
	t.Parallel()
	snap := defaultSnapshot()
	snap.Settings.Theme = storedomain.ThemeDark
	snap.Profile.Name = "Ada"
	noBreak := sessionAt(base.Add(-8*24*time.Hour), "")
	noBreak.BreakDurationSec = 0
	noBreak.ReflectionFocused = storedomain.Ptr(false)
	edge := sessionAt(base.Add(-7*24*time.Hour), "")
	edge.ReflectionFocused = storedomain.Ptr(true)
	snap.Sessions = []storedomain.StudySession{noBreak, edge, sessionAt(base, "")}

	m := ComputeMetrics(snap, base)
	if m.Sessions != 3 || m.PositiveReflections != 1 || m.AnsweredReflections != 2 {
		t.Fatalf("unexpected reflection counts %+v", m)
	}
	if m.LastWeekSessions != 2 {
		t.Fatalf("window start is inclusive, expected 2 got %d", m.LastWeekSessions)
	}
	if m.BreaksCompleted != 2 {
		t.Fatalf("expected 2 breaks, got %d", m.BreaksCompleted)
	}
	if m.CustomizedDurations || !m.ThemeChanged || !m.ProfileSet {
		t.Fatalf("unexpected flags %+v", m)
	}

	snap.Tags = []storedomain.Tag{{ID: "t", PreferredBreakSec: storedomain.Ptr(120)}}
	if !ComputeMetrics(snap, base).CustomizedDurations {
		t.Fatalf("tag override should count as customized")
	}
	snap.Tags = nil
	snap.Settings.DefaultFocusSec = 1800
	if !ComputeMetrics(snap, base).CustomizedDurations {
		t.Fatalf("changed global focus should count as customized")
	}
}

func TestEvaluateClampsAndStampsNewUnlocks(t *testing.T) {
	t.Parallel()
	snap := defaultSnapshot()
	for i := 0; i < 7; i++ {
		snap.Sessions = append(snap.Sessions, sessionAt(base.Add(time.Duration(i)*time.Hour), ""))
	}
	results := byID(Evaluate(snap, base))
	five := results[FiveSessions]
	if five.Current != 5 || five.Value != 7 || !five.Unlocked || !five.NewlyUnlocked || !five.UnlockedAt.Equal(base) {
		t.Fatalf("unexpected fiveSessions %+v", five)
	}
	hundred := results[HundredSessions]
	if hundred.Current != 7 || hundred.Unlocked || hundred.UnlockedAt != nil {
		t.Fatalf("unexpected hundredSessions %+v", hundred)
	}
	if got := len(NewlyUnlocked(Evaluate(snap, base))); got != 2 {
		t.Fatalf("expected firstSession and fiveSessions to be new, got %d", got)
	}
}

func TestRecordedUnlockKeepsOriginalTime(t *testing.T) {
	t.Parallel()
	first := base.Add(-48 * time.Hour)
	snap := defaultSnapshot()
	snap.Sessions = []storedomain.StudySession{sessionAt(base, "")}
	snap.Unlocks = []storedomain.AchievementUnlock{{ID: string(FirstSession), UnlockedAt: first}}

	for i := 1; i < 5; i++ {
		snap.Sessions = append(snap.Sessions, sessionAt(base.Add(time.Duration(i)*time.Minute), ""))
		p := byID(Evaluate(snap, base.Add(time.Duration(i)*time.Hour)))[FirstSession]
		if !p.Unlocked || p.NewlyUnlocked || !p.UnlockedAt.Equal(first) {
			t.Fatalf("recorded unlock changed: %+v", p)
		}
	}
}

func TestRecordBelowTargetIsLocked(t *testing.T) {
	t.Parallel()
	first := base.Add(-48 * time.Hour)
	snap := storedomain.Bootstrap("d")
	snap.Unlocks = []storedomain.AchievementUnlock{
		{ID: string(FirstSession), UnlockedAt: first},
		{ID: string(ThemeChanged), UnlockedAt: first},
	}

	results := byID(Evaluate(snap, base))
	for _, id := range []ID{FirstSession, ThemeChanged} {
		p := results[id]
		if p.Value != 0 || p.Unlocked || p.UnlockedAt != nil || p.NewlyUnlocked {
			t.Fatalf("%s should be locked once its metric is below target: %+v", id, p)
		}
	}

	snap.Settings.Theme = storedomain.ThemeDark
	theme := byID(Evaluate(snap, base))[ThemeChanged]
	if !theme.Unlocked || theme.NewlyUnlocked || !theme.UnlockedAt.Equal(first) {
		t.Fatalf("regained badge should reuse the recorded time: %+v", theme)
	}
}

func TestEvaluateMetricsMatchesEvaluate(t *testing.T) {
	t.Parallel()
	snap := defaultSnapshot()
	snap.Sessions = []storedomain.StudySession{sessionAt(base, ""), sessionAt(base.Add(time.Hour), "")}
	want := Evaluate(snap, base)
	got := EvaluateMetrics(snap, ComputeMetrics(snap, base), base)
	for i := range want {
		if want[i].ID != got[i].ID || want[i].Value != got[i].Value || want[i].Unlocked != got[i].Unlocked {
			t.Fatalf("mismatch at %s: %+v vs %+v", want[i].ID, want[i], got[i])
		}
	}
}

func TestCurrentIsMonotonicAsSessionsAppend(t *testing.T) {
	t.Parallel()
	snap := defaultSnapshot()
	snap.Tags = []storedomain.Tag{{ID: "m", Name: "Math", IsDefault: true}, {ID: "e", Name: "English"}, {ID: "x", Name: "Art"}}
	tags := []string{"m", "e", "x", "", "gone"}
	gaps := []time.Duration{time.Hour, 5 * time.Hour, 26 * time.Hour, 30 * time.Minute, 50 * time.Hour}
	now := base.AddDate(0, 1, 0)
	previous := byID(Evaluate(snap, now))
	at := base
	for i := 0; i < 60; i++ {
		at = at.Add(gaps[i%len(gaps)])
		session := sessionAt(at, tags[i%len(tags)])
		if i%3 == 0 {
			session.ReflectionFocused = storedomain.Ptr(i%2 == 0)
		}
		if i%4 == 0 {
			session.BreakDurationSec = 0
		}
		// Appending out of chronological order must not matter either.
		if i%7 == 0 {
			session.StartedAt = base.Add(-time.Duration(i) * time.Hour)
		}
		snap.Sessions = append(snap.Sessions, session)
		current := byID(Evaluate(snap, now))
		for id, p := range current {
			if p.Value < previous[id].Value || p.Current < previous[id].Current {
				t.Fatalf("%s decreased after %d sessions: %d -> %d", id, i+1, previous[id].Value, p.Value)
			}
		}
		previous = current
	}
}
