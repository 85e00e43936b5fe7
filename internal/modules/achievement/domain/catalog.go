package domain

// ID names one badge in the fixed catalog.
type ID string

const (
	FirstSession           ID = "firstSession"
	FiveSessions           ID = "fiveSessions"
	TenPositiveReflections ID = "tenPositiveReflections"
	SevenDayStreak         ID = "sevenDayStreak"
	TwentySessionStreak    ID = "twentySessionStreak"
	MathGenius             ID = "mathGenius"
	LanguageTraveler       ID = "languageTraveler"
	CustomizedDurations    ID = "customizedDurations"
	ThemeChanged           ID = "themeChanged"
	ThreeTagsUsed          ID = "threeTagsUsed"
	WeeklyProgress25       ID = "weeklyProgress25"
	ThirtyReflections      ID = "thirtyReflections"
	BreakMaster            ID = "breakMaster"
	ProfileSet             ID = "profileSet"
	HundredSessions        ID = "hundredSessions"
)

type Definition struct {
	ID          ID
	Title       string
	Description string
	Icon        string
	Target      int
	value       func(Metrics) int
}

var catalog = []Definition{
	{ID: FirstSession, Title: "First step", Description: "Complete your first study session.", Icon: "star.fill", Target: 1, value: func(m Metrics) int { return m.Sessions }},
	{ID: FiveSessions, Title: "Productivity start", Description: "Finish 5 study sessions.", Icon: "target", Target: 5, value: func(m Metrics) int { return m.Sessions }},
	{ID: TenPositiveReflections, Title: "Focus master", Description: "Answer 'Yes' 10 times.", Icon: "bolt.fill", Target: 10, value: func(m Metrics) int { return m.PositiveReflections }},
	{ID: SevenDayStreak, Title: "First week", Description: "Study 7 days in a row.", Icon: "calendar", Target: 7, value: func(m Metrics) int { return m.DayStreak }},
	{ID: TwentySessionStreak, Title: "Marathon", Description: "Finish 20 sessions in a row.", Icon: "figure.run", Target: 20, value: func(m Metrics) int { return m.SessionStreak }},
	{ID: MathGenius, Title: "Math genius", Description: "Complete 10 sessions for Math.", Icon: "function", Target: 10, value: func(m Metrics) int { return m.MathSessions }},
	{ID: LanguageTraveler, Title: "Language traveler", Description: "10 sessions for English or other language.", Icon: "globe", Target: 10, value: func(m Metrics) int { return m.LanguageSessions }},
	{ID: CustomizedDurations, Title: "Flexible learner", Description: "Customize focus/break durations.", Icon: "slider.horizontal.3", Target: 1, value: func(m Metrics) int { return flag(m.CustomizedDurations) }},
	{ID: ThemeChanged, Title: "Color tuner", Description: "Change the app theme once.", Icon: "paintpalette.fill", Target: 1, value: func(m Metrics) int { return flag(m.ThemeChanged) }},
	{ID: ThreeTagsUsed, Title: "True explorer", Description: "Use at least 3 different subjects.", Icon: "magnifyingglass", Target: 3, value: func(m Metrics) int { return m.DistinctTags }},
	{ID: WeeklyProgress25, Title: "Weekly progress", Description: "25 sessions in a week.", Icon: "chart.bar.fill", Target: 25, value: func(m Metrics) int { return m.LastWeekSessions }},
	{ID: ThirtyReflections, Title: "Mini-reflectionist", Description: "Answer reflection 30 times.", Icon: "brain.head.profile", Target: 30, value: func(m Metrics) int { return m.AnsweredReflections }},
	{ID: BreakMaster, Title: "Break master", Description: "Finish 10 full cycles with a break.", Icon: "timer", Target: 10, value: func(m Metrics) int { return m.BreaksCompleted }},
	{ID: ProfileSet, Title: "Personal profile", Description: "Set your name or avatar.", Icon: "person.crop.circle", Target: 1, value: func(m Metrics) int { return flag(m.ProfileSet) }},
	{ID: HundredSessions, Title: "Long-term progress", Description: "Complete 100 sessions.", Icon: "infinity", Target: 100, value: func(m Metrics) int { return m.Sessions }},
}

// Catalog returns the badges in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by id.
func Lookup(id ID) (Definition, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Value is the unclamped metric this badge is measured against.
func (d Definition) Value(m Metrics) int {
	if d.value == nil {
		return 0
	}
	return d.value(m)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
