package domain

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type SessionPhase string

const (
	PhaseFocus SessionPhase = "focus"
	PhaseBreak SessionPhase = "break"
)

const (
	DefaultFocusSec    = 25 * 60
	DefaultBreakSec    = 5 * 60
	DefaultLanguage    = "en"
	DefaultTextScale   = 1.0
	DefaultProfileName = "Student"
	DefaultAvatar      = "person.crop.circle.fill"
	DefaultTagName     = "Default"
	DefaultTagIcon     = "gearshape.fill"
	DefaultTagColor    = "6C5CE7"
)

type Tag struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Icon              string `json:"icon"`
	ColorHex          string `json:"color_hex"`
	IsDefault         bool   `json:"is_default"`
	PreferredFocusSec *int   `json:"preferred_focus_sec,omitempty"`
	PreferredBreakSec *int   `json:"preferred_break_sec,omitempty"`
}

// HasDurationOverride reports whether either phase carries a preferred duration.
func (t Tag) HasDurationOverride() bool {
	return t.PreferredFocusSec != nil || t.PreferredBreakSec != nil
}

func (t Tag) Clone() Tag {
	t.PreferredFocusSec = clonePtr(t.PreferredFocusSec)
	t.PreferredBreakSec = clonePtr(t.PreferredBreakSec)
	return t
}

// StudySession is immutable once appended. TagID may reference a deleted tag.
type StudySession struct {
	ID                string       `json:"id"`
	TagID             string       `json:"tag_id,omitempty"`
	StartedAt         time.Time    `json:"started_at"`
	FocusDurationSec  int          `json:"focus_duration_sec"`
	BreakDurationSec  int          `json:"break_duration_sec"`
	PhaseCompleted    SessionPhase `json:"phase_completed"`
	ReflectionFocused *bool        `json:"reflection_focused"`
}

func (s StudySession) Clone() StudySession {
	s.ReflectionFocused = clonePtr(s.ReflectionFocused)
	return s
}

type AppSettings struct {
	LanguageCode    string  `json:"language_code"`
	Theme           Theme   `json:"theme"`
	TextScale       float64 `json:"text_scale"`
	DefaultFocusSec int     `json:"default_focus_sec"`
	DefaultBreakSec int     `json:"default_break_sec"`
}

type UserProfile struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// AchievementUnlock records when a badge was first earned.
type AchievementUnlock struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Snapshot is the single persisted document.
type Snapshot struct {
	Tags     []Tag               `json:"tags"`
	Sessions []StudySession      `json:"sessions"`
	Settings AppSettings         `json:"settings"`
	Profile  UserProfile         `json:"profile"`
	Unlocks  []AchievementUnlock `json:"achievements"`
}

func DefaultSettings() AppSettings {
	return AppSettings{
		LanguageCode:    DefaultLanguage,
		Theme:           ThemeLight,
		TextScale:       DefaultTextScale,
		DefaultFocusSec: DefaultFocusSec,
		DefaultBreakSec: DefaultBreakSec,
	}
}

func DefaultProfile() UserProfile {
	return UserProfile{Name: DefaultProfileName, Avatar: DefaultAvatar}
}

func NewDefaultTag(id string) Tag {
	return Tag{ID: id, Name: DefaultTagName, Icon: DefaultTagIcon, ColorHex: DefaultTagColor, IsDefault: true}
}

// Bootstrap is the document used when nothing readable is on disk.
func Bootstrap(defaultTagID string) Snapshot {
	return Snapshot{
		Tags:     []Tag{NewDefaultTag(defaultTagID)},
		Sessions: []StudySession{},
		Settings: DefaultSettings(),
		Profile:  DefaultProfile(),
		Unlocks:  []AchievementUnlock{},
	}
}

// Normalize fills fields a partial document left empty and repairs the
// default-tag invariant: no default inserts a fresh Default tag, several
// defaults keep only the first.
func Normalize(s Snapshot, newID func() string) Snapshot {
	out := s.Clone()
	if out.Sessions == nil {
		out.Sessions = []StudySession{}
	}
	if out.Unlocks == nil {
		out.Unlocks = []AchievementUnlock{}
	}
	defaults := DefaultSettings()
	if out.Settings.LanguageCode == "" {
		out.Settings.LanguageCode = defaults.LanguageCode
	}
	if out.Settings.Theme != ThemeLight && out.Settings.Theme != ThemeDark {
		out.Settings.Theme = defaults.Theme
	}
	if out.Settings.TextScale <= 0 {
		out.Settings.TextScale = defaults.TextScale
	}
	if out.Settings.DefaultFocusSec <= 0 {
		out.Settings.DefaultFocusSec = defaults.DefaultFocusSec
	}
	if out.Settings.DefaultBreakSec <= 0 {
		out.Settings.DefaultBreakSec = defaults.DefaultBreakSec
	}
	if out.Profile.Name == "" {
		out.Profile.Name = DefaultProfileName
	}
	if out.Profile.Avatar == "" {
		out.Profile.Avatar = DefaultAvatar
	}
	out.Tags = RepairDefault(out.Tags, newID)
	return out
}

// RepairDefault returns tags with exactly one default. A list without any
// default gets a fresh Default tag in front rather than promoting a subject.
func RepairDefault(tags []Tag, newID func() string) []Tag {
	out := make([]Tag, 0, len(tags)+1)
	seen := false
	for _, tag := range tags {
		if tag.IsDefault && !seen {
			seen = true
		} else {
			tag.IsDefault = false
		}
		out = append(out, tag)
	}
	if !seen {
		out = append([]Tag{NewDefaultTag(newID())}, out...)
	}
	return out
}

// FindTag resolves id against tags.
func FindTag(tags []Tag, id string) (Tag, bool) {
	if id == "" {
		return Tag{}, false
	}
	for _, t := range tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// FindDefaultTag returns the first tag flagged default.
func FindDefaultTag(tags []Tag) (Tag, bool) {
	for _, t := range tags {
		if t.IsDefault {
			return t, true
		}
	}
	return Tag{}, false
}

func (s Snapshot) TagByID(id string) (Tag, bool) { return FindTag(s.Tags, id) }

func (s Snapshot) DefaultTag() (Tag, bool) { return FindDefaultTag(s.Tags) }

func (s Snapshot) Unlock(id string) (AchievementUnlock, bool) {
	for _, u := range s.Unlocks {
		if u.ID == id {
			return u, true
		}
	}
	return AchievementUnlock{}, false
}

// Clone deep-copies slices and pointer fields so the copy can be read while
// the original keeps changing.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Settings: s.Settings, Profile: s.Profile}
	if s.Tags != nil {
		out.Tags = make([]Tag, len(s.Tags))
		for i, t := range s.Tags {
			out.Tags[i] = t.Clone()
		}
	}
	if s.Sessions != nil {
		out.Sessions = make([]StudySession, len(s.Sessions))
		for i, session := range s.Sessions {
			out.Sessions[i] = session.Clone()
		}
	}
	if s.Unlocks != nil {
		out.Unlocks = make([]AchievementUnlock, len(s.Unlocks))
		copy(out.Unlocks, s.Unlocks)
	}
	return out
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SessionNote pairs a session with the tag name resolved at export time.
type SessionNote struct {
	Session StudySession
	TagName string
}
