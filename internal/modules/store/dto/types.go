package dto

import "time"

type TagOutput struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Icon              string `json:"icon"`
	ColorHex          string `json:"color_hex"`
	IsDefault         bool   `json:"is_default"`
	PreferredFocusSec *int   `json:"preferred_focus_sec,omitempty"`
	PreferredBreakSec *int   `json:"preferred_break_sec,omitempty"`
	SessionCount      int    `json:"session_count"`
}

type AddTagInput struct {
	Name              string
	Icon              string
	ColorHex          string
	PreferredFocusSec *int `validate:"omitempty,gt=0"`
	PreferredBreakSec *int `validate:"omitempty,gt=0"`
}

// SetTagDurationsInput replaces both overrides; nil clears one.
type SetTagDurationsInput struct {
	TagID             string `validate:"required"`
	PreferredFocusSec *int   `validate:"omitempty,gt=0"`
	PreferredBreakSec *int   `validate:"omitempty,gt=0"`
}

type SessionOutput struct {
	ID                string    `json:"id"`
	TagID             string    `json:"tag_id,omitempty"`
	TagName           string    `json:"tag_name"`
	StartedAt         time.Time `json:"started_at"`
	FocusDurationSec  int       `json:"focus_duration_sec"`
	BreakDurationSec  int       `json:"break_duration_sec"`
	PhaseCompleted    string    `json:"phase_completed"`
	ReflectionFocused *bool     `json:"reflection_focused"`
}

type ListSessionsInput struct {
	TagID string
}

type ClearOutput struct {
	Removed int `json:"removed"`
}

type SettingsOutput struct {
	LanguageCode    string  `json:"language_code"`
	Theme           string  `json:"theme"`
	TextScale       float64 `json:"text_scale"`
	DefaultFocusSec int     `json:"default_focus_sec"`
	DefaultBreakSec int     `json:"default_break_sec"`
}

// UpdateSettingsInput is a partial update; nil fields are left unchanged.
type UpdateSettingsInput struct {
	LanguageCode    *string
	Theme           *string  `validate:"omitempty,oneof=light dark"`
	TextScale       *float64 `validate:"omitempty,gte=0.5,lte=3"`
	DefaultFocusSec *int     `validate:"omitempty,gt=0"`
	DefaultBreakSec *int     `validate:"omitempty,gt=0"`
}

type ProfileOutput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Dir     string   `json:"dir"`
	Written int      `json:"written"`
	Paths   []string `json:"paths"`
}
