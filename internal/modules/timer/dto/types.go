package dto

type StateOutput struct {
	Phase         string  `json:"phase"`
	Clock         string  `json:"clock"`
	RemainingSec  int     `json:"remaining_sec"`
	TotalSec      int     `json:"total_sec"`
	Running       bool    `json:"running"`
	ActiveTagID   string  `json:"active_tag_id,omitempty"`
	ActiveTagName string  `json:"active_tag_name,omitempty"`
	Progress      float64 `json:"progress"`
}

// TickOutput reports which phase, if any, finished on this tick.
type TickOutput struct {
	State          StateOutput `json:"state"`
	FocusCompleted bool        `json:"focus_completed"`
	BreakCompleted bool        `json:"break_completed"`
}

type ResetInput struct {
	Phase string `validate:"required,oneof=focus break"`
}

type ReflectionInput struct {
	Focused bool
}

type ReflectionOutput struct {
	SessionID string      `json:"session_id"`
	TagID     string      `json:"tag_id,omitempty"`
	State     StateOutput `json:"state"`
}

type TagOption struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}
