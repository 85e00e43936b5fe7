package dto

type SummaryInput struct {
	TagID string
}

type DayOutput struct {
	Day   string `json:"day"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TagOutput struct {
	TagID        string `json:"tag_id,omitempty"`
	Name         string `json:"name"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focus_minutes"`
}

type SummaryOutput struct {
	TagID         string      `json:"tag_id,omitempty"`
	TotalSessions int         `json:"total_sessions"`
	FocusMinutes  int         `json:"focus_minutes"`
	FocusRate     int         `json:"focus_rate"`
	LastSevenDays []DayOutput `json:"last_seven_days"`
	Tags          []TagOutput `json:"tags"`
}
