package dto

import "time"

type AchievementOutput struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Target        int        `json:"target"`
	Current       int        `json:"current"`
	Unlocked      bool       `json:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
	NewlyUnlocked bool       `json:"newly_unlocked"`
}

type MetricsOutput struct {
	Sessions            int `json:"sessions"`
	PositiveReflections int `json:"positive_reflections"`
	AnsweredReflections int `json:"answered_reflections"`
	DayStreak           int `json:"day_streak"`
	SessionStreak       int `json:"session_streak"`
	DistinctTags        int `json:"distinct_tags"`
	LastWeekSessions    int `json:"last_week_sessions"`
}

type ListOutput struct {
	Unlocked int                 `json:"unlocked"`
	Total    int                 `json:"total"`
	Items    []AchievementOutput `json:"items"`
	Metrics  MetricsOutput       `json:"metrics"`
}
