package domain

import (
	"time"

	storedomain "studysprint/internal/modules/store/domain"
)

// Progress is one badge after evaluation. Current is clamped to [0, Target]
// for display; Value is the raw metric.
type Progress struct {
	ID            ID         `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Target        int        `json:"target"`
	Current       int        `json:"current"`
	Value         int        `json:"value"`
	Unlocked      bool       `json:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
	NewlyUnlocked bool       `json:"newly_unlocked"`
}

// Evaluate recomputes every badge from scratch. Nothing is written.
func Evaluate(snap storedomain.Snapshot, now time.Time) []Progress {
	return EvaluateMetrics(snap, ComputeMetrics(snap, now), now)
}

// EvaluateMetrics scores the catalog against metrics already computed from
// snap. A badge is unlocked while its value reaches the target; a recorded
// unlock only supplies the original timestamp. Reaching the target without a
// record stamps now and flags NewlyUnlocked.
func EvaluateMetrics(snap storedomain.Snapshot, metrics Metrics, now time.Time) []Progress {
	out := make([]Progress, 0, len(catalog))
	for _, def := range catalog {
		value := def.Value(metrics)
		p := Progress{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Target:      def.Target,
			Current:     clamp(value, 0, def.Target),
			Value:       value,
			Unlocked:    value >= def.Target,
		}
		if p.Unlocked {
			at := now
			if record, ok := snap.Unlock(string(def.ID)); ok {
				at = record.UnlockedAt
			} else {
				p.NewlyUnlocked = true
			}
			p.UnlockedAt = &at
		}
		out = append(out, p)
	}
	return out
}

// NewlyUnlocked filters progress down to unlocks that still need recording.
func NewlyUnlocked(progress []Progress) []Progress {
	out := make([]Progress, 0)
	for _, p := range progress {
		if p.NewlyUnlocked {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
