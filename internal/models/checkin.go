package models

import (
	"fmt"
	"math"
)

const (
	MinRating         = 1
	MaxRating         = 10
	DefaultMood       = 5
	DefaultEnergy     = 5
	DefaultSleepHours = 7.0
	SleepStepHours    = 0.5
)

// CheckinDraft is the transient check-in form state; it is also the POST /checkins/ body.
type CheckinDraft struct {
	Mood       int     `json:"mood"`
	Energy     int     `json:"energy"`
	SleepHours float64 `json:"sleep_hours"`
	Text       string  `json:"text"`
}

// DefaultDraft returns the form state shown before and after a submission.
func DefaultDraft() CheckinDraft {
	return CheckinDraft{
		Mood:       DefaultMood,
		Energy:     DefaultEnergy,
		SleepHours: DefaultSleepHours,
	}
}

// Validate checks the draft's ranges.
func (d CheckinDraft) Validate() error {
	if d.Mood < MinRating || d.Mood > MaxRating {
		return fmt.Errorf("mood must be between %d and %d, got %d", MinRating, MaxRating, d.Mood)
	}
	if d.Energy < MinRating || d.Energy > MaxRating {
		return fmt.Errorf("energy must be between %d and %d, got %d", MinRating, MaxRating, d.Energy)
	}
	if d.SleepHours < 0 || math.IsNaN(d.SleepHours) || math.IsInf(d.SleepHours, 0) {
		return fmt.Errorf("sleep hours must be a non-negative number, got %v", d.SleepHours)
	}
	if steps := d.SleepHours / SleepStepHours; steps != math.Trunc(steps) {
		return fmt.Errorf("sleep hours must be a multiple of %v, got %v", SleepStepHours, d.SleepHours)
	}
	return nil
}

// CheckinReceipt is the backend's acknowledgement of a saved check-in.
type CheckinReceipt struct {
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
}
