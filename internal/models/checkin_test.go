package models

import (
	"math"
	"testing"
)

func TestCheckinDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   CheckinDraft
		wantErr bool
	}{
		{"defaults", DefaultDraft(), false},
		{"bounds", CheckinDraft{Mood: 1, Energy: 10, SleepHours: 0}, false},
		{"half hour", CheckinDraft{Mood: 3, Energy: 3, SleepHours: 6.5}, false},
		{"mood too low", CheckinDraft{Mood: 0, Energy: 5, SleepHours: 7}, true},
		{"energy too high", CheckinDraft{Mood: 5, Energy: 11, SleepHours: 7}, true},
		{"negative sleep", CheckinDraft{Mood: 5, Energy: 5, SleepHours: -1}, true},
		{"quarter hour", CheckinDraft{Mood: 5, Energy: 5, SleepHours: 7.25}, true},
		{"nan sleep", CheckinDraft{Mood: 5, Energy: 5, SleepHours: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultDraft(t *testing.T) {
	d := DefaultDraft()
	if d.Mood != 5 || d.Energy != 5 || d.SleepHours != 7.0 || d.Text != "" {
		t.Errorf("DefaultDraft() = %+v", d)
	}
}

func TestCompositeViewStateClone(t *testing.T) {
	orig := CompositeViewState{
		Forecast: &Forecast{NextDayPrediction: 7, TrendSlope: 0.5},
		Insights: &Insights{Reasons: []string{"sleep"}, Tips: []string{"walk"}},
		Streak:   3,
	}
	c := orig.Clone()
	c.Forecast.NextDayPrediction = 1
	c.Insights.Reasons[0] = "changed"

	if orig.Forecast.NextDayPrediction != 7 || orig.Insights.Reasons[0] != "sleep" {
		t.Error("Clone() shares memory with the original")
	}
	if (CompositeViewState{}).Clone().Forecast != nil {
		t.Error("Clone() of empty state should keep nil fields")
	}
}
