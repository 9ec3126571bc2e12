package models

// Forecast is the backend's next-day mood prediction.
type Forecast struct {
	NextDayPrediction float64 `json:"next_day_prediction"`
	TrendSlope        float64 `json:"trend_slope"`
	NumActiveDays     int     `json:"num_active_days,omitempty"`
	R2Score           float64 `json:"r2_score,omitempty"`
}

// Insights holds the likely causes and tips derived from the latest check-in.
type Insights struct {
	Reasons []string `json:"reasons"`
	Tips    []string `json:"tips"`
}

// StreakResponse is the payload of GET /analytics/streak.
type StreakResponse struct {
	Streak int `json:"streak"`
}

// WeeklyReport is the AI-generated weekly summary.
type WeeklyReport struct {
	Summary string `json:"summary"`
	Win     string `json:"win"`
	Focus   string `json:"focus"`
}

// CompositeViewState aggregates the independently sourced dashboard fields.
// A nil Forecast or Insights means that source is currently unavailable.
type CompositeViewState struct {
	Forecast *Forecast
	Insights *Insights
	Streak   int
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (s CompositeViewState) Clone() CompositeViewState {
	out := CompositeViewState{Streak: s.Streak}
	if s.Forecast != nil {
		f := *s.Forecast
		out.Forecast = &f
	}
	if s.Insights != nil {
		out.Insights = &Insights{
			Reasons: append([]string(nil), s.Insights.Reasons...),
			Tips:    append([]string(nil), s.Insights.Tips...),
		}
	}
	return out
}
