package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/serene/internal/models"
)

const (
	PathMoodForecast   = "/analytics/mood-forecast"
	PathLatestInsights = "/analytics/insights/latest"
	PathStreak         = "/analytics/streak"
	PathWeeklyReport   = "/analytics/reports/weekly"
	PathCheckins       = "/checkins/"
	PathJournal        = "/journal/"
	PathChatMessage    = "/chat/message"
)

// MoodForecast returns the next-day prediction. The backend answers 400 when
// there are too few check-ins to fit a trend.
func (c *Client) MoodForecast(ctx context.Context) (*models.Forecast, error) {
	var out models.Forecast
	if _, err := c.Do(ctx, http.MethodGet, PathMoodForecast, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LatestInsights(ctx context.Context) (*models.Insights, error) {
	var out models.Insights
	if _, err := c.Do(ctx, http.MethodGet, PathLatestInsights, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Streak(ctx context.Context) (int, error) {
	var out models.StreakResponse
	if _, err := c.Do(ctx, http.MethodGet, PathStreak, nil, &out); err != nil {
		return 0, err
	}
	return out.Streak, nil
}

// WeeklyReport returns nil without error when no report exists.
func (c *Client) WeeklyReport(ctx context.Context) (*models.WeeklyReport, error) {
	var out *models.WeeklyReport
	if _, err := c.Do(ctx, http.MethodGet, PathWeeklyReport, nil, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCheckin(ctx context.Context, draft models.CheckinDraft) (*models.CheckinReceipt, error) {
	var out models.CheckinReceipt
	if _, err := c.Do(ctx, http.MethodPost, PathCheckins, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListJournal returns the unified history feed as the backend sends it,
// newest first and possibly mixing entry types.
func (c *Client) ListJournal(ctx context.Context) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	if _, err := c.Do(ctx, http.MethodGet, PathJournal, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateJournal(ctx context.Context, content string) (*models.JournalEntry, error) {
	var out models.JournalEntry
	req := models.NewJournalEntryRequest{Content: content}
	if _, err := c.Do(ctx, http.MethodPost, PathJournal, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteJournal(ctx context.Context, serverID int64) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("%s%d", PathJournal, serverID), nil, nil)
	return err
}

// SendChat posts one user message and returns the assistant's reply text.
func (c *Client) SendChat(ctx context.Context, message string) (string, error) {
	var out models.ChatResponse
	if _, err := c.Do(ctx, http.MethodPost, PathChatMessage, models.ChatRequest{Message: message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}
