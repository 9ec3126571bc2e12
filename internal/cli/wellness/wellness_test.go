package wellness

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/serene/internal/apitest"
	"github.com/julianstephens/serene/internal/checkin"
	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/config"
	"github.com/julianstephens/serene/internal/models"
	"github.com/julianstephens/serene/internal/storage/sqlite"
)

func setupWellnessTest(t *testing.T, bypass bool) (*cli.Context, *apitest.Server, *bytes.Buffer) {
	gokeyring.MockInit()
	srv := apitest.New(t)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "serene.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SaveSettings(models.Settings{DevBypass: bypass}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:  store,
		Config: config.Config{APIURL: srv.BaseURL()},
		Out:    out,
	}
	return ctx, srv, out
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDashboardCmd(t *testing.T) {
	ctx, srv, out := setupWellnessTest(t, true)
	srv.SetForecast(&models.Forecast{NextDayPrediction: 7, TrendSlope: 0.5})
	srv.SetInsights(&models.Insights{Reasons: []string{"late nights"}, Tips: []string{"go outside"}})
	srv.SetStreak(3)

	if err := (&DashboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	for _, want := range []string{"3 🔥 day streak", "7/10", "late nights", "go outside"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboardCmd_PartialFailure(t *testing.T) {
	ctx, srv, out := setupWellnessTest(t, true)
	srv.SetStreak(2)
	srv.Fail(http.MethodGet, "/analytics/insights/latest", http.StatusInternalServerError)

	if err := (&DashboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	for _, want := range []string{"2 🔥 day streak", "Gathering insights..."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "Smart Insights") {
		t.Errorf("insights shown after they failed to load:\n%s", out.String())
	}
}

func TestDashboardCmd_NotSignedIn(t *testing.T) {
	ctx, srv, out := setupWellnessTest(t, false)

	if err := (&DashboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no requests without a session, got %d", n)
	}
}

func TestReportCmd(t *testing.T) {
	tests := []struct {
		name  string
		setup func(srv *apitest.Server)
		want  string
	}{
		{
			name:  "no report yet",
			setup: func(*apitest.Server) {},
			want:  "No weekly report yet",
		},
		{
			name: "report available",
			setup: func(srv *apitest.Server) {
				srv.SetWeeklyReport(&models.WeeklyReport{Summary: "A steady week."})
			},
			want: "A steady week.",
		},
		{
			name: "backend error",
			setup: func(srv *apitest.Server) {
				srv.Fail(http.MethodGet, "/analytics/reports/weekly", http.StatusBadGateway)
			},
			want: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, srv, out := setupWellnessTest(t, true)
			tt.setup(srv)

			if err := (&ReportCmd{}).Run(ctx); err != nil {
				t.Fatalf("report failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestCheckinCmd_Flags(t *testing.T) {
	ctx, srv, out := setupWellnessTest(t, true)
	srv.SetStreak(1)

	cmd := &CheckinCmd{Mood: intPtr(8), Energy: intPtr(6), Sleep: floatPtr(7.5), Note: "good day"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	got := srv.Checkins()
	if len(got) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(got))
	}
	want := models.CheckinDraft{Mood: 8, Energy: 6, SleepHours: 7.5, Text: "good day"}
	if got[0] != want {
		t.Errorf("check-in = %+v, want %+v", got[0], want)
	}
	if !strings.Contains(out.String(), checkin.MessageSaved) {
		t.Errorf("output missing success message:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "1 🔥 day streak") {
		t.Errorf("dashboard not refreshed after check-in:\n%s", out.String())
	}
}

func TestCheckinCmd_PartialFlagsUseDefaults(t *testing.T) {
	ctx, srv, _ := setupWellnessTest(t, true)

	if err := (&CheckinCmd{Note: "just a note"}).Run(ctx); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	got := srv.Checkins()
	if len(got) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(got))
	}
	want := models.DefaultDraft()
	want.Text = "just a note"
	if got[0] != want {
		t.Errorf("check-in = %+v, want %+v", got[0], want)
	}
}

func TestCheckinCmd_Invalid(t *testing.T) {
	ctx, srv, _ := setupWellnessTest(t, true)

	if err := (&CheckinCmd{Mood: intPtr(11)}).Run(ctx); err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(srv.Checkins()); n != 0 {
		t.Errorf("invalid check-in was sent")
	}
}

func TestCheckinCmd_ServerFailure(t *testing.T) {
	ctx, srv, out := setupWellnessTest(t, true)
	srv.Fail(http.MethodPost, "/checkins/", http.StatusInternalServerError)

	if err := (&CheckinCmd{Mood: intPtr(4)}).Run(ctx); err == nil {
		t.Fatal("expected error from failed check-in")
	}
	if !strings.Contains(out.String(), checkin.MessageFailed) {
		t.Errorf("output missing failure message:\n%s", out.String())
	}
}
