package chats

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/serene/internal/apitest"
	"github.com/julianstephens/serene/internal/chat"
	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/config"
	"github.com/julianstephens/serene/internal/models"
	"github.com/julianstephens/serene/internal/storage/sqlite"
)

func setupChatTest(t *testing.T) (*cli.Context, *apitest.Server, *bytes.Buffer) {
	srv := apitest.New(t)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "serene.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SaveSettings(models.Settings{DevBypass: true}); err != nil {
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

func TestChatCmd_OneShot(t *testing.T) {
	ctx, srv, out := setupChatTest(t)

	if err := (&ChatCmd{Message: "rough day"}).Run(ctx); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if !strings.Contains(out.String(), "serene: I hear you: rough day") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := len(srv.RequestsTo(http.MethodPost, "/chat/message")); n != 1 {
		t.Errorf("expected 1 chat request, got %d", n)
	}
}

func TestChatCmd_Fallback(t *testing.T) {
	ctx, srv, out := setupChatTest(t)
	srv.Fail(http.MethodPost, "/chat/message", http.StatusServiceUnavailable)

	if err := (&ChatCmd{Message: "hello?"}).Run(ctx); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if !strings.Contains(out.String(), chat.DefaultFallback) {
		t.Errorf("expected fallback reply, got %q", out.String())
	}
}

func TestChatCmd_REPL(t *testing.T) {
	ctx, srv, out := setupChatTest(t)
	ctx.In = strings.NewReader("first\n\n   \nsecond\n/quit\nnever sent\n")

	if err := (&ChatCmd{}).Run(ctx); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	got := out.String()
	first := strings.Index(got, "serene: I hear you: first")
	second := strings.Index(got, "serene: I hear you: second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("replies missing or out of order:\n%s", got)
	}
	if strings.Contains(got, "never sent") {
		t.Errorf("input after /quit was sent:\n%s", got)
	}
	if n := len(srv.RequestsTo(http.MethodPost, "/chat/message")); n != 2 {
		t.Errorf("expected 2 chat requests, got %d", n)
	}
}

func TestChatCmd_EOF(t *testing.T) {
	ctx, _, _ := setupChatTest(t)
	ctx.In = strings.NewReader("")

	if err := (&ChatCmd{}).Run(ctx); err != nil {
		t.Errorf("chat failed on EOF: %v", err)
	}
}
