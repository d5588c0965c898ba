package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/screenhall/roomctl/internal/config"
	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/transport/ws"
)

type noopDispatcher struct{}

func (noopDispatcher) HandleMessage(cid domain.ConnectionID, data []byte) {}
func (noopDispatcher) HandleDisconnect(cid domain.ConnectionID)           {}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hi</html>"), 0o644); err != nil {
		t.Fatalf("write index.html: %v", err)
	}

	cfg := &config.Config{Mode: "debug", StaticPath: dir}
	server := ws.NewServer(ws.NewHub(), noopDispatcher{})
	return SetupRouter(cfg, server)
}

func TestRootServesIndex(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "<html>hi</html>" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
