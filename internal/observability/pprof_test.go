package observability

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/match-scoreboard/internal/config"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
)

func TestStartPprofServer_ServesIndex(t *testing.T) {
	t.Parallel()

	server, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}

	resp, err := http.Get("http://" + server.Addr() + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown pprof: %v", err)
	}
}

func TestStartPprofServer_AddressInUse(t *testing.T) {
	t.Parallel()

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	server, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: taken.Addr().String()}, logging.NewNop())
	if err == nil {
		_ = server.Shutdown(context.Background())
		t.Fatalf("expected listen error for taken address")
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	t.Parallel()

	server, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if server != nil {
		t.Fatalf("expected nil server when disabled")
	}
	if server.Addr() != "" {
		t.Fatalf("expected empty addr")
	}
	if err := server.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown nil server: %v", err)
	}
}
