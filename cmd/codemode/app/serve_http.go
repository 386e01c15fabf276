package app

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gwserver "github.com/mcpgateway/codemode/pkg/gateway/server"
	"github.com/mcpgateway/codemode/pkg/logger"
)

// serveStreamableHTTP layers a Streamable HTTP transport over srv's MCP
// server and blocks until ctx is canceled, mirroring
// cmd/thv/app/mcp_serve.go's httpServer.ListenAndServe / signal-driven
// Shutdown pattern. When metricsPath is set, a Prometheus scrape endpoint
// is mounted alongside the MCP endpoint on the same listener.
func serveStreamableHTTP(ctx context.Context, srv *gwserver.Server, addr string, metricsPath bool) error {
	streamableServer := server.NewStreamableHTTPServer(
		srv.MCPServer(),
		server.WithEndpointPath("/mcp"),
		server.WithHTTPContextFunc(func(_ context.Context, _ *http.Request) context.Context {
			return ctx
		}),
	)

	handler := http.Handler(streamableServer)
	if metricsPath {
		mux := http.NewServeMux()
		mux.Handle("/mcp", streamableServer)
		mux.Handle("/metrics", promhttp.Handler())
		handler = mux
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting codemode gateway on http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down codemode gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
