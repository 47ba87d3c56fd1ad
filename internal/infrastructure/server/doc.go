// Package server assembles the gazeweb HTTP server.
//
// NewServer wires the tab manager, the REST handlers and the WebSocket
// bridge onto one gin router with the middleware stack (recovery, request
// ids, access logging, metrics, CORS, rate limiting). Prometheus metrics are
// served from a private registry at /metrics.
//
// Example Usage:
//
//	srv, err := server.NewServer(ctx, cfg, logger)
//	go srv.Run()
//	<-ctx.Done()
//	srv.Shutdown(shutdownCtx)
package server
