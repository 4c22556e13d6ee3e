package net

import (
	"context"
	"log/slog"
	"net/http"
)

func debugResponse(resp *http.Response) {
	if resp == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("http response",
		"method", resp.Request.Method,
		"url", resp.Request.URL.String(),
		"status", resp.StatusCode)
}
