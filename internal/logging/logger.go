// Package logging is the structured logger used by the server. SlogLogger
// backs it with log/slog; tests use Nop.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Info(ctx, "http request", "route", "/api/games", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
