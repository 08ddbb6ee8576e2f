// Package audit holds the fallback audit sink used when no MongoDB is
// configured.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// LogSink writes audit events as structured log lines.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Record(_ context.Context, e domain.AuditEvent) error {
	ev := s.log.Info()
	if !e.Success {
		ev = s.log.Warn()
	}
	ev.Str("action", e.Action).
		Str("username", e.Username).
		Bool("success", e.Success).
		Time("at", e.At)
	if e.UserID != 0 {
		ev.Uint("user_id", e.UserID)
	}
	if e.IP != "" {
		ev.Str("ip", e.IP)
	}
	if e.RequestID != "" {
		ev.Str("request_id", e.RequestID)
	}
	if e.Detail != "" {
		ev.Str("detail", e.Detail)
	}
	ev.Msg("audit")
	return nil
}

var _ ports.AuditSink = (*LogSink)(nil)
