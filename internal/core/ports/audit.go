package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// AuditSink persists audit events.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// Auditor accepts audit events without blocking the caller.
type Auditor interface {
	Enqueue(event domain.AuditEvent)
}
