package ports

import (
	"context"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// AuditRepository persists the console audit trail. Implementations may be
// asynchronous; callers treat failures as non-fatal.
type AuditRepository interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}
