package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/api/metrics"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// auditor records mutations issued from the console. A nil repository
// disables the trail but metrics are still counted.
type auditor struct {
	repo     ports.AuditRepository
	identity ports.Identity
	logger   zerolog.Logger
}

func (a auditor) record(ctx context.Context, action, entity, entityID string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.MutationsTotal.WithLabelValues(entity, action, result).Inc()

	if a.repo == nil {
		return
	}
	entry := domain.AuditEntry{
		ID:       uuid.NewString(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Success:  err == nil,
		At:       time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if a.identity != nil {
		if admin := a.identity.CurrentAdmin(); admin != nil {
			entry.Actor = admin.Email
		}
	}
	if recErr := a.repo.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		a.logger.Warn().Err(recErr).Str("entity", entity).Str("action", action).Msg("audit entry not recorded")
	}
}
