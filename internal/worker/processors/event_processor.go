package processors

import (
	"context"
	"fmt"

	"feedbridge/internal/credentials"
	"feedbridge/internal/events"
	"feedbridge/internal/logger"
)

// EventProcessor applies store events to durable state. Processing is
// idempotent: uninstall deletes are no-ops when the credential is gone.
type EventProcessor struct {
	credentials credentials.Store
	logger      *logger.Logger
}

func NewEventProcessor(credentialStore credentials.Store, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		credentials: credentialStore,
		logger:      logger,
	}
}

func (p *EventProcessor) Process(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeAppUninstalled:
		if err := p.credentials.Delete(ctx, event.StoreID); err != nil {
			return fmt.Errorf("deleting credential for store %s: %w", event.StoreID, err)
		}
		p.logger.Info("Cleaned up credential for uninstalled store %s", event.StoreID)
		return nil

	case events.TypeStoreInstalled:
		p.logger.Info("Store %s installed", event.StoreID)
		return nil

	case events.TypeProductUpdated:
		// The feed cache is short-TTL and per-process, so product changes
		// surface on the next regeneration. Log for diagnostics.
		p.logger.Debug("Product change for store %s: %v", event.StoreID, event.Data)
		return nil

	default:
		p.logger.Debug("Unhandled event type: %s", event.Type)
		return nil
	}
}
