package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/events"
	"github.com/dern-company/support-portal/internal/repository"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// mapRepoError translates storage-level sentinels into the API error
// taxonomy. Version races surface as conflicts, not silent last-write-wins.
func mapRepoError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperrors.NewConflict(resource + " was modified concurrently, retry")
	}
	return apperrors.MapError(err)
}

func generateReferenceKey(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func eventActor(actor domain.Actor) events.Actor {
	return events.Actor{UserID: actor.ID, Role: actor.Role}
}
