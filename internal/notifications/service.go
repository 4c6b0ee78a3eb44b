package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// Service exposes notification operations.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
	}
	return rows, nil
}

func (s *service) MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error) {
	notification, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if notification.ReadAt == nil {
		if err := s.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notification read")
		}
		notification, err = s.load(ctx, id, userID)
		if err != nil {
			return nil, err
		}
	}
	return notification, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.load(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete notification")
	}
	return nil
}

// load returns not found for other users' notifications rather than leaking
// their existence.
func (s *service) load(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load notification")
	}
	if notification.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return notification, nil
}
