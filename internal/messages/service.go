package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/users"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// SendMessageInput carries the fields for a new direct message.
type SendMessageInput struct {
	RecipientID uuid.UUID
	Content     string
}

// Service exposes direct message operations.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*models.Message, error)
	Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]models.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
}

type service struct {
	repo  *Repository
	users *users.Repository
}

func NewService(repo *Repository, userRepo *users.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, users: userRepo}, nil
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if input.RecipientID == senderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	if _, err := s.users.FindByID(ctx, input.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipient")
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Content:     content,
	}
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send message")
	}
	return created, nil
}

func (s *service) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]models.Message, error) {
	rows, err := s.repo.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list conversation")
	}
	return rows, nil
}

func (s *service) Inbox(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	rows, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inbox")
	}
	return rows, nil
}
