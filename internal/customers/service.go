package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer profile operations.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context) ([]CustomerDTO, error)
	ListMyAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error)
	UpdateAddress(ctx context.Context, userID, id uuid.UUID, input AddressInput) (*AddressDTO, error)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a customer service backed by the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Me returns the caller's profile, creating an empty one if registration
// predates automatic provisioning.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	customer, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return FromModel(customer), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	var created *models.Customer
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if existing, findErr := repo.FindByUserID(ctx, userID); findErr == nil {
			created = existing
			return nil
		} else if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		row := &models.Customer{UserID: userID}
		inserted, createErr := repo.Create(ctx, row)
		if createErr != nil {
			return createErr
		}
		created = inserted
		return nil
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "provision customer")
	}
	return FromModel(created), nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	current, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.FindByID(ctx, current.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	if input.Birthday != nil {
		customer.Birthday = input.Birthday
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.ProfilePicture != nil {
		customer.ProfilePicture = input.ProfilePicture
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return FromModel(updated), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return FromModel(customer), nil
}

func (s *service) List(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
