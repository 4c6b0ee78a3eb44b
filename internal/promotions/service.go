package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/customers"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// CreatePromotionInput carries the fields for a new discount campaign.
type CreatePromotionInput struct {
	Name        string
	Description string
	Discount    float64
	StartDate   time.Time
	EndDate     time.Time
	CustomerIDs []uuid.UUID
}

// Service exposes promotion operations.
type Service interface {
	Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	ListActive(ctx context.Context) ([]models.Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      *Repository
	customers *customers.Repository
}

func NewService(repo *Repository, customerRepo *customers.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo, customers: customerRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Discount <= 0 || input.Discount > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be after start_date")
	}

	promotion := &models.Promotion{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Discount:    input.Discount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	created, err := s.repo.Create(ctx, promotion)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create promotion")
	}

	if len(input.CustomerIDs) > 0 {
		targets := make([]models.Customer, 0, len(input.CustomerIDs))
		for _, id := range input.CustomerIDs {
			customer, err := s.customers.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown customer in target list")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load target customer")
			}
			targets = append(targets, *customer)
		}
		if err := s.repo.AssignCustomers(ctx, created, targets); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign promotion customers")
		}
	}

	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion")
	}
	return promotion, nil
}

func (s *service) List(ctx context.Context) ([]models.Promotion, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list promotions")
	}
	return rows, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Promotion, error) {
	rows, err := s.repo.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active promotions")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete promotion")
	}
	return nil
}
