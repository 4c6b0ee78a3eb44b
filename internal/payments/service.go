package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// RecordPaymentInput carries the outcome of a gateway charge. The charge
// itself happens outside this service.
type RecordPaymentInput struct {
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	PaymentSource string
	ProductID     *string
	RecipientInfo *string
	IsSuccessful  bool
	TransactionID *string
}

// Service exposes payment record operations.
type Service interface {
	Record(ctx context.Context, customerID uuid.UUID, input RecordPaymentInput) (*models.Payment, error)
	Get(ctx context.Context, id, customerID uuid.UUID, isStaff bool) (*models.Payment, error)
	ListMine(ctx context.Context, customerID uuid.UUID) ([]models.Payment, error)
	ListAll(ctx context.Context) ([]models.Payment, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, customerID uuid.UUID, input RecordPaymentInput) (*models.Payment, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must be a 3-letter code")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_method is required")
	}

	payment := &models.Payment{
		CustomerID:    customerID,
		Amount:        input.Amount,
		Currency:      currency,
		PaymentMethod: input.PaymentMethod,
		PaymentSource: input.PaymentSource,
		ProductID:     input.ProductID,
		RecipientInfo: input.RecipientInfo,
		IsSuccessful:  input.IsSuccessful,
		TransactionID: input.TransactionID,
	}
	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id, customerID uuid.UUID, isStaff bool) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	if !isStaff && payment.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

func (s *service) ListMine(ctx context.Context, customerID uuid.UUID) ([]models.Payment, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	return rows, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	return rows, nil
}
