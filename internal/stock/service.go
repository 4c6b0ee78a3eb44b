package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/products"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// RecordMovementInput describes a single inventory movement.
type RecordMovementInput struct {
	ProductID uuid.UUID
	Quantity  int
	Operation string
	StockDate *time.Time
}

// LevelResponse reports the computed stock level for a product.
type LevelResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Level     int64     `json:"level"`
}

// Service exposes inventory movement operations.
type Service interface {
	Record(ctx context.Context, vendorID uuid.UUID, isStaff bool, input RecordMovementInput) (*models.Stock, error)
	History(ctx context.Context, productID uuid.UUID) ([]models.Stock, error)
	Level(ctx context.Context, productID uuid.UUID) (*LevelResponse, error)
}

type service struct {
	repo     *Repository
	products *products.Repository
}

func NewService(repo *Repository, productRepo *products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: productRepo}, nil
}

// Record appends an inventory movement for the product. Outbound movements
// larger than the current level are rejected.
func (s *service) Record(ctx context.Context, vendorID uuid.UUID, isStaff bool, input RecordMovementInput) (*models.Stock, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	operation, err := enums.ParseStockOperation(input.Operation)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operation must be in or out")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !isStaff && product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}

	if operation == enums.StockOperationOut {
		level, err := s.repo.Level(ctx, input.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock level")
		}
		if level < int64(input.Quantity) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for outbound movement")
		}
	}

	stockDate := time.Now().UTC()
	if input.StockDate != nil {
		stockDate = *input.StockDate
	}

	movement := &models.Stock{
		ProductID: input.ProductID,
		VendorID:  product.VendorID,
		Quantity:  input.Quantity,
		Operation: operation,
		StockDate: stockDate,
	}
	created, err := s.repo.Create(ctx, movement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record stock movement")
	}
	return created, nil
}

func (s *service) History(ctx context.Context, productID uuid.UUID) ([]models.Stock, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stock movements")
	}
	return rows, nil
}

func (s *service) Level(ctx context.Context, productID uuid.UUID) (*LevelResponse, error) {
	level, err := s.repo.Level(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock level")
	}
	return &LevelResponse{ProductID: productID, Level: level}, nil
}
