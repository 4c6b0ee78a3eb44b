package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
)

// Repository exposes stock movement persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, movement *models.Stock) (*models.Stock, error) {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// ListByProduct returns the movement history for a product, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Stock, error) {
	var rows []models.Stock
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("stock_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Level computes the current stock level as inbound minus outbound quantity.
func (r *Repository) Level(ctx context.Context, productID uuid.UUID) (int64, error) {
	var level *int64
	err := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Select("COALESCE(SUM(CASE WHEN operation = ? THEN quantity ELSE -quantity END), 0)", enums.StockOperationIn).
		Where("product_id = ?", productID).
		Scan(&level).Error
	if err != nil {
		return 0, err
	}
	if level == nil {
		return 0, nil
	}
	return *level, nil
}
