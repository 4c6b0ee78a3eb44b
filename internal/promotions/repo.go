package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
)

// Repository exposes promotion persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) (*models.Promotion, error) {
	if promotion.ID == uuid.Nil {
		promotion.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return nil, err
	}
	return promotion, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.db.WithContext(ctx).
		Preload("Customers").
		First(&promotion, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&rows).Error
	return rows, err
}

// ListActive returns promotions whose window covers the given instant.
func (r *Repository) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", at, at).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Update(ctx context.Context, promotion *models.Promotion) (*models.Promotion, error) {
	if err := r.db.WithContext(ctx).Save(promotion).Error; err != nil {
		return nil, err
	}
	return promotion, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Promotion{}, "id = ?", id).Error
}

// AssignCustomers replaces the promotion's target customer set.
func (r *Repository) AssignCustomers(ctx context.Context, promotion *models.Promotion, customers []models.Customer) error {
	return r.db.WithContext(ctx).
		Model(promotion).
		Association("Customers").
		Replace(customers)
}
