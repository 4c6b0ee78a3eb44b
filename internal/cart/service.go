package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/products"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations.
type Service interface {
	CreateCart(ctx context.Context) (*CartDTO, error)
	GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error)
	DeleteCart(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, cartID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        *Repository
	ProductRepo *products.Repository
}

type service struct {
	tx       txRunner
	repo     *Repository
	products *products.Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{tx: params.TxRunner, repo: params.Repo, products: params.ProductRepo}, nil
}

// CreateCart opens a new empty cart. Carts are anonymous until checkout.
func (s *service) CreateCart(ctx context.Context) (*CartDTO, error) {
	cart, err := s.repo.Create(ctx, &models.Cart{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	dto := FromModel(cart)
	return &dto, nil
}

func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error) {
	cart, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(cart)
	return &dto, nil
}

func (s *service) DeleteCart(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
	}
	return nil
}

// AddItem adds a product to the cart. When the product is already present the
// quantities merge atomically at the database level, so concurrent adds of
// the same product never create duplicate rows or lose updates.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if _, err := s.load(ctx, s.repo, cartID); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A bad product id is malformed input, not a missing resource.
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "no such product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	item := &models.CartItem{
		CartID:    cartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert cart item")
	}
	return s.GetCart(ctx, cartID)
}

// UpdateItem overwrites the quantity of an existing line.
func (s *service) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if _, err := s.repo.FindItem(ctx, cartID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if err := s.repo.UpdateItemQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return s.GetCart(ctx, cartID)
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}
