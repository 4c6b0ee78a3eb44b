package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mdzoubir/kazidomi-api/internal/auth"
	"github.com/mdzoubir/kazidomi-api/internal/brands"
	cartsvc "github.com/mdzoubir/kazidomi-api/internal/cart"
	"github.com/mdzoubir/kazidomi-api/internal/categories"
	"github.com/mdzoubir/kazidomi-api/internal/customers"
	"github.com/mdzoubir/kazidomi-api/internal/messages"
	ordersvc "github.com/mdzoubir/kazidomi-api/internal/orders"
	"github.com/mdzoubir/kazidomi-api/internal/payments"
	"github.com/mdzoubir/kazidomi-api/internal/products"
	"github.com/mdzoubir/kazidomi-api/internal/promotions"
	"github.com/mdzoubir/kazidomi-api/internal/reviews"
	"github.com/mdzoubir/kazidomi-api/internal/stock"
	pkgAuth "github.com/mdzoubir/kazidomi-api/pkg/auth"
	"github.com/mdzoubir/kazidomi-api/pkg/config"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/pagination"
)

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(ctx context.Context) ([]categories.CategoryWithCount, error) {
	return []categories.CategoryWithCount{}, nil
}

func (stubCategoryService) Get(ctx context.Context, id uuid.UUID) (*categories.CategoryWithCount, error) {
	panic("unimplemented")
}

func (stubCategoryService) Create(ctx context.Context, input categories.CreateCategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCategoryService) Update(ctx context.Context, id uuid.UUID, input categories.CreateCategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubBrandService struct{}

func (stubBrandService) List(ctx context.Context) ([]models.Brand, error) {
	return []models.Brand{}, nil
}

func (stubBrandService) Get(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	panic("unimplemented")
}

func (stubBrandService) Create(ctx context.Context, vendorID uuid.UUID, input brands.CreateBrandInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (stubBrandService) Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input brands.UpdateBrandInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (stubBrandService) Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, filter products.ListFilter, params pagination.Params) (*products.ListResponse, error) {
	return &products.ListResponse{Products: []products.ProductDTO{}}, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Create(ctx context.Context, vendorID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input products.UpdateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error {
	panic("unimplemented")
}

type stubStockService struct{}

func (stubStockService) Record(ctx context.Context, vendorID uuid.UUID, isStaff bool, input stock.RecordMovementInput) (*models.Stock, error) {
	panic("unimplemented")
}

func (stubStockService) History(ctx context.Context, productID uuid.UUID) ([]models.Stock, error) {
	panic("unimplemented")
}

func (stubStockService) Level(ctx context.Context, productID uuid.UUID) (*stock.LevelResponse, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) CreateCart(ctx context.Context) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) GetCart(ctx context.Context, id uuid.UUID) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) DeleteCart(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCartService) AddItem(ctx context.Context, cartID uuid.UUID, req cartsvc.AddItemRequest) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req cartsvc.UpdateItemRequest) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) PlaceOrder(ctx context.Context, actor ordersvc.Actor, req ordersvc.PlaceOrderRequest) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Get(ctx context.Context, actor ordersvc.Actor, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) List(ctx context.Context, actor ordersvc.Actor, params pagination.Params) (*ordersvc.ListResponse, error) {
	return &ordersvc.ListResponse{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrderService) UpdatePaymentStatus(ctx context.Context, actor ordersvc.Actor, id uuid.UUID, req ordersvc.UpdatePaymentStatusRequest) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubCustomerService struct{}

func (stubCustomerService) Me(ctx context.Context, userID uuid.UUID) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) UpdateMe(ctx context.Context, userID uuid.UUID, input customers.UpdateCustomerInput) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) Get(ctx context.Context, id uuid.UUID) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) List(ctx context.Context) ([]customers.CustomerDTO, error) {
	return []customers.CustomerDTO{}, nil
}

func (stubCustomerService) ListMyAddresses(ctx context.Context, userID uuid.UUID) ([]customers.AddressDTO, error) {
	return []customers.AddressDTO{}, nil
}

func (stubCustomerService) AddAddress(ctx context.Context, userID uuid.UUID, input customers.AddressInput) (*customers.AddressDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, input customers.AddressInput) (*customers.AddressDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	panic("unimplemented")
}

type stubReviewService struct{}

func (stubReviewService) Create(ctx context.Context, customerID uuid.UUID, input reviews.CreateReviewInput) (*models.Review, error) {
	panic("unimplemented")
}

func (stubReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	return []models.Review{}, nil
}

func (stubReviewService) Delete(ctx context.Context, id, customerID uuid.UUID, isStaff bool) error {
	panic("unimplemented")
}

type stubNotificationService struct{}

func (stubNotificationService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (stubNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error) {
	panic("unimplemented")
}

func (stubNotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	panic("unimplemented")
}

type stubMessageService struct{}

func (stubMessageService) Send(ctx context.Context, senderID uuid.UUID, input messages.SendMessageInput) (*models.Message, error) {
	panic("unimplemented")
}

func (stubMessageService) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]models.Message, error) {
	panic("unimplemented")
}

func (stubMessageService) Inbox(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	return []models.Message{}, nil
}

type stubPaymentService struct{}

func (stubPaymentService) Record(ctx context.Context, customerID uuid.UUID, input payments.RecordPaymentInput) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubPaymentService) Get(ctx context.Context, id, customerID uuid.UUID, isStaff bool) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubPaymentService) ListMine(ctx context.Context, customerID uuid.UUID) ([]models.Payment, error) {
	return []models.Payment{}, nil
}

func (stubPaymentService) ListAll(ctx context.Context) ([]models.Payment, error) {
	return []models.Payment{}, nil
}

type stubPromotionService struct{}

func (stubPromotionService) Create(ctx context.Context, input promotions.CreatePromotionInput) (*models.Promotion, error) {
	panic("unimplemented")
}

func (stubPromotionService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	panic("unimplemented")
}

func (stubPromotionService) List(ctx context.Context) ([]models.Promotion, error) {
	return []models.Promotion{}, nil
}

func (stubPromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	return []models.Promotion{}, nil
}

func (stubPromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, nil, stubSessionManager{}, Services{
		Auth:          stubAuthService{},
		Register:      stubRegisterService{},
		Categories:    stubCategoryService{},
		Brands:        stubBrandService{},
		Products:      stubProductService{},
		Stock:         stubStockService{},
		Cart:          stubCartService{},
		Orders:        stubOrderService{},
		Customers:     stubCustomerService{},
		Reviews:       stubReviewService{},
		Notifications: stubNotificationService{},
		Messages:      stubMessageService{},
		Payments:      stubPaymentService{},
		Promotions:    stubPromotionService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, isStaff bool) string {
	t.Helper()
	customerID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		CustomerID: &customerID,
		IsStaff:    isStaff,
		JTI:        uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestStaffGroupRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/staff/ping", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/staff/ping", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d", resp.Code)
	}
}

func TestStaffCustomerListRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/staff/customers", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/staff/customers", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d", resp.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{
		"/api/public/ping",
		"/api/public/v1/products",
		"/api/public/v1/categories",
		"/api/public/v1/brands",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
		if got := resp.Header().Get("X-Kazidomi-Env"); got != "test" {
			t.Fatalf("expected env header for %s got %q", path, got)
		}
	}
}
