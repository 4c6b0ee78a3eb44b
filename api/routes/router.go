package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdzoubir/kazidomi-api/api/controllers"
	"github.com/mdzoubir/kazidomi-api/api/middleware"
	"github.com/mdzoubir/kazidomi-api/internal/auth"
	"github.com/mdzoubir/kazidomi-api/internal/brands"
	cartsvc "github.com/mdzoubir/kazidomi-api/internal/cart"
	"github.com/mdzoubir/kazidomi-api/internal/categories"
	"github.com/mdzoubir/kazidomi-api/internal/customers"
	"github.com/mdzoubir/kazidomi-api/internal/messages"
	notificationsvc "github.com/mdzoubir/kazidomi-api/internal/notifications"
	ordersvc "github.com/mdzoubir/kazidomi-api/internal/orders"
	"github.com/mdzoubir/kazidomi-api/internal/payments"
	"github.com/mdzoubir/kazidomi-api/internal/products"
	"github.com/mdzoubir/kazidomi-api/internal/promotions"
	"github.com/mdzoubir/kazidomi-api/internal/reviews"
	"github.com/mdzoubir/kazidomi-api/internal/stock"
	"github.com/mdzoubir/kazidomi-api/pkg/auth/session"
	"github.com/mdzoubir/kazidomi-api/pkg/config"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services groups everything the router hands to controllers.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Categories    categories.Service
	Brands        brands.Service
	Products      products.Service
	Stock         stock.Service
	Cart          cartsvc.Service
	Orders        ordersvc.Service
	Customers     customers.Service
	Reviews       reviews.Service
	Notifications notificationsvc.Service
	Messages      messages.Service
	Payments      payments.Service
	Promotions    promotions.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/v1/products", controllers.ListProducts(svcs.Products, logg))
		r.Get("/v1/products/{productId}", controllers.GetProduct(svcs.Products, logg))
		r.Get("/v1/products/{productId}/reviews", controllers.ListProductReviews(svcs.Reviews, logg))
		r.Get("/v1/products/{productId}/stock", controllers.GetStockLevel(svcs.Stock, logg))
		r.Get("/v1/categories", controllers.ListCategories(svcs.Categories, logg))
		r.Get("/v1/categories/{categoryId}", controllers.GetCategory(svcs.Categories, logg))
		r.Get("/v1/brands", controllers.ListBrands(svcs.Brands, logg))
		r.Get("/v1/brands/{brandId}", controllers.GetBrand(svcs.Brands, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Register, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CreateCart(svcs.Cart, logg))
			r.Get("/{cartId}", controllers.GetCart(svcs.Cart, logg))
			r.Delete("/{cartId}", controllers.DeleteCart(svcs.Cart, logg))
			r.Post("/{cartId}/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Patch("/{cartId}/items/{itemId}", controllers.UpdateCartItem(svcs.Cart, logg))
			r.Delete("/{cartId}/items/{itemId}", controllers.RemoveCartItem(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/me", controllers.GetMyProfile(svcs.Customers, logg))
			r.Put("/me", controllers.UpdateMyProfile(svcs.Customers, logg))
			r.Route("/me/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListMyAddresses(svcs.Customers, logg))
				r.Post("/", controllers.CreateAddress(svcs.Customers, logg))
				r.Put("/{addressId}", controllers.UpdateAddress(svcs.Customers, logg))
				r.Delete("/{addressId}", controllers.DeleteAddress(svcs.Customers, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
			r.Post("/{productId}/reviews", controllers.CreateReview(svcs.Reviews, logg))
			r.Post("/{productId}/stock", controllers.RecordStockMovement(svcs.Stock, logg))
			r.Get("/{productId}/stock/movements", controllers.ListStockMovements(svcs.Stock, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Post("/", controllers.CreateBrand(svcs.Brands, logg))
			r.Put("/{brandId}", controllers.UpdateBrand(svcs.Brands, logg))
			r.Delete("/{brandId}", controllers.DeleteBrand(svcs.Brands, logg))
		})

		r.Delete("/reviews/{reviewId}", controllers.DeleteReview(svcs.Reviews, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListMyNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Delete("/{notificationId}", controllers.DeleteNotification(svcs.Notifications, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", controllers.SendMessage(svcs.Messages, logg))
			r.Get("/", controllers.ListInbox(svcs.Messages, logg))
			r.Get("/{userId}", controllers.GetConversation(svcs.Messages, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.RecordPayment(svcs.Payments, logg))
			r.Get("/", controllers.ListMyPayments(svcs.Payments, logg))
			r.Get("/{paymentId}", controllers.GetPayment(svcs.Payments, logg))
		})

		r.Get("/promotions", controllers.ListPromotions(svcs.Promotions, logg))
		r.Get("/promotions/{promotionId}", controllers.GetPromotion(svcs.Promotions, logg))

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleStaff, logg))
			r.Get("/ping", controllers.StaffPing())
			r.Post("/categories", controllers.CreateCategory(svcs.Categories, logg))
			r.Put("/categories/{categoryId}", controllers.UpdateCategory(svcs.Categories, logg))
			r.Delete("/categories/{categoryId}", controllers.DeleteCategory(svcs.Categories, logg))
			r.Patch("/orders/{orderId}/payment-status", controllers.UpdateOrderPaymentStatus(svcs.Orders, logg))
			r.Get("/customers", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/customers/{customerId}", controllers.GetCustomer(svcs.Customers, logg))
			r.Get("/payments", controllers.ListAllPayments(svcs.Payments, logg))
			r.Post("/promotions", controllers.CreatePromotion(svcs.Promotions, logg))
			r.Delete("/promotions/{promotionId}", controllers.DeletePromotion(svcs.Promotions, logg))
		})
	})

	return r
}
