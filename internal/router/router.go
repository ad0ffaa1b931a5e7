package router

import (
	"net/http"

	"bloomkart/internal/handler"
	"bloomkart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Product *handler.ProductHandler
	Coupon  *handler.CouponHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Return  *handler.ReturnHandler
	Payment *handler.PaymentHandler
}

// New creates the HTTP router with all routes and middleware configured.
// Admin routes sit behind the X-API-Key check; everything else identifies
// the caller by the X-User-ID / X-Session-ID headers.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Identity)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", h.Product.GetAll)
			pr.Get("/{id}", h.Product.GetByID)
		})

		api.Route("/search", func(sr chi.Router) {
			sr.Get("/", h.Product.Search)
			sr.Get("/suggestions", h.Product.Suggestions)
			sr.Get("/categories", h.Product.Categories)
			sr.Get("/price-ranges", h.Product.PriceRanges)
		})

		api.Route("/coupons", func(cr chi.Router) {
			cr.Post("/validate", h.Coupon.Validate)
			cr.Post("/apply", h.Coupon.Apply)
			cr.Get("/available", h.Coupon.Available)

			cr.Group(func(admin chi.Router) {
				admin.Use(middleware.APIKeyAuth(apiKey, logger))
				admin.Get("/", h.Coupon.List)
				admin.Post("/", h.Coupon.Create)
				admin.Post("/bulk", h.Coupon.BulkImport)
				admin.Get("/{id}", h.Coupon.GetByID)
				admin.Put("/{id}", h.Coupon.Update)
				admin.Delete("/{id}", h.Coupon.Delete)
				admin.Get("/{id}/stats", h.Coupon.Stats)
			})
		})

		api.Route("/cart", func(cr chi.Router) {
			cr.Get("/", h.Cart.Get)
			cr.Delete("/", h.Cart.Clear)
			cr.Post("/items", h.Cart.AddItem)
			cr.Put("/items/{productId}", h.Cart.UpdateItem)
			cr.Delete("/items/{productId}", h.Cart.RemoveItem)
			cr.Post("/coupons", h.Cart.ApplyCoupon)
			cr.Delete("/coupons/{couponId}", h.Cart.RemoveCoupon)
		})

		api.Route("/orders", func(or chi.Router) {
			or.Post("/", h.Order.Create)
			or.Get("/me", h.Order.ListMine)
			or.Get("/{id}", h.Order.GetByID)
			or.Put("/{id}/cancel", h.Order.Cancel)
		})

		api.Route("/returns", func(rr chi.Router) {
			rr.Post("/", h.Return.Create)
			rr.Get("/my-returns", h.Return.ListMine)
			rr.Get("/check-eligibility/{orderId}", h.Return.CheckEligibility)

			rr.Group(func(admin chi.Router) {
				admin.Use(middleware.APIKeyAuth(apiKey, logger))
				admin.Get("/admin", h.Return.AdminList)
				admin.Put("/admin/{id}/status", h.Return.AdminUpdateStatus)
			})

			rr.Get("/{id}", h.Return.GetByID)
			rr.Put("/{id}", h.Return.Update)
			rr.Delete("/{id}", h.Return.Cancel)
		})

		api.Route("/payment", func(pr chi.Router) {
			pr.Post("/create-order", h.Payment.CreateOrder)
			pr.Post("/verify-payment", h.Payment.VerifyPayment)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.APIKeyAuth(apiKey, logger))
			admin.Put("/admin/orders/{id}", h.Order.AdminUpdateStatus)
		})
	})

	return r
}
