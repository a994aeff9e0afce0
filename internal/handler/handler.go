// Package handler exposes the storefront over a JSON HTTP API.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Products is the product catalog.
type Products interface {
	List(ctx context.Context) []product.Product
	Get(ctx context.Context, id int64) (*product.Product, error)
	ByCategory(ctx context.Context, category string) []product.Product
	Search(ctx context.Context, query string) []product.Product
	Related(ctx context.Context, id int64, limit int) []product.Product
	Complementary(ctx context.Context, id int64, limit int) []product.Product
	Detail(ctx context.Context, id int64) (*product.Detail, error)
}

// Categories resolves categories.
type Categories interface {
	All(ctx context.Context) []category.Category
	ByName(ctx context.Context, name string) (*category.Category, error)
	ByParentOf(ctx context.Context, subcategory string) (*category.Category, error)
}

// RecentlyViewed is the viewing history.
type RecentlyViewed interface {
	All(ctx context.Context) []product.Product
	TrackView(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
}

// Handler serves the API. It owns no state besides its collaborators.
type Handler struct {
	products   Products
	categories Categories
	cart       *cart.Store
	recent     RecentlyViewed
	validate   *validator.Validate
}

// New constructs a Handler.
func New(products Products, categories Categories, store *cart.Store, recent RecentlyViewed) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		cart:       store,
		recent:     recent,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the API router, to be mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httpmiddleware.LogRequests())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getProduct)
			r.Get("/detail", h.productDetail)
			r.Get("/related", h.relatedProducts)
			r.Get("/complementary", h.complementaryProducts)
		})
	})

	r.Get("/categories", h.listCategories)
	r.Get("/categories/{name}", h.getCategory)
	r.Get("/categories/{name}/subcategories", h.listSubcategories)
	r.Get("/subcategories/{name}/category", h.parentCategory)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Put("/items/{id}", h.updateCartItem)
		r.Delete("/items/{id}", h.removeCartItem)
	})

	r.Route("/recently-viewed", func(r chi.Router) {
		r.Get("/", h.listRecentlyViewed)
		r.Post("/", h.trackView)
		r.Delete("/", h.clearRecentlyViewed)
	})
	return r
}
