package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/twa-market/marketplace-go-app/internal/catalog"
	"github.com/twa-market/marketplace-go-app/internal/deal"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/middleware"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/services"
	"github.com/twa-market/marketplace-go-app/internal/store"
	"github.com/twa-market/marketplace-go-app/pkg/config"
)

// App holds application dependencies
type App struct {
	config         *config.Config
	metrics        *metrics.AppMetrics
	dealService    *services.DealService
	catalogService *services.CatalogService
	paymentService *services.PaymentService
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.Config,
	m *metrics.AppMetrics,
	ds *services.DealService,
	cs *services.CatalogService,
	ps *services.PaymentService,
) *App {
	return &App{
		config:         cfg,
		metrics:        m,
		dealService:    ds,
		catalogService: cs,
		paymentService: ps,
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	// Middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RecoverMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	// API Routes
	api := r.PathPrefix("/api").Subrouter()

	// Payment
	api.HandleFunc("/payment/create", a.CreatePaymentHandler).Methods("POST")

	// Deals
	api.HandleFunc("/deals", a.ListDealsHandler).Methods("GET")
	api.HandleFunc("/deals/cancel", a.CancelDealHandler).Methods("POST")
	api.HandleFunc("/deals/{id}", a.GetDealHandler).Methods("GET")
	api.HandleFunc("/deals/{id}/status", a.AdvanceDealHandler).Methods("PUT")

	// Catalog
	api.HandleFunc("/products", a.ListProductsHandler).Methods("GET")
	api.HandleFunc("/products/{id}", a.GetProductHandler).Methods("GET")

	// Favorites
	api.HandleFunc("/favorites", a.ListFavoritesHandler).Methods("GET")
	api.HandleFunc("/favorites", a.AddFavoriteHandler).Methods("POST")
	api.HandleFunc("/favorites/{id}", a.RemoveFavoriteHandler).Methods("DELETE")

	// Placeholder imagery
	api.HandleFunc("/placeholder/{width}/{height}", a.PlaceholderHandler).Methods("GET")

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	var cerr *services.ConfigurationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &cerr):
		writeError(w, http.StatusInternalServerError, cerr.Error())
	case errors.Is(err, deal.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// CreatePaymentHandler handles POST /api/payment/create
func (a *App) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Shop credentials are required even in stub mode
	if a.config.ShopID == "" || a.config.ShopSecretKey == "" {
		writeServiceError(w, &services.ConfigurationError{Missing: "payment gateway credentials"})
		return
	}

	payment, err := a.paymentService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CreatePaymentResponse{Success: true, Payment: payment})
}

// CancelDealHandler handles POST /api/deals/cancel
func (a *App) CancelDealHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CancelDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DealID == "" {
		writeError(w, http.StatusBadRequest, "dealId is required")
		return
	}

	d, err := a.dealService.Cancel(r.Context(), req.DealID, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CancelDealResponse{
		Success: true,
		Deal:    d,
		Message: "Order cancelled successfully",
	})
}

// ListDealsHandler handles GET /api/deals, optionally filtered by ?status=
func (a *App) ListDealsHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.DealStatus
	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		s := models.DealStatus(raw)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw))
			return
		}
		status = &s
	}

	deals, err := a.dealService.ListDeals(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if deals == nil {
		deals = []models.Deal{}
	}
	writeJSON(w, http.StatusOK, deals)
}

// GetDealHandler handles GET /api/deals/{id}
func (a *App) GetDealHandler(w http.ResponseWriter, r *http.Request) {
	d, err := a.dealService.GetDeal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AdvanceDealHandler handles PUT /api/deals/{id}/status
func (a *App) AdvanceDealHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AdvanceDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	d, err := a.dealService.Advance(r.Context(), mux.Vars(r)["id"], req.Status, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListProductsHandler handles GET /api/products with the filter/sort query
// parameters q, category, min_price, max_price, favorites and sort
func (a *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := catalog.Query{
		Search:        params.Get("q"),
		Category:      params.Get("category"),
		FavoritesOnly: params.Get("favorites") == "true",
		Sort:          catalog.SortNewest,
	}

	if raw := params.Get("sort"); raw != "" {
		key := catalog.SortKey(raw)
		if !key.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort %q", raw))
			return
		}
		q.Sort = key
	}

	minPrice, err := parsePrice(params.Get("min_price"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "min_price must be a number")
		return
	}
	maxPrice, err := parsePrice(params.Get("max_price"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "max_price must be a number")
		return
	}
	q.Price = catalog.NormalizeLegacyRange(minPrice, maxPrice)

	products, err := a.catalogService.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// GetProductHandler handles GET /api/products/{id}
func (a *App) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := a.catalogService.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListFavoritesHandler handles GET /api/favorites
func (a *App) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := a.catalogService.ListFavorites(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"favorites": ids})
}

// AddFavoriteHandler handles POST /api/favorites
func (a *App) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := a.catalogService.AddFavorite(r.Context(), req.ProductID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFavoriteHandler handles DELETE /api/favorites/{id}
func (a *App) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.catalogService.RemoveFavorite(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

const maxPlaceholderSize = 2000

// PlaceholderHandler handles GET /api/placeholder/{width}/{height} and
// returns an inline SVG of the requested dimensions for demo imagery
func (a *App) PlaceholderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	width, werr := strconv.Atoi(vars["width"])
	height, herr := strconv.Atoi(vars["height"])
	if werr != nil || herr != nil || width <= 0 || height <= 0 ||
		width > maxPlaceholderSize || height > maxPlaceholderSize {
		http.Error(w, "Invalid dimensions", http.StatusBadRequest)
		return
	}

	svg := fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%%" height="100%%" fill="#f3f4f6"/>
  <text x="50%%" y="50%%" font-family="Arial, sans-serif" font-size="14" fill="#9ca3af" text-anchor="middle" dy=".3em">%d x %d</text>
</svg>`, width, height, width, height)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write([]byte(svg))
}
