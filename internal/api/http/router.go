package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rental-backoffice/internal/repository"
	"rental-backoffice/internal/security"
	"rental-backoffice/internal/service"
)

// RouterConfig carries what the HTTP layer needs from the rest of the application
type RouterConfig struct {
	Rentals   service.RentalService
	Contracts service.ContractService
	Customers service.CustomerService
	Vehicles  service.VehicleService
	Photos    service.PhotoService
	Tokens    security.TokenManager
	Users     repository.UserRepository
	Location  *time.Location
	// Health reports whether the backing services are reachable. Nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) *mux.Router {
	rentals := NewRentalHandler(cfg.Rentals, cfg.Location)
	contracts := NewContractHandler(cfg.Contracts)
	customers := NewCustomerHandler(cfg.Customers, cfg.Location)
	vehicles := NewVehicleHandler(cfg.Vehicles)
	photos := NewPhotoHandler(cfg.Photos)
	auth := NewAuthMiddleware(cfg.Tokens, cfg.Users)

	router := mux.NewRouter()
	router.Use(RequestLogger, auth.Handler)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthHandler(cfg.Health)).Methods(http.MethodGet)

	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals", rentals.Create).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id}/close", rentals.Close).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/generate-contract", contracts.Generate).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/download-contract", contracts.Download).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/send-contract", contracts.Send).Methods(http.MethodPost)

	api.HandleFunc("/customers", customers.List).Methods(http.MethodGet)
	api.HandleFunc("/customers", customers.Create).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", customers.Get).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", customers.Update).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", customers.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/vehicles", vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", vehicles.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/categories/list", vehicles.Categories).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicles.Update).Methods(http.MethodPut)

	api.HandleFunc("/photos/rental/{rentalId}", photos.ListByRental).Methods(http.MethodGet)
	api.HandleFunc("/photos/{id}", photos.Delete).Methods(http.MethodDelete)

	router.NotFoundHandler = RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Risorsa non trovata")
	}))
	return router
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				writeFailure(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		writeData(w, http.StatusOK, "", map[string]string{"status": "ok"})
	}
}
