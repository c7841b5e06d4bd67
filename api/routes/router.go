package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prachya-dev/saithong-backend/api/controllers"
	"github.com/prachya-dev/saithong-backend/api/middleware"
	"github.com/prachya-dev/saithong-backend/internal/address"
	checkoutsvc "github.com/prachya-dev/saithong-backend/internal/checkout"
	locationsvc "github.com/prachya-dev/saithong-backend/internal/locations"
	stocksvc "github.com/prachya-dev/saithong-backend/internal/stock"
	"github.com/prachya-dev/saithong-backend/pkg/config"
	"github.com/prachya-dev/saithong-backend/pkg/db"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
	"github.com/prachya-dev/saithong-backend/pkg/redis"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Idempotency redis.IdempotencyStore
	Resolver    *address.Resolver
	Locations   locationsvc.Service
	Stock       stocksvc.Service
	Checkout    checkoutsvc.Service
	Registry    *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	idemStore := deps.Idempotency
	if idemStore == nil && deps.Redis != nil {
		idemStore = deps.Redis
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/geo", func(r chi.Router) {
			r.Get("/provinces", controllers.GeoProvinces(deps.Resolver, logg))
			r.Get("/provinces/{provinceID}/districts", controllers.GeoDistricts(deps.Resolver, logg))
			r.Get("/districts/{districtID}/sub-districts", controllers.GeoSubDistricts(deps.Resolver, logg))
			r.Get("/postal-codes/{code}", controllers.GeoPostalCandidates(deps.Resolver, logg))
			r.Get("/search", controllers.GeoSearch(deps.Resolver, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/locations", func(r chi.Router) {
				r.Get("/", controllers.ListLocations(deps.Locations, logg))
				r.Post("/", controllers.CreateLocation(deps.Locations, logg))
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", controllers.GetLocation(deps.Locations, logg))
					r.Patch("/", controllers.UpdateLocation(deps.Locations, logg))
					r.Delete("/", controllers.DeleteLocation(deps.Locations, logg))

					r.Post("/products", controllers.AssignProduct(deps.Stock, logg))
					r.Delete("/products/{productID}", controllers.UnassignProduct(deps.Stock, logg))

					r.Get("/stock/{productID}", controllers.GetStock(deps.Stock, logg))
					r.Put("/stock/{productID}", controllers.MutateStock(deps.Stock, logg))
					r.Put("/stock/{productID}/availability", controllers.SetStockAvailability(deps.Stock, logg))
					r.Get("/low-stock", controllers.LowStock(deps.Stock, logg))
				})
			})
			r.Post("/stock/transfers", controllers.TransferStock(deps.Stock, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.ListAddresses(deps.Checkout, logg))
			r.Post("/", controllers.CreateAddress(deps.Checkout, deps.Resolver, logg))
			r.Delete("/{id}", controllers.DeleteAddress(deps.Checkout, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/placement", controllers.ResolvePlacement(deps.Checkout, logg))
			r.Post("/commit", controllers.CommitPlacement(deps.Checkout, logg))
		})
	})

	return r
}
