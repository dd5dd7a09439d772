package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/brewery-backend/api/controllers"
	"github.com/angelmondragon/brewery-backend/api/middleware"
	"github.com/angelmondragon/brewery-backend/internal/beers"
	"github.com/angelmondragon/brewery-backend/pkg/config"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/metrics"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	beerService beers.Service,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	limits := pagination.Limits{
		DefaultSize: cfg.Catalog.DefaultPageSize,
		MaxSize:     cfg.Catalog.MaxPageSize,
	}.Normalized()

	r.Route("/api/v2", func(r chi.Router) {
		r.Route("/beer", func(r chi.Router) {
			r.Get("/", controllers.ListBeers(beerService, logg, limits))
			r.Post("/", controllers.CreateBeer(beerService, logg))
			r.Get("/{beerId}", controllers.GetBeerByID(beerService, logg))
			r.Put("/{beerId}", controllers.UpdateBeer(beerService, logg))
			r.Delete("/{beerId}", controllers.DeleteBeer(beerService, logg))
		})
		r.Get("/beerUpc/{upc}", controllers.GetBeerByUPC(beerService, logg))
	})

	return r
}
