package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/margindesk/margindesk-backend/api/controllers"
	"github.com/margindesk/margindesk-backend/api/middleware"
	"github.com/margindesk/margindesk-backend/internal/ads"
	"github.com/margindesk/margindesk-backend/internal/auth"
	"github.com/margindesk/margindesk-backend/internal/catalog"
	"github.com/margindesk/margindesk-backend/internal/costing"
	"github.com/margindesk/margindesk-backend/internal/decision"
	"github.com/margindesk/margindesk-backend/internal/listings"
	"github.com/margindesk/margindesk-backend/internal/marketplaces"
	"github.com/margindesk/margindesk-backend/internal/pricing"
	"github.com/margindesk/margindesk-backend/pkg/auth/session"
	"github.com/margindesk/margindesk-backend/pkg/config"
	"github.com/margindesk/margindesk-backend/pkg/db"
	"github.com/margindesk/margindesk-backend/pkg/logger"
	"github.com/margindesk/margindesk-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	catalogService catalog.Service,
	marketplacesService marketplaces.Service,
	listingsService listings.Service,
	adsService ads.Service,
	costingService costing.Service,
	pricingService pricing.Service,
	decisionService decision.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/materials", func(r chi.Router) {
			r.Post("/", controllers.MaterialsCreate(catalogService, logg))
			r.Get("/", controllers.MaterialsList(catalogService, logg))
			r.Get("/{materialId}", controllers.MaterialsDetail(catalogService, logg))
			r.Patch("/{materialId}", controllers.MaterialsUpdate(catalogService, logg))
			r.Delete("/{materialId}", controllers.MaterialsDelete(catalogService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductsCreate(catalogService, logg))
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductsDetail(catalogService, logg))
			r.Patch("/{productId}", controllers.ProductsUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductsDelete(catalogService, logg))

			r.Get("/{productId}/cost", controllers.CostingProductCost(costingService, logg))

			r.Route("/{productId}/bom", func(r chi.Router) {
				r.Post("/", controllers.BOMLineAdd(catalogService, logg))
				r.Patch("/{lineId}", controllers.BOMLineUpdate(catalogService, logg))
				r.Delete("/{lineId}", controllers.BOMLineRemove(catalogService, logg))
			})

			r.Route("/{productId}/extra-costs", func(r chi.Router) {
				r.Post("/", controllers.ExtraCostAdd(catalogService, logg))
				r.Patch("/{extraId}", controllers.ExtraCostUpdate(catalogService, logg))
				r.Delete("/{extraId}", controllers.ExtraCostRemove(catalogService, logg))
			})
		})

		r.Route("/marketplaces", func(r chi.Router) {
			r.Post("/", controllers.MarketplacesCreate(marketplacesService, logg))
			r.Get("/", controllers.MarketplacesList(marketplacesService, logg))
			r.Patch("/{marketplaceId}", controllers.MarketplacesRename(marketplacesService, logg))
			r.Delete("/{marketplaceId}", controllers.MarketplacesDelete(marketplacesService, logg))
		})

		r.Route("/fee-definitions", func(r chi.Router) {
			r.Post("/", controllers.FeeDefinitionsCreate(marketplacesService, logg))
			r.Get("/", controllers.FeeDefinitionsList(marketplacesService, logg))
			r.Patch("/{definitionId}", controllers.FeeDefinitionsUpdate(marketplacesService, logg))
			r.Delete("/{definitionId}", controllers.FeeDefinitionsDelete(marketplacesService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoresCreate(marketplacesService, logg))
			r.Get("/", controllers.StoresList(marketplacesService, logg))
			r.Get("/{storeId}", controllers.StoresDetail(marketplacesService, logg))
			r.Patch("/{storeId}", controllers.StoresUpdate(marketplacesService, logg))
			r.Delete("/{storeId}", controllers.StoresDelete(marketplacesService, logg))

			r.Put("/{storeId}/fees", controllers.StoreFeeSet(marketplacesService, logg))
			r.Delete("/{storeId}/fees/{definitionId}", controllers.StoreFeeRemove(marketplacesService, logg))

			r.Get("/{storeId}/listings", controllers.ListingsByStore(listingsService, logg))

			r.Post("/{storeId}/ads/import", controllers.AdRecordsImport(adsService, logg))
			r.Route("/{storeId}/products/{productId}", func(r chi.Router) {
				r.Get("/ads", controllers.AdRecordsList(adsService, logg))
				r.Get("/ads/aggregate", controllers.AdRecordsAggregate(adsService, logg))
				r.Get("/pricing", controllers.PricingCalcStoreProduct(pricingService, logg))
				r.Get("/decision", controllers.DecisionsEvaluate(decisionService, logg))
			})
		})

		r.Route("/ad-records", func(r chi.Router) {
			r.Post("/", controllers.AdRecordsCreate(adsService, logg))
			r.Get("/{recordId}", controllers.AdRecordsDetail(adsService, logg))
			r.Patch("/{recordId}", controllers.AdRecordsUpdate(adsService, logg))
			r.Delete("/{recordId}", controllers.AdRecordsDelete(adsService, logg))
		})

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.ListingsCreate(listingsService, logg))
			r.Get("/{listingId}", controllers.ListingsDetail(listingsService, logg))
			r.Patch("/{listingId}/price", controllers.ListingsUpdatePrice(listingsService, logg))
			r.Delete("/{listingId}", controllers.ListingsDelete(listingsService, logg))

			r.Get("/{listingId}/pricing", controllers.PricingCalcListing(pricingService, logg))

			r.Route("/{listingId}/discounts", func(r chi.Router) {
				r.Post("/", controllers.DiscountAdd(listingsService, logg))
				r.Patch("/{discountId}", controllers.DiscountUpdate(listingsService, logg))
				r.Delete("/{discountId}", controllers.DiscountRemove(listingsService, logg))
			})

			r.Route("/{listingId}/fees", func(r chi.Router) {
				r.Put("/", controllers.ListingFeeSet(listingsService, logg))
				r.Delete("/{definitionId}", controllers.ListingFeeRemove(listingsService, logg))
			})
		})

		r.Post("/pricing/reverse", controllers.PricingReverse(pricingService, logg))
	})

	return r
}
