package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aivanahq/aivana-backend/api/controllers"
	"github.com/aivanahq/aivana-backend/api/middleware"
	agentsvc "github.com/aivanahq/aivana-backend/internal/agent"
	authsvc "github.com/aivanahq/aivana-backend/internal/auth"
	cartsvc "github.com/aivanahq/aivana-backend/internal/cart"
	categorysvc "github.com/aivanahq/aivana-backend/internal/categories"
	paymentsvc "github.com/aivanahq/aivana-backend/internal/payments"
	productsvc "github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/pkg/config"
	"github.com/aivanahq/aivana-backend/pkg/logger"
	"github.com/aivanahq/aivana-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Redis      *redis.Client
	Registry   *prometheus.Registry
	Agent      *agentsvc.Service
	Auth       *authsvc.Service
	Products   *productsvc.Service
	Categories *categorysvc.Service
	Cart       *cartsvc.Service
	Payments   *paymentsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	chatPolicy := middleware.NewRateLimitPolicy("chat", cfg.RateLimit.ChatWindow, cfg.RateLimit.ChatLimit)
	var chatStore middleware.RateLimiterStore
	if deps.Redis != nil {
		chatStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		pingers := map[string]controllers.Pinger{"database": deps.DB}
		if deps.Redis != nil {
			pingers["redis"] = deps.Redis
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/ai", func(r chi.Router) {
		r.With(middleware.RateLimit(chatPolicy, chatStore, logg)).
			Post("/chat", controllers.Chat(deps.Agent, logg))
		r.Get("/conversation/{userId}", controllers.ConversationHistory(deps.Agent, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(deps.Categories, logg))
		r.Get("/{categoryId}", controllers.GetCategory(deps.Categories, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/{sessionId}", controllers.GetCart(deps.Cart, logg))
		r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
		r.Delete("/{sessionId}/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
		r.Patch("/{sessionId}", controllers.UpdateCartSession(deps.Cart, logg))
	})

	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", controllers.ListTransactions(deps.Payments, logg))
		r.Get("/{hash}", controllers.GetChainTransaction(deps.Payments, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/profile", controllers.Profile(deps.Auth, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListSellerProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Put("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(deps.Categories, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(deps.Categories, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(deps.Categories, logg))
		})
	})

	return r
}
