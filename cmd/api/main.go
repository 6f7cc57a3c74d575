package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"catalog-sync-shopify-layer/internal/application"
	"catalog-sync-shopify-layer/internal/application/webhook_handlers"
	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/infrastructure/cache"
	"catalog-sync-shopify-layer/internal/infrastructure/metrics"
	"catalog-sync-shopify-layer/internal/infrastructure/pubsub"
	"catalog-sync-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "catalog-sync-shopify-layer/internal/infrastructure/shopify"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Record store: MongoDB when configured, in-memory otherwise
	var productRepo ports.ProductRepository
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		db := client.Database(os.Getenv("MONGODB_DATABASE"))
		productRepo = repository.NewMongoProductRepository(db)
	} else {
		logger.Warn().Msg("MONGODB_URI not set, using in-memory product store")
		productRepo = repository.NewMemoryProductRepository()
	}

	// Sync status cache: Redis, optional
	var statusCache ports.SyncStatusCache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: redisAddr})
		defer redisClient.Close()
		statusCache = cache.NewRedisStatusCache(redisClient)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, sync status will not be recorded")
	}

	// Shopify listing client with rate limiting and retry
	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	accessToken := os.Getenv("SHOPIFY_ACCESS_TOKEN")
	if accessToken == "" {
		logger.Fatal().Msg("SHOPIFY_ACCESS_TOKEN environment variable is required")
	}

	rateLimiter := shopifyinfra.NewRateLimiter(logger)
	retryConfig := shopifyinfra.DefaultRetryConfig()
	lister := shopifyinfra.NewListingClientWithOptions(
		apiKey, apiSecret, accessToken,
		rateLimiter, retryConfig, logger,
	)

	pageSize := application.DefaultPageSize
	if v := os.Getenv("SYNC_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}

	// Emission seam: Prometheus counters plus in-process pub/sub
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(registry)
	syncPubSub := pubsub.NewSyncPubSub(logger)
	emitter := ports.MultiEmitter{recorder, syncPubSub}

	// Synchronization core
	walker := application.NewProductWalker(lister, pageSize, logger)
	bulk := application.NewBulkSynchronizer(walker, productRepo, emitter, logger)
	ingestor := application.NewEventIngestor(productRepo, logger)
	coordinator := application.NewSyncCoordinator(bulk, ingestor, statusCache, emitter, logger)

	// Webhook dispatcher and handlers
	webhookDispatcher := webhook_handlers.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductHandler(coordinator, logger))

	webhookSecret := os.Getenv("SHOPIFY_WEBHOOK_SECRET")
	if webhookSecret == "" {
		logger.Fatal().Msg("SHOPIFY_WEBHOOK_SECRET environment variable is required")
	}
	webhookVerifier := shopifyinfra.NewWebhookVerifier(webhookSecret)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":             "ok",
			"sync_subscriptions": syncPubSub.GetStats()["active_subscriptions"],
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Synchronization endpoints
	r.Post("/sync/{shop}", syncHandler(coordinator, logger))
	r.Get("/sync/{shop}/status", syncStatusHandler(coordinator, logger))
	r.Get("/sync/events", syncEventsHandler(syncPubSub, logger))

	// Catalog read endpoint
	r.Get("/shops/{shop}/products", listProductsHandler(productRepo, logger))

	// Webhook endpoint: POST /webhooks/shopify
	r.Post("/webhooks/shopify", webhookHandler(webhookVerifier, webhookDispatcher, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting catalog sync server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// syncHandler triggers a full bulk synchronization for a shop
func syncHandler(coordinator *application.SyncCoordinator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		shop := chi.URLParam(r, "shop")
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		report, err := coordinator.SyncAll(ctx, shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Bulk synchronization failed")
			if domain.IsTransport(err) {
				http.Error(w, "Remote catalog unavailable", http.StatusBadGateway)
				return
			}
			http.Error(w, "Synchronization failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// syncStatusHandler returns the last recorded bulk run outcome for a shop
func syncStatusHandler(coordinator *application.SyncCoordinator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		shop := chi.URLParam(r, "shop")
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		status, err := coordinator.LastSyncStatus(ctx, shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to read sync status")
			http.Error(w, "Failed to read sync status", http.StatusInternalServerError)
			return
		}
		if status == nil {
			http.Error(w, "No sync recorded for shop", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// listProductsHandler returns the locally stored catalog for a shop
func listProductsHandler(repo ports.ProductRepository, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		shop := chi.URLParam(r, "shop")
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		products, err := repo.ListProducts(ctx, shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to list products")
			http.Error(w, "Failed to list products", http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []*domain.Product{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": products,
		})
	}
}

// syncEventsHandler streams synchronization progress events as server-sent
// events. An optional shop query parameter narrows the stream to one shop.
func syncEventsHandler(syncPubSub *pubsub.SyncPubSub, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		channel := syncPubSub.Subscribe(r.Context(), &pubsub.SyncEventFilter{
			Shop: r.URL.Query().Get("shop"),
		})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher.Flush()

		for {
			select {
			case event, ok := <-channel.Events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to encode sync event")
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}

// webhookHandler verifies and dispatches Shopify webhook requests. The core
// only ever sees payloads that passed HMAC verification here.
func webhookHandler(
	verifier *shopifyinfra.WebhookVerifier,
	dispatcher *webhook_handlers.WebhookDispatcher,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Get webhook topic from header
		topic := r.Header.Get("X-Shopify-Topic")
		if topic == "" {
			logger.Warn().Msg("Missing X-Shopify-Topic header")
			http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
			return
		}

		// Read request body
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		// Verify webhook signature
		hmacHeader := r.Header.Get("X-Shopify-Hmac-SHA256")
		if err := verifier.Verify(payload, hmacHeader); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		shop := r.Header.Get("X-Shopify-Shop-Domain")

		event := &domain.WebhookEvent{
			Topic:    topic,
			Shop:     shop,
			Payload:  payload,
			Verified: true,
		}

		if err := dispatcher.Dispatch(ctx, event); err != nil {
			if domain.IsValidation(err) {
				logger.Warn().Err(err).Str("topic", topic).Msg("Webhook payload failed validation")
				http.Error(w, "Missing required product data", http.StatusBadRequest)
				return
			}

			logger.Error().
				Err(err).
				Str("topic", topic).
				Str("shop", shop).
				Msg("Failed to dispatch webhook event")

			// Return 500 to trigger Shopify retry
			http.Error(w, "Failed to process webhook event", http.StatusInternalServerError)
			return
		}

		// Return success
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"received": "true",
		})
	}
}
