package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quoteserver/comparison"
	"quoteserver/database"
	"quoteserver/documents"
	"quoteserver/extraction"
	"quoteserver/internal/config"
	"quoteserver/server/handlers"
	"quoteserver/server/middleware"
	"quoteserver/server/services"
)

// Server HTTP сервер сравнения коммерческих предложений
type Server struct {
	cfg        *config.Config
	store      *database.Store
	router     *gin.Engine
	httpServer *http.Server
	llmModel   string
}

// New создает сервер: подключает базу данных, настраивает LLM клиент
// и собирает цепочку сервисов и обработчиков
func New(cfg *config.Config) (*Server, error) {
	store, err := database.NewStoreWithConfig(cfg.DatabasePath, database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Printf("✓ Database connected: %s", cfg.DatabasePath)

	// LLM клиент опционален: без него сервер работает в режиме
	// хранения и сравнения уже извлеченных данных
	var llmClient *extraction.Client
	if cfg.LLMAPIKey != "" || cfg.LLMProvider == extraction.ProviderOllama {
		llmClient, err = extraction.NewClient(extraction.ClientConfig{
			Provider:          cfg.LLMProvider,
			Model:             cfg.LLMModel,
			APIKey:            cfg.LLMAPIKey,
			BaseURL:           cfg.LLMBaseURL,
			Timeout:           cfg.LLMTimeout,
			RequestsPerSecond: cfg.LLMRatePerSecond,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		log.Printf("✓ LLM client ready: provider=%s model=%s", llmClient.Provider(), llmClient.Model())
	} else {
		log.Println("⚠ LLM API key is not set, document extraction and recommendations are disabled")
	}

	var extractor services.Extractor
	var recommender comparison.RecommendationGenerator
	llmModel := ""
	if llmClient != nil {
		extractor = extraction.NewQuotationExtractor(llmClient)
		llmModel = llmClient.Model()
		if cfg.RecommendEnabled {
			recommender = extraction.NewRecommendationEngine(llmClient)
		}
	}

	comparator := comparison.NewComparator(nil, nil, recommender)

	quotationService := services.NewQuotationService(store, documents.NewLoader(), extractor)
	comparisonService := services.NewComparisonService(store, comparator)
	exportService := services.NewExportService(comparisonService, comparison.NewExporter())

	middleware.InitErrorMetrics()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	handlers.RegisterRoutes(router,
		handlers.NewQuotationHandler(quotationService),
		handlers.NewComparisonHandler(comparisonService, exportService),
		handlers.NewSystemHandler(store, cfg.LLMProvider, llmModel),
	)
	handlers.RegisterSwaggerRoutes(router, "localhost:"+cfg.Port)

	return &Server{
		cfg:      cfg,
		store:    store,
		router:   router,
		llmModel: llmModel,
	}, nil
}

// Router возвращает роутер для тестирования
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // извлечение через LLM может занимать минуты
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("✓ Server starting on port %s", s.cfg.Port)
	log.Printf("  Swagger UI: http://localhost:%s/swagger/index.html", s.cfg.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер с ожиданием завершения активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Initiating graceful shutdown...")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✓ Server stopped")
	return nil
}
