package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/avolkhin/docchat-backend/internal/api"
	chatapi "github.com/avolkhin/docchat-backend/internal/api/chat"
	documentapi "github.com/avolkhin/docchat-backend/internal/api/document"
	"github.com/avolkhin/docchat-backend/internal/api/modelconfig"
	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/history"
	"github.com/avolkhin/docchat-backend/internal/integration/embedding"
	"github.com/avolkhin/docchat-backend/internal/integration/vectorstore"
	"github.com/avolkhin/docchat-backend/internal/pkg/validator"
	"github.com/avolkhin/docchat-backend/internal/repository"
	"github.com/avolkhin/docchat-backend/internal/settings"
	"github.com/avolkhin/docchat-backend/internal/storage"
	"github.com/avolkhin/docchat-backend/internal/usecase/chat"
	"github.com/avolkhin/docchat-backend/internal/usecase/document"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize storage
	fileStore, err := storage.NewLocalStore(cfg.UploadDir, logger)
	if err != nil {
		return nil, fmt.Errorf("setup file storage: %w", err)
	}

	documentRepo := repository.NewDocumentCache()
	historyLog := history.NewLog()
	logger.Info("Storage initialized", zap.String("upload_dir", cfg.UploadDir))

	// Initialize runtime settings from config defaults
	settingsSvc := settings.NewService(entity.ModelConfig{
		Embedding:  cfg.EmbeddingCfg.Url,
		Generation: cfg.GenerationEndpoint,
		RAG: entity.RAGSettings{
			ChunkSize:        cfg.RAGCfg.ChunkSize,
			ChunkOverlap:     cfg.RAGCfg.ChunkOverlap,
			TopK:             cfg.RAGCfg.TopK,
			HybridSearch:     cfg.RAGCfg.HybridSearch,
			RerankingEnabled: cfg.RAGCfg.RerankingEnabled,
		},
	})

	// Initialize external service connectors (with mock support)
	var (
		docEmbedder  document.EmbeddingConnector
		docStore     document.VectorStoreConnector
		chatEmbedder chat.EmbeddingConnector
		chatStore    chat.VectorStoreConnector
	)

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		mockEmbedder := embedding.NewMockConnector(logger)
		mockStore := vectorstore.NewMockStore(logger)
		docEmbedder, chatEmbedder = mockEmbedder, mockEmbedder
		docStore, chatStore = mockStore, mockStore
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConnector := embedding.NewConnector(cfg.EmbeddingCfg, logger)
		vectorStoreConnector := vectorstore.NewConnector(cfg.VectorStoreCfg, logger)
		docEmbedder, chatEmbedder = embeddingConnector, embeddingConnector
		docStore, chatStore = vectorStoreConnector, vectorStoreConnector
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	documentUC := document.NewUsecase(
		documentRepo,
		fileStore,
		docEmbedder,
		docStore,
		settingsSvc,
		logger,
	)

	chatUC := chat.NewUsecase(
		chatEmbedder,
		chatStore,
		historyLog,
		settingsSvc,
		cfg.StreamCfg.TokenDelay,
		cfg.StreamCfg.BufferSize,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	documentHandler := documentapi.NewHandler(documentUC, fileValidator, cfg.FileUploadCfg.MaxUploadSize)
	chatHandler := chatapi.NewHandler(chatUC, fileValidator)
	configHandler := modelconfig.NewHandler(settingsSvc)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(documentHandler, chatHandler, configHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := newServer(cfg.ServerAddr, router)

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// newServer builds the HTTP server. There is no WriteTimeout: streamed chat
// responses pace tokens over the response body for longer than any fixed
// write deadline, and a deadline would sever the stream before its terminal
// event. Per-request limits come from the router's timeout middleware.
func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
