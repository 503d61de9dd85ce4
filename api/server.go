package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sales-forecaster/api/handlers"
	"github.com/OldStager01/sales-forecaster/api/middleware"
	"github.com/OldStager01/sales-forecaster/internal/metrics"
	"github.com/OldStager01/sales-forecaster/internal/simulator"
	"github.com/OldStager01/sales-forecaster/pkg/config"
)

// Server is a stand-in for the forecasting API, backed by the simulator.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.MockAPIConfig
	sim        *simulator.Simulator
	metrics    *metrics.Metrics
}

func NewServer(cfg config.MockAPIConfig, mode string, sim *simulator.Simulator) *Server {
	if mode == "production" || mode == "test" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		router:  gin.New(),
		config:  cfg,
		sim:     sim,
		metrics: metrics.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.Metrics(s.metrics))
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler("forecast-mock-api")
	metadataHandler := handlers.NewMetadataHandler(s.sim)
	predictHandler := handlers.NewPredictHandler(s.sim, s.metrics)

	s.router.GET("/health", healthHandler.Health)

	metadata := s.router.Group("/metadata")
	{
		metadata.GET("/regions", metadataHandler.Regions)
		metadata.GET("/products", metadataHandler.Products)
		metadata.GET("/subcategories", metadataHandler.Subcategories)
	}

	// /predict/by_fields is a static route and wins over the parameter.
	s.router.POST("/predict/by_fields", predictHandler.ByFields)
	s.router.POST("/predict/:model_type", predictHandler.ByModel)
	s.router.POST("/predict_csv", predictHandler.CSV)
	s.router.GET("/metrics", predictHandler.Metrics)

	// /metrics is the model evaluation endpoint, so server counters live here.
	s.router.GET("/debug/metrics", gin.WrapH(s.metrics.Handler()))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}
