package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type Server struct {
	listenAddr string
	ginEngine  *gin.Engine
	inner      *http.Server
}

func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(getGinMode(cfg.Environment))
	r := gin.New()

	// Setup logger middleware
	r.Use(logger.SetLogger(
		logger.WithUTC(true),
		logger.WithSkipPath([]string{"/healthz"}),
	))

	// Setup CORS middleware
	r.Use(cors.New(
		cors.Config{
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowOrigins:     []string{"*"},
			AllowHeaders:     []string{"*"},
			ExposeHeaders:    []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		},
	))

	// Serve the bundled front-end, when one is deployed alongside
	r.Use(static.Serve("/", static.LocalFile("./web/dist", true)))
	r.Use(gin.Recovery())

	listenAddr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return &Server{
		listenAddr: listenAddr,
		ginEngine:  r,
		inner: &http.Server{
			Handler: r,
			Addr:    listenAddr,
		},
	}, nil
}

// Handler exposes the underlying engine, used by tests to serve
// requests without binding a port.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return s.inner.Shutdown(ctx)
}

func getGinMode(env string) string {
	switch env {
	case "dev":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
