// Package server exposes the matching engine over HTTP. It is a
// read-only surface; applying a match belongs to the reconciliation
// workflow, not this service.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revlinelabs/revline/internal/config"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Start),
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	log    *zap.Logger
	cfg    config.Config

	matchsvc matchingdomain.Service
}

type ServerParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	MatchSvc matchingdomain.Service
}

func NewServer(p ServerParam) *Server {
	s := &Server{
		db:       p.DB,
		log:      p.Log.Named("server"),
		cfg:      p.Cfg,
		matchsvc: p.MatchSvc,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.RequestID())
	engine.Use(s.AccessLog())

	s.engine = engine
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", metricsHandler())

	v1 := s.engine.Group("/v1")
	v1.Use(s.OrgRequired())
	{
		v1.GET("/deposit-lines/:id/match-candidates", s.MatchDepositLine)
		v1.GET("/deposit-lines/:id/match-suggestions", s.MatchDepositLineSuggestions)
	}
}

// @Summary      Health check
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /healthz [get]
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Start(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
