package kompas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kompas-ai/kompas/kompas/session"
)

type Server struct {
	e   *echo.Echo
	cfg Config

	ctx context.Context
}

func NewHttp(ctx context.Context, cfg Config) (Server, error) {

	// kompas instance
	k, err := New(ctx, &cfg)
	if err != nil {
		return Server{}, err
	}

	// http server
	e := echo.New()

	// http handler
	RestHandler(k, session.NewManager(k), e)

	// prometheus scrape endpoint
	if cfg.Observe.Enable && cfg.Observe.Exporter == ExporterPrometheus {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return Server{e: e, cfg: cfg, ctx: ctx}, nil
}

func (s *Server) Start() error {
	var err error

	// start observability
	shutdown, err := InitObservability(s.ctx, "kompas-server", s.cfg.Observe)
	if err != nil {
		return fmt.Errorf("failed init observability: %w", err)
	}

	// start echo
	go func() {
		<-s.ctx.Done()

		slog.Info("shutdown observability providers...")
		if xerr := shutdown(context.Background()); xerr != nil {
			err = errors.Join(err, xerr)
		}

		slog.Info("shutdown http server...")
		if xerr := s.e.Shutdown(context.Background()); xerr != nil {
			err = errors.Join(err, xerr)
		}

	}()

	if xerr := s.e.Start(s.cfg.Server.Address); !errors.Is(xerr, http.ErrServerClosed) {
		err = errors.Join(err, xerr)
		return err
	}
	return err
}
