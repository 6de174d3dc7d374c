package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecadmin/internal/config"
	"ecadmin/internal/observability"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// Server はechoとその周辺の設定をまとめたもの
type Server struct {
	echo            *echo.Echo
	addr            string
	shutdownTimeout time.Duration
	log             *zap.Logger
}

func New(cfg config.Config, log *zap.Logger, metrics *observability.Metrics, h Handlers) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// /products/ と /products を同じルートにする
	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.CORS())
	e.Use(echo.WrapMiddleware(secureHeaders(cfg).Handler))
	if cfg.RateLimitPerMinute > 0 {
		e.Use(echo.WrapMiddleware(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)))
	}
	e.Use(metrics.Middleware())

	RegisterRoutes(e, cfg, metrics, h)

	return &Server{
		echo:            e,
		addr:            cfg.Addr(),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
	}
}

// テスト用
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start はctxがキャンセルされるまで待ち受け、その後graceful shutdownする。
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server started", zap.String("addr", s.addr))
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func secureHeaders(cfg config.Config) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !cfg.IsProduction(),
	})
}

// 1リクエスト1行のアクセスログ
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			if v.Status >= http.StatusInternalServerError {
				log.Error("request", fields...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
