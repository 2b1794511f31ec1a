// @title        formrelay API
// @version      1.0
// @description  Serializes HTML form submissions into JSON and relays them to validation services.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "formrelay/docs"
	"formrelay/internal/abn"
	"formrelay/internal/config"
	"formrelay/internal/database"
	"formrelay/internal/handlers"
	"formrelay/internal/logger"
	"formrelay/internal/pages"
	"formrelay/internal/store"
	"formrelay/internal/validation"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("ignoring LOG_LEVEL", zap.String("value", cfg.LogLevel))
	}

	reg, err := loadPages(cfg)
	if err != nil {
		logger.Fatal("invalid pages configuration", err)
	}

	if err := database.Migrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal("migration failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connection(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", err)
	}
	defer db.Close()

	client := validation.NewClient(cfg.ValidationTimeout)

	e := newServer()
	handlers.Register(e, reg, client, store.New(db))
	handlers.RegisterValidationService(e, newABNService(cfg, client))

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.Int("pages", len(reg.List())))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", err)
	}
}

func loadPages(cfg config.Config) (*pages.Registry, error) {
	if cfg.PagesFile != "" {
		return pages.Load(cfg.PagesFile)
	}
	return pages.NewRegistry(pages.Defaults(cfg.CurrencyEndpoint, cfg.FormEndpoint)...)
}

func newABNService(cfg config.Config, client *validation.Client) *abn.Service {
	if cfg.ABNLookupGUID == "" {
		logger.Warn("ABN_LOOKUP_GUID not set, register lookups will be rejected")
	}
	lookup := abn.NewLookup(client, cfg.ABNLookupURL, cfg.ABNLookupGUID, cfg.ABNLookupCallback)
	rules := abn.NewRules(client, abn.RuleServers{
		FirstName: cfg.RuleServers.FirstNameURL,
		LastName:  cfg.RuleServers.LastNameURL,
		ABN:       cfg.RuleServers.ABNURL,
		Username:  cfg.RuleServers.Username,
		Password:  cfg.RuleServers.Password,
	})
	return abn.NewService(lookup, rules)
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)
	e.StdLogger = zap.NewStdLog(logger.L())

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"X-Requested-With", echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Error("request", v.Error, fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return e
}
