package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/querygate/pkg/config"
	"github.com/dmitrymomot/querygate/pkg/environment"
	"github.com/dmitrymomot/querygate/pkg/gateway"
	"github.com/dmitrymomot/querygate/pkg/health"
	"github.com/dmitrymomot/querygate/pkg/httpserver"
	"github.com/dmitrymomot/querygate/pkg/lifecycle"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/pg"
	"github.com/dmitrymomot/querygate/pkg/requestid"
	"github.com/dmitrymomot/querygate/pkg/spa"
	"github.com/dmitrymomot/querygate/pkg/supervisor"
	"github.com/dmitrymomot/querygate/svc/api"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"querygate"`
	Version  string `env:"APP_VERSION"`
	LogLevel string `env:"LOG_LEVEL"`

	Server     httpserver.Config
	Supervisor supervisor.Config
	Health     health.Config
	Gateway    gateway.Config
	Lifecycle  lifecycle.Config
	Static     spa.Config
}

func main() {
	if file := os.Getenv("ENV_FILE"); file != "" {
		if err := config.LoadEnv(file); err != nil {
			logger.New().Error("failed to load env file", logger.Error(err))
			os.Exit(1)
		}
	}

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		logger.New().Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	// DB_QUERY_TIMEOUT is fixed at startup. Connection settings are re-read by the connector on every dial.
	dbCfg, err := pg.LoadConfig()
	if err != nil {
		log.Error("invalid database configuration", logger.Error(err))
		os.Exit(1)
	}
	log.Info("database target", logger.Component("main"), slog.String("db", dbCfg.String()))

	sup := supervisor.NewFromConfig(
		pg.NewConnector(pg.WithLogger(log)),
		cfg.Supervisor,
		supervisor.WithLogger(log),
	)

	healthOpts := []health.Option{
		health.WithLogger(log),
		health.WithInfo("environment", string(env)),
		health.WithInfo("version", cfg.Version),
	}
	if cfg.Health.ProbeTimeout > 0 {
		healthOpts = append(healthOpts, health.WithProbeTimeout(cfg.Health.ProbeTimeout))
	}
	reporter := health.New(sup, healthOpts...)

	gwOpts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithValueLogging(cfg.Gateway.LogValues),
	}
	if dbCfg.QueryTimeout > 0 {
		gwOpts = append(gwOpts, gateway.WithQueryTimeout(dbCfg.QueryTimeout))
	}
	gw := gateway.New(sup, gwOpts...)

	router := api.Router(api.RouterOptions{
		Gateway:     gw,
		Health:      reporter,
		Static:      spa.Handler(cfg.Static),
		Environment: env,
		Logger:      log,
	})

	ctrlOpts := []lifecycle.Option{
		lifecycle.WithLogger(log),
		lifecycle.WithServerConfig(cfg.Server),
	}
	if cfg.Lifecycle.ShutdownGrace > 0 {
		ctrlOpts = append(ctrlOpts, lifecycle.WithShutdownGrace(cfg.Lifecycle.ShutdownGrace))
	}

	if err := lifecycle.New(sup, ctrlOpts...).Run(context.Background(), router); err != nil {
		os.Exit(1)
	}
}
