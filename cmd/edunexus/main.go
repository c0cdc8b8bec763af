package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/edunexus/internal/app"
	"github.com/dropDatabas3/edunexus/internal/config"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "edunexus:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "ruta al config YAML (vacío = defaults + env)")
	migrate := flag.Bool("migrate", false, "aplicar el esquema global al arrancar")
	flag.Parse()

	// .env es opcional; en prod las vars vienen del entorno real
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	if *migrate {
		cfg.Flags.Migrate = true
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: cfg.App.Name,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
