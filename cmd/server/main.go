// @title                       Project Registry API
// @version                     1.0
// @description                 Users, projects and bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs --outputTypes go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/project-registry/internal/app"
	"github.com/99minutos/project-registry/internal/infrastructure/config"
	"github.com/99minutos/project-registry/pkg/logger"
)

const (
	service      = "project-registry"
	closeTimeout = 15 * time.Second
)

func main() {
	boot := logger.New(logger.Options{Service: service})
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		boot.Fatal().Err(err).Msg("read .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, envconfig.OsLookuper(), os.Stdout)
	stop()
	if err != nil {
		boot.Fatal().Err(err).Msg("server stopped")
	}
}

// run serves until ctx is cancelled. Configuration is read through env and
// logs are written to out.
func run(ctx context.Context, env envconfig.Lookuper, out io.Writer) error {
	cfg, err := config.LoadFrom(ctx, env)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: service,
		Output:  out,
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	runErr := a.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if runErr != nil {
		return runErr
	}
	log.Info().Msg("bye")
	return nil
}
