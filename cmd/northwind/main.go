package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mytheresa/northwind-console/app/categories"
	"github.com/mytheresa/northwind-console/app/config"
	"github.com/mytheresa/northwind-console/app/console"
	"github.com/mytheresa/northwind-console/app/database"
	"github.com/mytheresa/northwind-console/app/logger"
	"github.com/mytheresa/northwind-console/app/products"
	"github.com/mytheresa/northwind-console/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	out, closeLog, err := logger.OpenOutput(cfg.Logger.Output)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.New(cfg.Logger, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Error().Err(err).Msg("schema migration failed")
			return err
		}
	}

	productHandler := products.NewProductHandler(models.NewProductsRepository(db), log)
	categoryHandler := categories.NewCategoryHandler(models.NewCategoriesRepository(db), log)

	err = console.New(os.Stdin, os.Stdout, productHandler, categoryHandler, log).Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info().Msg("interrupted")
	case err != nil:
		log.Error().Err(err).Msg("reading input")
		return err
	}

	log.Info().Msg("program ended")
	return nil
}
