package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pokeshop-api/internal/pokemon"
	"github.com/angelmondragon/pokeshop-api/pkg/config"
	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

func main() {
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "pokedex-import"})

	_ = godotenv.Load()

	file := flag.String("file", "pokedex.json", "path to a pokedex JSON array")
	timeout := flag.Duration("timeout", 2*time.Minute, "abort the import after this long")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "pokedex-import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"file": *file,
	})

	f, err := os.Open(*file)
	requireResource(ctx, logg, "pokedex file", err)
	defer f.Close()

	rows, err := pokemon.ParsePokedex(f)
	requireResource(ctx, logg, "pokedex contents", err)

	dbClient, err := db.New(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	written, err := pokemon.Import(ctx, dbClient, rows)
	requireResource(ctx, logg, "import", err)

	logg.Info(logg.WithField(ctx, "rows", written), "pokedex imported")
	fmt.Printf("imported %d pokemon\n", written)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
