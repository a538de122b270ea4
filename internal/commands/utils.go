package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/pdfdigest/pkg/digest/config"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
	"github.com/cognicore/pdfdigest/pkg/digest/store/memstore"
	"github.com/cognicore/pdfdigest/pkg/digest/store/mongostore"
	"github.com/cognicore/pdfdigest/pkg/digest/store/sqlite"
)

// LoadConfig reads --config and applies the global log flags on top.
func LoadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.Bool("quiet") {
		cfg.Log.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the structured logger described by cfg.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenStore opens the configured persistence backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		return st, nil
	case config.DriverMongo:
		return mongostore.Open(ctx, mongostore.Options{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
