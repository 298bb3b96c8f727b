package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pace-org/pace-go/internal/config"
	"github.com/pace-org/pace-go/internal/facade"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
	"github.com/pace-org/pace-go/internal/storage/file"
	"github.com/pace-org/pace-go/internal/storage/memory"
	"github.com/pace-org/pace-go/internal/storage/sqlite"
)

// runtime bundles what every subcommand needs to talk to the core:
// the loaded config and a façade constructed over the configured
// backend.
type runtime struct {
	cfg    *config.AppConfig
	facade *facade.Facade
}

// openRuntime loads the configuration (discovering the default path
// when --config was not given) and constructs a façade over whichever
// backend it selects (spec §6.1).
func openRuntime(ctx context.Context) (*runtime, error) {
	path := configPath
	if path == "" {
		if discovered, err := config.DefaultConfigPath(); err == nil {
			path = discovered
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}

	f, err := facade.New(ctx, facade.Config{
		Backend:           backend,
		CategorySeparator: cfg.General.CategorySeparator,
	})
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, facade: f}, nil
}

func buildBackend(cfg *config.AppConfig) (storage.Store, error) {
	switch cfg.Storage.Kind {
	case config.StorageKindInMemory:
		return memory.New(memory.Config{CategorySeparator: cfg.General.CategorySeparator}), nil
	case config.StorageKindFile:
		return file.New(file.Config{
			Path:              cfg.Storage.Location,
			CategorySeparator: cfg.General.CategorySeparator,
		})
	case config.StorageKindDatabase:
		// Engine support is already checked by config.Load's call to
		// Validate before buildBackend ever runs.
		return sqlite.New(sqlite.Config{Path: cfg.Storage.Database.URL}), nil
	default:
		return nil, fmt.Errorf("pace: unknown storage kind %q", cfg.Storage.Kind)
	}
}

func (r *runtime) close(ctx context.Context) {
	_ = r.facade.Close(ctx)
}

// resolveTimeZone turns the --time-zone / --time-zone-offset flags into
// a pacetime.TimeZoneKind, falling back to the configured default zone
// when neither flag was given (spec §6.1 "default_time_zone").
func resolveTimeZone(name string, offsetMinutes int, offsetSet bool, cfg *config.AppConfig) pacetime.TimeZoneKind {
	if offsetSet {
		return pacetime.OffsetTimeZone(offsetMinutes)
	}
	if name != "" {
		return pacetime.NamedTimeZone(name)
	}
	if cfg.General.DefaultTimeZone != "" {
		return pacetime.NamedTimeZone(cfg.General.DefaultTimeZone)
	}
	return pacetime.NotSetTimeZone()
}

// resolveWallTime parses an optional "HH:MM" flag against today's date in
// the resolved zone, defaulting to the current instant when at is empty.
func resolveWallTime(at string, tz pacetime.TimeZoneKind, clock pacetime.Clock) (pacetime.DateTime, error) {
	if at == "" {
		return pacetime.Now(clock), nil
	}
	tod, err := pacetime.ParseHHMM(at)
	if err != nil {
		return pacetime.DateTime{}, err
	}
	now := pacetime.Now(clock).Time()
	loc, err := tz.Location(now)
	if err != nil {
		return pacetime.DateTime{}, err
	}
	today := pacetime.DateFromTime(now.In(loc))
	return pacetime.NewDateTime(today, tod, tz, clock)
}

// parseDateFlag parses a "YYYY-MM-DD" flag into a pacetime.Date.
func parseDateFlag(s string) (pacetime.Date, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day); err != nil {
		return pacetime.Date{}, fmt.Errorf("pace: invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return pacetime.NewDate(year, time.Month(month), day)
}
