package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledwalk/app"
	"github.com/coreman2200/ledwalk/config"
	"github.com/coreman2200/ledwalk/model"
	"github.com/coreman2200/ledwalk/monotonic"
	"github.com/coreman2200/ledwalk/spi"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		debug      = flag.Bool("debug", false, "log every frame")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	level, _ := cfg.Level()
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	driver := cfg.Driver
	if *simOnly {
		driver = spi.Sim
	}

	// ---- Bus ----
	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}
	dev, err := spi.Open(driver, cfg.SPI.Port, model.MaxLeds)
	if err != nil && driver != spi.Sim {
		log.Warn().Err(err).
			Str("driver", string(driver)).
			Str("port", cfg.SPI.Port).
			Msg("SPI init failed; falling back to SIM")
		driver = spi.Sim
		dev, err = spi.Open(driver, "", model.MaxLeds)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("no output device")
	}
	defer func() {
		if err := dev.Halt(); err != nil {
			log.Warn().Err(err).Msg("blanking strip failed")
		}
		_ = dev.Close()
	}()

	// ---- Walk ----
	counter := monotonic.NewCounter(app.CoreClock)
	sched := monotonic.NewScheduler(counter)
	walk := app.New(dev, sched, app.WithLogger(log.With().Str("component", "walk").Logger()))

	log.Info().
		Str("driver", string(driver)).
		Str("device", dev.String()).
		Dur("period", app.Period.Duration(app.CoreClock)).
		Msg("ledwalk starting")

	if err := walk.Start(counter.Now()); err != nil {
		fatal(walk)
	}

	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer done()

	if err := walk.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(walk)
	}
	log.Info().Uint64("frames", walk.Frames()).Msg("shutting down")
}

// fatal reports the fault that halted the walk and exits.
func fatal(walk *app.Walk) {
	f := walk.Fault()
	if f == nil {
		log.Fatal().Str("state", walk.State().String()).Msg("walk stopped")
	}
	log.Fatal().EmbedObject(f.Diagnostic()).Err(f).Msg("walk halted")
}
