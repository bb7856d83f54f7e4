package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/mkeller/aria/internal/catalog"
	"github.com/mkeller/aria/internal/config"
	"github.com/mkeller/aria/internal/engine"
	"github.com/mkeller/aria/internal/errmsg"
	"github.com/mkeller/aria/internal/playback"
	"github.com/mkeller/aria/internal/player"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	store, err := catalog.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpCatalogOpen, err))
	}
	defer store.Close() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng := engine.New(store, engine.Settings{
		MediaRoot:         cfg.MediaPath,
		ManageFolders:     cfg.ManageFolders,
		AllowDeleteFromDB: cfg.AllowDeleteFromDB,
		AllowDeleteFiles:  cfg.AllowDeleteFiles,
	}, logger)

	session, err := playback.NewSessionStore("")
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpSessionRestore, err))
	}

	orch := playback.New(player.New(), session, eng.Requests(), eng.Playback(), cfg.Volume, logger)

	go eng.Run(ctx)
	go orch.Run(ctx)

	eng.Requests() <- engine.Init{}
	orch.Commands() <- playback.Init{}

	serveEvents(ctx, logger, eng.Events(), orch.States())
	return nil
}

// serveEvents drains both outbound streams until shutdown. A front
// end would consume these; standalone, notable events go to the log.
func serveEvents(ctx context.Context, logger *log.Logger, events <-chan engine.Event, states <-chan playback.AudioState) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch e := ev.(type) {
			case engine.RequestFailed:
				logger.Error(e.Error())
			case engine.Progress:
				if e.Done {
					logger.Info("operation finished", "phase", e.Phase, "count", e.Current)
				}
			case engine.CatalogChanged:
				logger.Debug("catalog changed", "tracks", e.Stats.Tracks)
			case engine.MediaRootSuggested:
				logger.Info("media root suggestion", "path", e.Path)
			}
		case st := <-states:
			logger.Debug("playback state", "playing", st.Playing, "position", st.Position)
		}
	}
}
