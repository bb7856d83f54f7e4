// One-shot legacy-library import: reads a library XML export into the
// catalog and prints what landed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/mkeller/aria/internal/catalog"
	"github.com/mkeller/aria/internal/config"
	"github.com/mkeller/aria/internal/importer"
)

func main() {
	dbPath := flag.String("db", "", "catalog database path (default: user data dir)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-db path] <library.xml>\n", os.Args[0])
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	path := *dbPath
	if path == "" {
		if cfg, err := config.Load(); err == nil {
			path = cfg.DatabasePath
		}
	}

	store, err := catalog.Open(path)
	if err != nil {
		logger.Fatal("open catalog", "err", err)
	}
	defer store.Close() //nolint:errcheck

	imp := importer.New(store, logger, func(imported int) {
		if imported%1000 == 0 {
			logger.Info("importing", "tracks", imported)
		}
	})
	if err := imp.ImportFile(flag.Arg(0)); err != nil {
		logger.Fatal("import failed", "err", err)
	}

	stats, err := store.Stats()
	if err != nil {
		logger.Fatal("stats", "err", err)
	}

	fmt.Printf("imported catalog:\n")
	fmt.Printf("  tracks:    %s\n", humanize.Comma(stats.Tracks))
	fmt.Printf("  albums:    %s\n", humanize.Comma(stats.Albums))
	fmt.Printf("  artists:   %s\n", humanize.Comma(stats.Artists))
	fmt.Printf("  composers: %s\n", humanize.Comma(stats.Composers))
	fmt.Printf("  genres:    %s\n", humanize.Comma(stats.Genres))
	fmt.Printf("  playlists: %s\n", humanize.Comma(stats.Playlists))
	fmt.Printf("  size:      %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	fmt.Printf("  duration:  %ss\n", humanize.Comma(stats.TotalTimeMS/1000))
}
