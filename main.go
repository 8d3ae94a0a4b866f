package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tphakala/hotspots-go/cmd"
	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/logging"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := datastore.InitializeLogger(filepath.Join(settings.Log.Dir, "datastore.log")); err != nil {
		// File logging is best effort; the store falls back to stderr.
		logging.Structured().Warn("datastore file logger unavailable", "error", err)
	}
	defer func() { _ = datastore.CloseLogger() }()

	ctx, err := runtime.NewContext(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open hotspot store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = ctx.Close() }()

	if settings.Debug {
		logging.HumanReadable().Info("hotspot store open", "path", settings.Store.Path)
	}

	if err := cmd.RootCommand(ctx).Execute(); err != nil {
		if !errors.IsCancellation(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
