// Command pdfdemo builds the simple and table demo documents from local
// assets and writes simple.pdf and table.pdf.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/config"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		internal.InitDefaultLogger(internal.INFO)
		internal.Error("Invalid configuration: %s", err)
		os.Exit(1)
	}
	level, err := internal.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = internal.INFO
	}
	internal.InitDefaultLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newGenerateProcess(cfg).run(ctx); err != nil {
		internal.Error("Something went wrong: %s", err)
		os.Exit(1)
	}
	internal.Success("Program completed in %v", time.Since(startTime))
}
