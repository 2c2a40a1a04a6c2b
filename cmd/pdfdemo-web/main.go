// Command pdfdemo-web serves the in-browser PDF demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/clients"
	"github.com/pwnholic/pdfdemo/internal/config"
	"github.com/pwnholic/pdfdemo/internal/web"
)

func main() {
	var (
		addr       string
		configPath string
		timeout    time.Duration
	)
	flags := pflag.NewFlagSet("pdfdemo-web", pflag.ExitOnError)
	flags.StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "Listen address")
	flags.StringVarP(&configPath, "config", "c", config.DefaultFile, "Configuration file (optional)")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Time allowed to build the documents for one request")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pdfdemo-web [flags]")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if timeout <= 0 {
		fmt.Fprintln(os.Stderr, "--timeout must be positive")
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	level, err := internal.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = internal.INFO
	}
	internal.InitDefaultLogger(level)

	client := clients.NewAssetClient(clients.OptionsFromConfig(cfg.HTTP))
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	internal.Info("Serving the PDF demo on http://%s", addr)
	if err := web.ListenAndServe(ctx, addr, web.NewServer(cfg.Browser, client, timeout)); err != nil {
		internal.Error("Server stopped: %s", err)
		os.Exit(1)
	}
	internal.Success("Server stopped")
}
