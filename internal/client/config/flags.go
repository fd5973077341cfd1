package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/flagx"
)

// parseFlags overlays cfg with the client flags found in args. Flags that
// belong to other parsers (such as -c) are skipped.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for opened documents")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval/time.Second), "online check interval (in seconds)")

	if err := flagx.Parse(fs, args); err != nil {
		return fmt.Errorf("client flags: %w", err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
