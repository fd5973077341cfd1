package config

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/flagx"
)

// Config holds runtime settings for the tripvault CLI.
type Config struct {
	// ServerEndpointAddr is host:port of the vault gRPC endpoint.
	ServerEndpointAddr string
	// OnlineCheckInterval is how often the client pings the server to
	// switch between online and offline mode.
	OnlineCheckInterval time.Duration
	// DatabasePath is the SQLite file holding the offline login record and
	// the document metadata cache.
	DatabasePath string
	// DownloadDir receives decrypted documents written by "open".
	DownloadDir string
}

// LoadDefaults sets values suitable for a local development server.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "tripvault.db"
	c.DownloadDir = "downloads"
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server endpoint address is empty"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// (or $TRIPVAULT_CONFIG), then the remaining command-line flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
