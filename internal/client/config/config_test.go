package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripvault/internal/flagx"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoad(t *testing.T) {
	t.Setenv(flagx.ConfigEnvVar, "")

	file := writeConfig(t, `{
		"server_endpoint_addr": "vault.example:443",
		"online_check_interval": "10s",
		"database_path": "/var/lib/tripvault/client.db"
	}`)

	tests := []struct {
		name   string
		args   []string
		modify func(c *Config)
	}{
		{name: "defaults", args: nil, modify: func(*Config) {}},
		{name: "flags", args: []string{"-a", "127.0.0.1:9090", "-i", "10", "-d", "/tmp/v.db", "-o", "/tmp/out"},
			modify: func(c *Config) {
				c.ServerEndpointAddr = "127.0.0.1:9090"
				c.OnlineCheckInterval = 10 * time.Second
				c.DatabasePath = "/tmp/v.db"
				c.DownloadDir = "/tmp/out"
			}},
		{name: "json file", args: []string{"-c", file},
			modify: func(c *Config) {
				c.ServerEndpointAddr = "vault.example:443"
				c.OnlineCheckInterval = 10 * time.Second
				c.DatabasePath = "/var/lib/tripvault/client.db"
			}},
		{name: "flags override json", args: []string{"-config", file, "-i", "1"},
			modify: func(c *Config) {
				c.ServerEndpointAddr = "vault.example:443"
				c.OnlineCheckInterval = time.Second
				c.DatabasePath = "/var/lib/tripvault/client.db"
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := defaults()
			tt.modify(&want)

			got, err := Load(tt.args)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(&want, got))
		})
	}
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	t.Setenv(flagx.ConfigEnvVar, writeConfig(t, `{"download_dir": "/srv/trips"}`))

	got, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/trips", got.DownloadDir)
	assert.Equal(t, "127.0.0.1:50051", got.ServerEndpointAddr)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(flagx.ConfigEnvVar, "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad interval", []string{"-i", "abc"}, "client flags"},
		{"zero interval", []string{"-i", "0"}, "online check interval"},
		{"missing file", []string{"-c", filepath.Join(t.TempDir(), "nope.json")}, "read config"},
		{"bad json", []string{"-c", writeConfig(t, `{ not json`)}, "parse config"},
		{"bad duration", []string{"-c", writeConfig(t, `{"online_check_interval": "soon"}`)}, "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server endpoint address is empty")
	assert.Contains(t, err.Error(), "database path is empty")

	ok := defaults()
	assert.NoError(t, ok.Validate())
}
