package flagx

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config", "-a"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-c", "vault.json", "-x", "1"}, []string{"-c", "vault.json"}},
		{"equals form", []string{"--config=alt.json", "-z"}, []string{"--config=alt.json"}},
		{"unknown equals form dropped", []string{"--other=1"}, []string{}},
		{"flag at end", []string{"-c"}, []string{"-c"}},
		{"next token is a flag", []string{"-c", "-x"}, []string{"-c"}},
		{"dashes inside value", []string{"--config=--weird.json"}, []string{"--config=--weird.json"}},
		{"order kept", []string{"-a", ":50051", "positional", "-c", "one.json", "-c", "two.json"},
			[]string{"-a", ":50051", "-c", "one.json", "-c", "two.json"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestParse_IgnoresForeignFlags(t *testing.T) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("a", "127.0.0.1:50051", "")
	dir := fs.String("o", "downloads", "")

	err := Parse(fs, []string{"-c", "client.json", "-a", "vault.example:443", "--o=/tmp/docs", "-zz"})
	require.NoError(t, err)

	assert.Equal(t, "vault.example:443", *addr)
	assert.Equal(t, "/tmp/docs", *dir)
}

func TestParse_BadValue(t *testing.T) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Int("i", 3, "")

	assert.Error(t, Parse(fs, []string{"-i", "soon"}))
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{"short", "", []string{"-c", "/etc/short.json"}, "/etc/short.json"},
		{"long", "", []string{"-config", "/etc/long.json"}, "/etc/long.json"},
		{"long equals", "", []string{"--config=/etc/eq.json"}, "/etc/eq.json"},
		{"last wins", "", []string{"-c", "1.json", "-config", "2.json"}, "2.json"},
		{"none", "", []string{"-a", ":50051"}, ""},
		{"env fallback", "/etc/tripvault/server.json", []string{"-a", ":50051"}, "/etc/tripvault/server.json"},
		{"flag beats env", "/etc/tripvault/server.json", []string{"-c", "local.json"}, "local.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigEnvVar, tt.env)
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
