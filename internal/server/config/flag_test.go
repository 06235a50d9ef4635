package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-s", "sqlite", "-d", "users.db", "-t", "10",
			"-m", "relay.example.com", "-o", "2525", "-u", "user", "-p", "password", "-f", "noreply@example.com",
		},
			expected: &Config{
				ListenAddr:   "127.0.0.1:9090",
				StoreDriver:  "sqlite",
				DatabaseDSN:  "users.db",
				RoundTimeout: 10 * time.Second,
				SMTPHost:     "relay.example.com",
				SMTPPort:     "2525",
				SMTPUsername: "user",
				SMTPPassword: "password",
				SMTPFrom:     "noreply@example.com",
			}},
		{name: "Test2 partial flags keep other values", args: []string{"cmd", "-a", "0.0.0.0:8080"},
			expected: &Config{
				ListenAddr: "0.0.0.0:8080",
			}},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = tc.args

			cfg := &Config{}
			parseFlags(cfg)

			if diff := cmp.Diff(tc.expected, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFlags_NoFlagsLeavesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.RoundTimeout)
}
