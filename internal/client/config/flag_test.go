package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://api:9090", "-t", "5", "-s", "10", "-k", "tok", "-x", "secret"},
			expected: &Config{ServerURL: "http://api:9090", RequestTimeout: 5 * time.Second, SessionTTL: 10 * time.Minute, Token: "tok", SigningKey: "secret"}},
		{name: "unrelated flags ignored", args: []string{"cmd", "-c", "x.json", "-a", "http://api:9090"},
			expected: &Config{ServerURL: "http://api:9090"}},
		{name: "bad timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
