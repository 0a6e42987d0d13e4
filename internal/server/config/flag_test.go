package config

import (
	"flag"
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

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "5",
			"-u", "user", "-p", "password", "-g", "us-west-1", "-e", "http://endpoint", "-y=true", "-r", "7",
			"-l", "/srv/files", "-k", "abcd", "-n", "1024", "-z", "deflate", "-w=true",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 5 * time.Minute,
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				S3UsePathStyle:              true,
				S3RetryMax:                  7,
				LocalStorageRoot:            "/srv/files",
				MasterKey:                   "abcd",
				StreamChunkSize:             1024,
				BulkCompression:             "deflate",
				AllowPartialBulk:            true,
			}},
		{name: "bare bool flags", args: []string{"cmd", "-y", "-w", "-r", "2"},
			expected: &Config{S3UsePathStyle: true, AllowPartialBulk: true, S3RetryMax: 2}},
		{name: "ignores foreign flags", args: []string{"cmd", "-c", "cfg.json", "-a", ":1"},
			expected: &Config{EndpointAddrGRPC: ":1"}},
		{name: "bad int panics", args: []string{"cmd", "-n", "lots"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

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
