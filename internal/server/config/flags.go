package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-y bool     S3 path-style addressing
//	-r int      S3 request retries
//	-l string   local storage root
//	-k string   master key, hex
//	-n int      stream chunk size, bytes
//	-z string   archive member compression: store or deflate
//	-w bool     allow partial bulk downloads
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - -y and -w are boolean: "-y" enables, "-y=false" disables.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-u", "-p", "-g", "-e", "-y", "-r", "-l", "-k", "-n", "-z", "-w",
	}, "-y", "-w")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3UsePathStyle, "y", config.S3UsePathStyle, "S3 path-style addressing")
	fs.IntVar(&config.S3RetryMax, "r", config.S3RetryMax, "S3 request retries")

	fs.StringVar(&config.LocalStorageRoot, "l", config.LocalStorageRoot, "local storage root")
	fs.StringVar(&config.MasterKey, "k", config.MasterKey, "master key (hex)")
	fs.IntVar(&config.StreamChunkSize, "n", config.StreamChunkSize, "stream chunk size in bytes")
	fs.StringVar(&config.BulkCompression, "z", config.BulkCompression, "archive member compression (store|deflate)")
	fs.BoolVar(&config.AllowPartialBulk, "w", config.AllowPartialBulk, "allow partial bulk downloads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
