package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/flagx"
)

// parseFlags overlays cfg with the server flags found in args.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (empty disables)
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned URL validity, minutes
//	-l float    rate limit, requests per second per caller
//	-k int      rate limit burst
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.Float64Var(&cfg.RateLimitRPS, "l", cfg.RateLimitRPS, "requests per second per caller (0 disables)")
	fs.IntVar(&cfg.RateLimitBurst, "k", cfg.RateLimitBurst, "rate limit burst")

	minutes := map[string]*time.Duration{
		"t": &cfg.AccessTokenValidityDuration,
		"r": &cfg.RefreshTokenValidityDuration,
		"x": &cfg.PresignExpiry,
	}
	usage := map[string]string{
		"t": "access token validity (in minutes)",
		"r": "refresh token validity (in minutes)",
		"x": "presigned URL validity (in minutes)",
	}
	values := make(map[string]*int, len(minutes))
	for name, d := range minutes {
		values[name] = fs.Int(name, int(*d/time.Minute), usage[name])
	}

	if err := flagx.Parse(fs, args); err != nil {
		return fmt.Errorf("server flags: %w", err)
	}

	// only explicitly given flags are converted, so sub-minute values from
	// defaults or JSON survive
	fs.Visit(func(f *flag.Flag) {
		if d, ok := minutes[f.Name]; ok {
			*d = time.Duration(*values[f.Name]) * time.Minute
		}
	})
	return nil
}
