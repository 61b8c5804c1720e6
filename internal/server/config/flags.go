package config

import (
	"flag"
	"os"

	"github.com/hvlab/settlement/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   bind address
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//
// The argument list is filtered with flagx.FilterArgs so this parser never
// sees flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.TokenSecret, "s", cfg.TokenSecret, "token signing secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
