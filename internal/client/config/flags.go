package config

import (
	"flag"
	"os"
	"time"

	"github.com/hvlab/settlement/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the mirror service
//	-k string   shared access key for the mirror
//	-f string   local data file path
//	-b string   backup directory
//	-i int      reconnect probe interval in seconds
//
// The argument list is filtered with flagx.FilterArgs so this parser never
// sees flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-f", "-b", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the mirror service")
	fs.StringVar(&cfg.AccessKey, "k", cfg.AccessKey, "shared access key")
	fs.StringVar(&cfg.DataFile, "f", cfg.DataFile, "local data file")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "backup directory")
	reconnect := fs.Int("i", int(cfg.ReconnectInterval.Seconds()), "reconnect probe interval (seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ReconnectInterval = time.Duration(*reconnect) * time.Second
}
