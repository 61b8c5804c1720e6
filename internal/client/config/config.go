// Package config loads the settlement client configuration: defaults first,
// then an optional JSON file, then command-line flags, later sources winning.
package config

import "time"

// Config holds runtime settings for the settlement client.
//
// An empty ServerEndpointAddr or AccessKey puts the client into offline mode:
// local persistence keeps working, the cloud mirror is skipped.
type Config struct {
	// ServerEndpointAddr is the base URL of the mirror service,
	// e.g. "http://127.0.0.1:8080".
	ServerEndpointAddr string
	// AccessKey authenticates against the mirror's shared access key.
	AccessKey string
	// DataFile is the local JSON snapshot path.
	DataFile string
	// BackupDir receives timestamped shutdown backups.
	BackupDir string
	// BackupRetention prunes backups older than this at shutdown.
	BackupRetention time.Duration
	// ReconnectInterval is the mirror liveness probe period.
	ReconnectInterval time.Duration
	// DeleteGateHash is the bcrypt hash checked before a project delete.
	// Empty means deletes are confirmed by retyping the project name instead.
	DeleteGateHash string
	// S3BackupBucket, when set, receives a copy of every shutdown backup.
	S3BackupBucket string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataFile = "settlement_data.json"
	c.BackupDir = "backups"
	c.BackupRetention = 7 * 24 * time.Hour
	c.ReconnectInterval = 10 * time.Second
}

// LoadConfig constructs a Config from defaults, JSON and flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
