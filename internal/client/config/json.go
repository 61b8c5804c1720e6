package config

import (
	"encoding/json"
	"os"

	"github.com/hvlab/settlement/internal/flagx"
	"github.com/hvlab/settlement/internal/timex"
)

// JSONConfig is the DTO for the optional config file. Durations accept either
// strings like "10s" or integer nanoseconds.
type JSONConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AccessKey          string         `json:"access_key"`
	DataFile           string         `json:"data_file"`
	BackupDir          string         `json:"backup_dir"`
	BackupRetention    timex.Duration `json:"backup_retention"`
	ReconnectInterval  timex.Duration `json:"reconnect_interval"`
	DeleteGateHash     string         `json:"delete_gate_hash"`
	S3BackupBucket     string         `json:"s3_backup_bucket"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// No flag means no file is read. Only set fields override.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AccessKey != "" {
		cfg.AccessKey = jc.AccessKey
	}
	if jc.DataFile != "" {
		cfg.DataFile = jc.DataFile
	}
	if jc.BackupDir != "" {
		cfg.BackupDir = jc.BackupDir
	}
	if jc.BackupRetention.Duration != 0 {
		cfg.BackupRetention = jc.BackupRetention.Duration
	}
	if jc.ReconnectInterval.Duration != 0 {
		cfg.ReconnectInterval = jc.ReconnectInterval.Duration
	}
	if jc.DeleteGateHash != "" {
		cfg.DeleteGateHash = jc.DeleteGateHash
	}
	if jc.S3BackupBucket != "" {
		cfg.S3BackupBucket = jc.S3BackupBucket
	}
}
