package config

import (
	"encoding/json"
	"os"

	"github.com/hvlab/settlement/internal/flagx"
	"github.com/hvlab/settlement/internal/timex"
)

// JSONConfig is the DTO for the optional config file.
type JSONConfig struct {
	Addr          string         `json:"addr"`
	DatabaseDSN   string         `json:"database_dsn"`
	AccessKeyHash string         `json:"access_key_hash"`
	TokenSecret   string         `json:"token_secret"`
	TokenValidity timex.Duration `json:"token_validity"`
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

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.AccessKeyHash != "" {
		cfg.AccessKeyHash = jc.AccessKeyHash
	}
	if jc.TokenSecret != "" {
		cfg.TokenSecret = jc.TokenSecret
	}
	if jc.TokenValidity.Duration != 0 {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
}
