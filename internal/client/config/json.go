package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/artistkatta/jobservice/internal/flagx"
	"github.com/artistkatta/jobservice/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	Token          string         `json:"token"`
	SigningKey     string         `json:"signing_key"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Keys missing from the file keep their current value. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.SigningKey != "" {
		cfg.SigningKey = jc.SigningKey
	}
}
