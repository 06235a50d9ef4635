package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/flagx"
	"github.com/dmitrijs2005/keyguard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerAddr        string         `json:"server_addr"`
	KeyFile           string         `json:"key_file"`
	RoundTimeout      timex.Duration `json:"round_timeout"`
	DeviceWaitTimeout timex.Duration `json:"device_wait_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Missing flag means no JSON is loaded. Read or
// unmarshal errors panic; intended usage is defaults -> parseJson ->
// parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
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

	cfg.ServerAddr = jc.ServerAddr
	cfg.KeyFile = jc.KeyFile
	cfg.RoundTimeout = time.Duration(jc.RoundTimeout.Duration)
	cfg.DeviceWaitTimeout = time.Duration(jc.DeviceWaitTimeout.Duration)
}
