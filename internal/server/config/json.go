package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/flagx"
	"github.com/dmitrijs2005/keyguard/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	ListenAddr   string         `json:"listen_addr"`
	StoreDriver  string         `json:"store_driver"`
	DatabaseDSN  string         `json:"database_dsn"`
	RoundTimeout timex.Duration `json:"round_timeout"`
	SMTPHost     string         `json:"smtp_host"`
	SMTPPort     string         `json:"smtp_port"`
	SMTPUsername string         `json:"smtp_username"`
	SMTPPassword string         `json:"smtp_password"`
	SMTPFrom     string         `json:"smtp_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is the -c or -config
// command-line flags; if neither is set, no JSON file is loaded. If the
// file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ListenAddr = c.ListenAddr
	config.StoreDriver = c.StoreDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.RoundTimeout = time.Duration(c.RoundTimeout.Duration)
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUsername = c.SMTPUsername
	config.SMTPPassword = c.SMTPPassword
	config.SMTPFrom = c.SMTPFrom
}
