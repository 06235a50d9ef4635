// Package config loads runtime configuration for the KeyGuard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the authentication server
//	-k string   path to the PEM file backing the software hardware key
//	-t int      protocol round timeout (seconds)
//	-w int      hardware key wait timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_addr": "127.0.0.1:8080",
//	  "key_file": "keyguard_key.pem",
//	  "round_timeout": "30s",
//	  "device_wait_timeout": "60s"
//	}
package config
