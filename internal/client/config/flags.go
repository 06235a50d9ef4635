package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "address and port of the authentication server")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "path to the hardware key PEM file")
	roundTimeout := fs.Int("t", int(cfg.RoundTimeout.Seconds()), "protocol round timeout (in seconds)")
	deviceWaitTimeout := fs.Int("w", int(cfg.DeviceWaitTimeout.Seconds()), "hardware key wait timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RoundTimeout = time.Duration(*roundTimeout) * time.Second
	cfg.DeviceWaitTimeout = time.Duration(*deviceWaitTimeout) * time.Second
}
