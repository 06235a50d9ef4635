package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g., "127.0.0.1:8080")
//	-s string   store driver: postgres, sqlite or memory
//	-d string   PostgreSQL DSN or sqlite file path
//	-t int      protocol round timeout, seconds
//	-m string   SMTP relay host
//	-o string   SMTP relay port
//	-u string   SMTP username
//	-p string   SMTP password
//	-f string   SMTP From address
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer number of seconds.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-t", "-m", "-o", "-u", "-p", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.StoreDriver, "s", config.StoreDriver, "store driver (postgres, sqlite, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN or sqlite path")

	roundTimeout := fs.Int("t", int(config.RoundTimeout.Seconds()), "protocol round timeout (in seconds)")

	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP relay host")
	fs.StringVar(&config.SMTPPort, "o", config.SMTPPort, "SMTP relay port")
	fs.StringVar(&config.SMTPUsername, "u", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "p", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPFrom, "f", config.SMTPFrom, "SMTP From address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RoundTimeout = time.Duration(*roundTimeout) * time.Second
}
