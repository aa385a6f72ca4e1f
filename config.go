package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind          string
	countdown     time.Duration
	intermission  time.Duration
	lookupRetries int
	port          int
	prefix        string
	profile       bool
	roomTimeout   time.Duration
	rosterFile    string
	roundLength   time.Duration
	secretKey     string
	tlsCert       string
	tlsKey        string
	verbose       bool
	version       bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.countdown <= 0 || c.roundLength <= 0 || c.intermission <= 0 {
		return errors.New("--countdown, --round-length, and --intermission must all be positive")
	}
	if c.lookupRetries < 1 {
		return fmt.Errorf("invalid lookup retry count (must be at least 1): %d", c.lookupRetries)
	}
	if c.secretKey != "" {
		raw, err := hex.DecodeString(c.secretKey)
		if err != nil {
			return fmt.Errorf("invalid --secret-key: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("invalid --secret-key length (must be 32 bytes of hex): %d", len(raw))
		}
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PRODLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "prodle",
		Short:         "A head-to-head guessing duel over professional player profiles.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PRODLE_BIND)")
	fs.DurationVar(&cfg.countdown, "countdown", 3*time.Second, "lead-in before the first round of a match (env: PRODLE_COUNTDOWN)")
	fs.DurationVar(&cfg.intermission, "intermission", 5*time.Second, "pause between rounds of a match (env: PRODLE_INTERMISSION)")
	fs.IntVar(&cfg.lookupRetries, "lookup-retries", 3, "roster draw attempts before a round start is abandoned (env: PRODLE_LOOKUP_RETRIES)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PRODLE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: PRODLE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: PRODLE_PROFILE)")
	fs.DurationVar(&cfg.roomTimeout, "room-timeout", 60*time.Minute, "time before idle rooms are ended (env: PRODLE_ROOM_TIMEOUT)")
	fs.StringVar(&cfg.rosterFile, "roster-file", "", "path to a player roster JSON file, replacing the embedded dataset (env: PRODLE_ROSTER_FILE)")
	fs.DurationVar(&cfg.roundLength, "round-length", 60*time.Second, "time limit for each round (env: PRODLE_ROUND_LENGTH)")
	fs.StringVar(&cfg.secretKey, "secret-key", "", "hex-encoded 32-byte AES key for identity wrapping; random per process when unset (env: PRODLE_SECRET_KEY)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: PRODLE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: PRODLE_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: PRODLE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: PRODLE_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("prodle v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
