package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adrienmarquer/blindtest/internal/model"
)

// Config holds the process-wide settings resolved from flags/env (spec §6.4),
// mirroring the teacher's flat Config struct in the original config.go.
type Config struct {
	bind    string
	port    int
	prefix  string
	profile bool
	tlsCert string
	tlsKey  string
	verbose bool
	version bool

	adminPassword  string
	dbDSN          string
	reconnectGrace time.Duration
	roomPurgeAfter time.Duration

	defaultSongDuration        int
	defaultAnswerTimer         int
	defaultNumChoices          int
	defaultPointsTitle         int
	defaultPointsArtist        int
	defaultPenaltyEnabled      bool
	defaultPenaltyAmount       int
	defaultAllowRebuzz         bool
	defaultManualValidation    bool
	defaultFuzzyMatch          bool
	defaultLevenshteinDistance int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// systemDefaults builds the fallback ModeParams the Parameter Resolver
// overlays under a round's own overrides (glossary: "system defaults").
func (c *Config) systemDefaults() model.ModeParams {
	return model.ModeParams{
		SongDuration:        &c.defaultSongDuration,
		AnswerTimer:         &c.defaultAnswerTimer,
		NumChoices:          &c.defaultNumChoices,
		PointsTitle:         &c.defaultPointsTitle,
		PointsArtist:        &c.defaultPointsArtist,
		PenaltyEnabled:      &c.defaultPenaltyEnabled,
		PenaltyAmount:       &c.defaultPenaltyAmount,
		AllowRebuzz:         &c.defaultAllowRebuzz,
		ManualValidation:    &c.defaultManualValidation,
		FuzzyMatch:          &c.defaultFuzzyMatch,
		LevenshteinDistance: &c.defaultLevenshteinDistance,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BLINDTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "blindtest",
		Short:         "A real-time, multi-room blind-test quiz server.",
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

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BLINDTEST_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BLINDTEST_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BLINDTEST_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BLINDTEST_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BLINDTEST_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BLINDTEST_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BLINDTEST_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BLINDTEST_VERSION)")

	fs.StringVar(&cfg.adminPassword, "admin-password", "", "shared secret required to start/control a room as master (env: BLINDTEST_ADMIN_PASSWORD)")
	fs.StringVar(&cfg.dbDSN, "db-dsn", "", "postgres DSN for the storage layer; when empty, runs entirely on in-memory storage (env: BLINDTEST_DB_DSN)")
	fs.DurationVar(&cfg.reconnectGrace, "reconnect-grace", 30*time.Second, "how long a room with no connected sockets stays live before it's ended (env: BLINDTEST_RECONNECT_GRACE)")
	fs.DurationVar(&cfg.roomPurgeAfter, "room-purge-after", 72*time.Hour, "how long a finished room's records survive before housekeeping deletes them (env: BLINDTEST_ROOM_PURGE_AFTER)")

	fs.IntVar(&cfg.defaultSongDuration, "default-song-duration", 30, "default song playback window in seconds (env: BLINDTEST_DEFAULT_SONG_DURATION)")
	fs.IntVar(&cfg.defaultAnswerTimer, "default-answer-timer", 5, "default answer window in seconds (env: BLINDTEST_DEFAULT_ANSWER_TIMER)")
	fs.IntVar(&cfg.defaultNumChoices, "default-num-choices", 4, "default number of multiple-choice options (env: BLINDTEST_DEFAULT_NUM_CHOICES)")
	fs.IntVar(&cfg.defaultPointsTitle, "default-points-title", 1, "default points awarded for the title (env: BLINDTEST_DEFAULT_POINTS_TITLE)")
	fs.IntVar(&cfg.defaultPointsArtist, "default-points-artist", 1, "default points awarded for the artist (env: BLINDTEST_DEFAULT_POINTS_ARTIST)")
	fs.BoolVar(&cfg.defaultPenaltyEnabled, "default-penalty-enabled", false, "deduct points for a wrong buzz by default (env: BLINDTEST_DEFAULT_PENALTY_ENABLED)")
	fs.IntVar(&cfg.defaultPenaltyAmount, "default-penalty-amount", 0, "default deduction for a wrong buzz (env: BLINDTEST_DEFAULT_PENALTY_AMOUNT)")
	fs.BoolVar(&cfg.defaultAllowRebuzz, "default-allow-rebuzz", true, "allow other players to buzz again after a wrong answer by default (env: BLINDTEST_DEFAULT_ALLOW_REBUZZ)")
	fs.BoolVar(&cfg.defaultManualValidation, "default-manual-validation", false, "require the master to validate answers by default (env: BLINDTEST_DEFAULT_MANUAL_VALIDATION)")
	fs.BoolVar(&cfg.defaultFuzzyMatch, "default-fuzzy-match", true, "accept close text-input spellings by default (env: BLINDTEST_DEFAULT_FUZZY_MATCH)")
	fs.IntVar(&cfg.defaultLevenshteinDistance, "default-levenshtein-distance", 2, "max edit distance accepted under fuzzy matching by default (env: BLINDTEST_DEFAULT_LEVENSHTEIN_DISTANCE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("blindtest v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
