// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
)

type Config struct {
	// Dataset
	Input  string
	Fields []string
	Suffix string
	Output string

	// Pipeline
	ChunkSize   int
	Threads     int
	Concurrency int

	// HTTP
	TimeoutS    float64 // seconds per request
	Retries     int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	MaxConns    int
	RatePerSec  float64

	// Link policy
	DeleteTimeouts  bool
	FollowRedirects bool
	MaxRedirectHops int

	// Reports
	TimeoutFile   string
	RedirectsFile string

	// Presentation
	Visual  bool
	Verbose bool

	// Meta
	ConfigFile   string
	PrintVersion bool
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Fields:          []string{"url"},
		Suffix:          "_cleaned",
		ChunkSize:       1000,
		Threads:         1,
		Concurrency:     8,
		TimeoutS:        10.0,
		Retries:         3,
		BackoffBase:     1 * time.Second,
		BackoffMax:      30 * time.Second,
		MaxConns:        64,
		MaxRedirectHops: 5,
	}
}

// fileConfig mirrors Config with pointer fields so an absent YAML key is
// distinguishable from an explicit zero.
type fileConfig struct {
	Input           *string  `yaml:"input"`
	Fields          []string `yaml:"fields"`
	Suffix          *string  `yaml:"suffix"`
	Output          *string  `yaml:"output"`
	ChunkSize       *int     `yaml:"chunk_size"`
	Threads         *int     `yaml:"threads"`
	Concurrency     *int     `yaml:"concurrency"`
	TimeoutS        *float64 `yaml:"timeout"`
	Retries         *int     `yaml:"retries"`
	BackoffBaseS    *float64 `yaml:"backoff_base"`
	BackoffMaxS     *float64 `yaml:"backoff_max"`
	MaxConns        *int     `yaml:"max_conns"`
	RatePerSec      *float64 `yaml:"rate"`
	DeleteTimeouts  *bool    `yaml:"delete_timeouts"`
	FollowRedirects *bool    `yaml:"follow_redirects"`
	MaxRedirectHops *int     `yaml:"max_redirect_hops"`
	TimeoutFile     *string  `yaml:"timeout_file"`
	RedirectsFile   *string  `yaml:"redirects_file"`
	Visual          *bool    `yaml:"visual"`
	Verbose         *bool    `yaml:"verbose"`
}

// Load builds the configuration in precedence order: defaults, then the
// optional YAML file, then environment variables, then flags. Flags win.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// Flags were parsed first only to learn which ones the caller set; the
	// lower-precedence layers must not clobber explicit flags.
	base := DefaultConfig()
	if cfg.ConfigFile != "" {
		if err := loadFromFile(&base, cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}
	loadFromEnv(&base)
	applyUnsetFlags(&cfg, base, fs)

	// Positional form: the input file followed by the field names to
	// check ("jsonlinkcheck data.jsonl title author").
	rest := fs.Args()
	if len(rest) > 0 && cfg.Input == "" {
		cfg.Input = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if fs.Changed("fields") {
			return cfg, errors.Errorf("field names given both positionally and via --fields: %s", strings.Join(rest, " "))
		}
		cfg.Fields = rest
	}

	if err := normalize(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("jsonlinkcheck", pflag.ContinueOnError)

	fs.StringVarP(&cfg.Input, "input", "i", cfg.Input, "input JSONL dataset")
	fs.StringSliceVarP(&cfg.Fields, "fields", "f", cfg.Fields, "record fields holding URLs to check")
	fs.StringVar(&cfg.Suffix, "suffix", cfg.Suffix, "output filename suffix when --output is not set")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output path (default: input stem + suffix)")

	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "lines per chunk")
	fs.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "concurrent chunk workers")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "concurrent URL checks per worker")

	fs.Float64Var(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "per-request timeout in seconds")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "attempts per URL before giving up")
	fs.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "global cap on in-flight requests")
	fs.Float64Var(&cfg.RatePerSec, "rate", cfg.RatePerSec, "max requests per second (0 = unlimited)")

	fs.BoolVar(&cfg.DeleteTimeouts, "delete-timeouts", cfg.DeleteTimeouts, "drop URLs that never answered instead of keeping them")
	fs.BoolVar(&cfg.FollowRedirects, "follow-redirects", cfg.FollowRedirects, "replace redirected URLs with their final target")
	fs.IntVar(&cfg.MaxRedirectHops, "max-redirect-hops", cfg.MaxRedirectHops, "redirect chain length before giving up")

	fs.StringVar(&cfg.TimeoutFile, "timeout-file", cfg.TimeoutFile, "write unreachable URLs to this file")
	fs.StringVar(&cfg.RedirectsFile, "redirects-file", cfg.RedirectsFile, "write observed redirects to this file")

	fs.BoolVar(&cfg.Visual, "visual", cfg.Visual, "render a live progress bar instead of log lines")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "per-chunk progress logging and full statistics")

	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML configuration file")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "print version and exit")

	return fs
}

// applyUnsetFlags copies every value the caller did not set on the command
// line from the lower-precedence base into cfg.
func applyUnsetFlags(cfg *Config, base Config, fs *pflag.FlagSet) {
	if !fs.Changed("input") {
		cfg.Input = base.Input
	}
	if !fs.Changed("fields") {
		cfg.Fields = base.Fields
	}
	if !fs.Changed("suffix") {
		cfg.Suffix = base.Suffix
	}
	if !fs.Changed("output") {
		cfg.Output = base.Output
	}
	if !fs.Changed("chunk-size") {
		cfg.ChunkSize = base.ChunkSize
	}
	if !fs.Changed("threads") {
		cfg.Threads = base.Threads
	}
	if !fs.Changed("concurrency") {
		cfg.Concurrency = base.Concurrency
	}
	if !fs.Changed("timeout") {
		cfg.TimeoutS = base.TimeoutS
	}
	if !fs.Changed("retries") {
		cfg.Retries = base.Retries
	}
	if !fs.Changed("max-conns") {
		cfg.MaxConns = base.MaxConns
	}
	if !fs.Changed("rate") {
		cfg.RatePerSec = base.RatePerSec
	}
	if !fs.Changed("delete-timeouts") {
		cfg.DeleteTimeouts = base.DeleteTimeouts
	}
	if !fs.Changed("follow-redirects") {
		cfg.FollowRedirects = base.FollowRedirects
	}
	if !fs.Changed("max-redirect-hops") {
		cfg.MaxRedirectHops = base.MaxRedirectHops
	}
	if !fs.Changed("timeout-file") {
		cfg.TimeoutFile = base.TimeoutFile
	}
	if !fs.Changed("redirects-file") {
		cfg.RedirectsFile = base.RedirectsFile
	}
	if !fs.Changed("visual") {
		cfg.Visual = base.Visual
	}
	if !fs.Changed("verbose") {
		cfg.Verbose = base.Verbose
	}
	cfg.BackoffBase = base.BackoffBase
	cfg.BackoffMax = base.BackoffMax
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.Join(errors.ErrIO, err), "reading config %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}

	if fc.Input != nil {
		cfg.Input = *fc.Input
	}
	if fc.Fields != nil {
		cfg.Fields = fc.Fields
	}
	if fc.Suffix != nil {
		cfg.Suffix = *fc.Suffix
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}
	if fc.ChunkSize != nil {
		cfg.ChunkSize = *fc.ChunkSize
	}
	if fc.Threads != nil {
		cfg.Threads = *fc.Threads
	}
	if fc.Concurrency != nil {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.TimeoutS != nil {
		cfg.TimeoutS = *fc.TimeoutS
	}
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.BackoffBaseS != nil {
		cfg.BackoffBase = secondsToDuration(*fc.BackoffBaseS)
	}
	if fc.BackoffMaxS != nil {
		cfg.BackoffMax = secondsToDuration(*fc.BackoffMaxS)
	}
	if fc.MaxConns != nil {
		cfg.MaxConns = *fc.MaxConns
	}
	if fc.RatePerSec != nil {
		cfg.RatePerSec = *fc.RatePerSec
	}
	if fc.DeleteTimeouts != nil {
		cfg.DeleteTimeouts = *fc.DeleteTimeouts
	}
	if fc.FollowRedirects != nil {
		cfg.FollowRedirects = *fc.FollowRedirects
	}
	if fc.MaxRedirectHops != nil {
		cfg.MaxRedirectHops = *fc.MaxRedirectHops
	}
	if fc.TimeoutFile != nil {
		cfg.TimeoutFile = *fc.TimeoutFile
	}
	if fc.RedirectsFile != nil {
		cfg.RedirectsFile = *fc.RedirectsFile
	}
	if fc.Visual != nil {
		cfg.Visual = *fc.Visual
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := getenv("LINKCHECK_INPUT", ""); v != "" {
		cfg.Input = v
	}
	if v := getenv("LINKCHECK_FIELDS", ""); v != "" {
		cfg.Fields = splitFields(v)
	}
	if v := getenv("LINKCHECK_SUFFIX", ""); v != "" {
		cfg.Suffix = v
	}
	if v := getenv("LINKCHECK_OUTPUT", ""); v != "" {
		cfg.Output = v
	}
	if v := getenv("LINKCHECK_CHUNK_SIZE", ""); v != "" {
		cfg.ChunkSize = parseInt(v, cfg.ChunkSize)
	}
	if v := getenv("LINKCHECK_THREADS", ""); v != "" {
		cfg.Threads = parseInt(v, cfg.Threads)
	}
	if v := getenv("LINKCHECK_CONCURRENCY", ""); v != "" {
		cfg.Concurrency = parseInt(v, cfg.Concurrency)
	}
	if v := getenv("LINKCHECK_TIMEOUT", ""); v != "" {
		cfg.TimeoutS = parseFloat(v, cfg.TimeoutS)
	}
	if v := getenv("LINKCHECK_RETRIES", ""); v != "" {
		cfg.Retries = parseInt(v, cfg.Retries)
	}
	if v := getenv("LINKCHECK_MAX_CONNS", ""); v != "" {
		cfg.MaxConns = parseInt(v, cfg.MaxConns)
	}
	if v := getenv("LINKCHECK_RATE", ""); v != "" {
		cfg.RatePerSec = parseFloat(v, cfg.RatePerSec)
	}
	if v := getenv("LINKCHECK_DELETE_TIMEOUTS", ""); v != "" {
		cfg.DeleteTimeouts = parseBool(v)
	}
	if v := getenv("LINKCHECK_FOLLOW_REDIRECTS", ""); v != "" {
		cfg.FollowRedirects = parseBool(v)
	}
	if v := getenv("LINKCHECK_MAX_REDIRECT_HOPS", ""); v != "" {
		cfg.MaxRedirectHops = parseInt(v, cfg.MaxRedirectHops)
	}
	if v := getenv("LINKCHECK_BACKOFF_BASE", ""); v != "" {
		cfg.BackoffBase = secondsToDuration(parseFloat(v, cfg.BackoffBase.Seconds()))
	}
	if v := getenv("LINKCHECK_BACKOFF_MAX", ""); v != "" {
		cfg.BackoffMax = secondsToDuration(parseFloat(v, cfg.BackoffMax.Seconds()))
	}
	if v := getenv("LINKCHECK_TIMEOUT_FILE", ""); v != "" {
		cfg.TimeoutFile = v
	}
	if v := getenv("LINKCHECK_REDIRECTS_FILE", ""); v != "" {
		cfg.RedirectsFile = v
	}
	if v := getenv("LINKCHECK_VISUAL", ""); v != "" {
		cfg.Visual = parseBool(v)
	}
	if v := getenv("LINKCHECK_VERBOSE", ""); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

func normalize(c *Config) error {
	if !c.PrintVersion && strings.TrimSpace(c.Input) == "" {
		return errors.New("no input file given")
	}
	c.Fields = splitFields(strings.Join(c.Fields, ","))
	if len(c.Fields) == 0 {
		c.Fields = []string{"url"}
	}
	if c.ChunkSize < 1 {
		c.ChunkSize = 1000
	}
	if c.Threads < 1 {
		c.Threads = 1
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.TimeoutS <= 0 {
		c.TimeoutS = 10.0
	}
	if c.Retries < 1 {
		c.Retries = 1
	}
	if c.MaxConns < 1 {
		c.MaxConns = 1
	}
	if c.RatePerSec < 0 {
		c.RatePerSec = 0
	}
	if c.MaxRedirectHops < 1 {
		c.MaxRedirectHops = 5
	}
	if c.Suffix == "" {
		c.Suffix = "_cleaned"
	}
	// The live progress display owns the terminal, so per-chunk logging is
	// silenced rather than rejected.
	if c.Visual {
		c.Verbose = false
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return secondsToDuration(c.TimeoutS)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// splitFields splits a comma-separated field list, trimming whitespace and
// dropping empty entries.
func splitFields(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// String renders the effective configuration for debug logging.
func (c Config) String() string {
	return fmt.Sprintf("input=%s output=%s fields=%v chunk=%d threads=%d concurrency=%d timeout=%.1fs retries=%d",
		c.Input, c.Output, c.Fields, c.ChunkSize, c.Threads, c.Concurrency, c.TimeoutS, c.Retries)
}
