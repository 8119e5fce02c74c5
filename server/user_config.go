package server

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	validation "github.com/go-ozzo/ozzo-validation"
)

// DefaultPort is used whenever the configured port is unset or unusable.
const DefaultPort = 9000

// UserConfig holds everything configurable via flags, environment or a
// config file. It is constructed once at startup and passed down; nothing
// below it reads the environment.
type UserConfig struct {
	Config         ConfigFlag       `help:"Path to yaml or json config file where flag values can also be set."`
	Port           Port             `default:"9000" env:"PORT" help:"Port to bind the HTTP server to."`
	StaticDir      string           `default:"build" help:"Directory holding the pre-built frontend bundle."`
	RepoDir        string           `default:"." help:"Checkout to synchronize with its remote on startup."`
	SyncTimeout    time.Duration    `default:"60s" help:"Bound on the startup git pull."`
	LogLevel       logging.LogLevel `default:"info" help:"Log level. Either debug, info, warn, or error."`
	StatsNamespace string           `default:"tempo" help:"Namespace for aggregating stats."`
	StatsdHost     string           `help:"Statsd agent host for metrics. Metrics are discarded if unset."`
	StatsdPort     string           `default:"8125" help:"Statsd agent port for metrics."`
}

func (u UserConfig) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Port, validation.By(validPort)),
		validation.Field(&u.StaticDir, validation.Required),
		validation.Field(&u.RepoDir, validation.Required),
		// an unbounded pull could stall startup forever
		validation.Field(&u.SyncTimeout, validation.Required, validation.Min(time.Second)),
	)
}

// Statsd returns the statsd config, or nil when metrics are not configured.
func (u UserConfig) Statsd() *metrics.StatsdConfig {
	if u.StatsdHost == "" {
		return nil
	}
	return &metrics.StatsdConfig{
		Host: u.StatsdHost,
		Port: u.StatsdPort,
	}
}

func validPort(value interface{}) error {
	port, ok := value.(Port)
	if !ok {
		return fmt.Errorf("must be a port")
	}
	if port.Value < 1 || port.Value > 65535 {
		return fmt.Errorf("must be between 1 and 65535, got %d", port.Value)
	}
	return nil
}

// Port is a TCP port that tolerates malformed values. Deploy environments
// sometimes export PORT as junk; a bad value must not abort startup, so
// decoding falls back to DefaultPort and remembers the rejected input for
// the server to warn about once logging is up.
type Port struct {
	Value int
	// Rejected holds the raw input that failed to parse, if any.
	Rejected string
}

func (p *Port) Decode(ctx *kong.DecodeContext) error {
	var raw string
	err := ctx.Scan.PopValueInto("string", &raw)
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*p = Port{Value: DefaultPort, Rejected: raw}
		return nil
	}
	*p = Port{Value: value}
	return nil
}

func (p Port) String() string {
	return strconv.Itoa(p.Value)
}

type ConfigFlag string

func (c ConfigFlag) BeforeResolve(kongCli *kong.Kong, ctx *kong.Context, trace *kong.Path) error {
	path := string(ctx.FlagValue(trace.Flag).(ConfigFlag))
	if path == "" {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		kong.Configuration(kongyaml.Loader).Apply(kongCli)
	case ".json":
		kong.Configuration(kong.JSON).Apply(kongCli)
	default:
		return fmt.Errorf("no loader for config with extension %q found", ext)
	}
	resolver, err := kongCli.LoadConfig(path)
	if err != nil {
		return err
	}
	ctx.AddResolver(resolver)
	return nil
}
