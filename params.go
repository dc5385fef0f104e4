package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lool/ws-contract-tests/framework"
)

const (
	defaultHost               = "127.0.0.1"
	defaultPort               = 9980
	defaultWebSocketPath      = "/ws"
	defaultFixturesDir        = "./test/data"
	defaultPollTimeout        = time.Second
	defaultStatusQueryTimeout = time.Second * 10
	defaultLogLevel           = "info"

	envPrefix = "LOOLTEST"
)

type commandParams struct {
	configFile         string
	host               string
	port               int
	wsPath             string
	fixturesDir        string
	capabilities       []string
	pollTimeout        time.Duration
	statusQueryTimeout time.Duration
	filters            framework.RegexFilters
	debug              bool
	debugAll           bool
	logFile            string
	logLevel           string
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "config file (yaml, toml, or json)")
	fs.String("host", defaultHost, "host of the document service")
	fs.Int("port", defaultPort, "port of the document service")
	fs.String("ws-path", defaultWebSocketPath, "path of the service's WebSocket endpoint")
	fs.String("fixtures", defaultFixturesDir, "directory containing the test documents")
	fs.StringSlice("capabilities", nil, "optional service capabilities to test")
	fs.Duration("poll-timeout", defaultPollTimeout, "how long each check for an incoming message waits")
	fs.Duration("status-query-timeout", defaultStatusQueryTimeout, "how long to wait for the service to respond at startup")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.Bool("debug", false, "enable debug logging for failed tests")
	fs.Bool("debug-all", false, "enable debug logging for all tests")
	fs.String("log-file", "", "also write the harness log as JSON to this file, rotating it when it grows")
	fs.String("log-level", defaultLogLevel, "level of the harness log (debug, info, warn, error)")
}

// load resolves every setting from, in increasing order of priority, the defaults, the
// config file, LOOLTEST_* environment variables, and the command line.
func (c *commandParams) load(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetDefault("host", defaultHost)
	v.SetDefault("port", defaultPort)
	v.SetDefault("ws-path", defaultWebSocketPath)
	v.SetDefault("fixtures", defaultFixturesDir)
	v.SetDefault("capabilities", []string{})
	v.SetDefault("poll-timeout", defaultPollTimeout)
	v.SetDefault("status-query-timeout", defaultStatusQueryTimeout)
	v.SetDefault("debug", false)
	v.SetDefault("debug-all", false)
	v.SetDefault("log-file", "")
	v.SetDefault("log-level", defaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c.configFile != "" {
		v.SetConfigFile(c.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", c.configFile, err)
		}
	}
	for _, name := range []string{
		"host", "port", "ws-path", "fixtures", "capabilities", "poll-timeout",
		"status-query-timeout", "debug", "debug-all", "log-file", "log-level",
	} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return err
		}
	}

	c.host = v.GetString("host")
	c.port = v.GetInt("port")
	c.wsPath = v.GetString("ws-path")
	c.fixturesDir = v.GetString("fixtures")
	c.capabilities = v.GetStringSlice("capabilities")
	c.pollTimeout = v.GetDuration("poll-timeout")
	c.statusQueryTimeout = v.GetDuration("status-query-timeout")
	c.debug = v.GetBool("debug")
	c.debugAll = v.GetBool("debug-all")
	c.logFile = v.GetString("log-file")
	c.logLevel = v.GetString("log-level")

	if c.port <= 0 || c.port > 65535 {
		return fmt.Errorf("invalid port %d", c.port)
	}
	if c.pollTimeout <= 0 {
		return fmt.Errorf("poll-timeout must be positive, got %s", c.pollTimeout)
	}
	if _, err := os.Stat(c.fixturesDir); err != nil {
		return fmt.Errorf("fixtures directory is not accessible: %w", err)
	}
	return nil
}

// rerunCommand returns a shell command that repeats this run for a single test. Flags that
// were set on the command line are kept, except for the test filters.
func rerunCommand(fs *pflag.FlagSet, id framework.TestID) string {
	var b commandBuilder
	b.add(os.Args[0])
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "run" || f.Name == "skip" {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, value := range sv.GetSlice() {
				b.add("--" + f.Name + "=" + value)
			}
			return
		}
		b.add("--" + f.Name + "=" + f.Value.String())
	})
	b.add("--run", "^"+regexp.QuoteMeta(id.String())+"$")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
