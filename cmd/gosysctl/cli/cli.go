package cli

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	sysctl "github.com/frobware/go-sysctl"
	"github.com/frobware/go-sysctl/config"
	"github.com/frobware/go-sysctl/kernel"
	"github.com/frobware/go-sysctl/logging"
)

// CLI is the root command structure for gosysctl.
type CLI struct {
	Config string `name:"config" help:"Config file path." default:"${default_config_path}"`
	Log    string `name:"log" help:"Log spec (e.g. 'info,sysctl=debug')." env:"GOSYSCTL_LOG"`

	Get      GetCmd      `cmd:"" help:"Read sysctl values by name."`
	Set      SetCmd      `cmd:"" help:"Set sysctl values (NAME=VALUE)."`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve names to numeric OID paths."`
	List     ListCmd     `cmd:"" help:"List the sysctl tree under a prefix."`
	Ntptime  NtptimeCmd  `cmd:"" help:"Show ntp_gettime(2) clock state."`
	Snapshot SnapshotCmd `cmd:"" help:"Capture and compare tunable snapshots."`
}

// KongOptions returns the Kong configuration for the CLI.
func KongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("gosysctl"),
		kong.Description("FreeBSD sysctl client."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"default_config_path": config.DefaultConfigPath,
		},
	}
}

// LoadConfig loads the configuration file.
func (c *CLI) LoadConfig() (config.Config, error) {
	return config.Load(c.Config)
}

// Logger creates the logger for CLI commands. The log spec comes from
// the --log flag, then GOSYSCTL_LOG, then the config file; when none
// of them say anything, commands fall back to warn for quiet output.
func (c *CLI) Logger() (*slog.Logger, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	envSpec := os.Getenv(logging.EnvVar)
	configSpec := cfg.Logging.ToSpec()
	if c.Log == "" && envSpec == "" && configSpec == "" {
		configSpec = "warn"
	}
	return logging.New(logging.Options{
		CLISpec:    c.Log,
		EnvSpec:    envSpec,
		ConfigSpec: configSpec,
		Format:     format,
		Output:     os.Stderr,
	})
}

// Client builds a sysctl client over the system transport.
func (c *CLI) Client() (*sysctl.Client, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	return sysctl.New(kernel.New(), logger), nil
}
