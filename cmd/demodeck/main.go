// Command demodeck is a terminal demo of e-commerce, video and analytics
// pages with simulated transfers, plus a local stand-in for the
// /api/vercel proxy.
package main

import (
	"io"
	"log/slog"
	"os"

	"demodeck/internal/config"
	"demodeck/internal/logging"

	"github.com/alecthomas/kong"
)

// Globals is handed to every command's Run.
type Globals struct {
	Config config.Config
	Logger *slog.Logger
	Level  slog.Level
	Out    io.Writer
}

// CLI is the root command.
type CLI struct {
	ConfigFile string `name:"config" short:"c" help:"Configuration file path" env:"DEMODECK_CONFIG" type:"path"`
	Verbose    bool   `short:"v" help:"Enable debug logging"`

	TUI      TUICmd      `cmd:"" name:"tui" default:"withargs" help:"Run the terminal UI (default)"`
	Serve    ServeCmd    `cmd:"" help:"Serve the /api/vercel proxy with mock data"`
	Projects ProjectsCmd `cmd:"" help:"List teams and projects through the proxy"`
	Env      EnvCmd      `cmd:"" help:"List or add project environment variables"`
	Simulate SimulateCmd `cmd:"" help:"Run one transfer simulation and print its progress"`
}

// AfterApply loads configuration and sets up stderr logging once flags are
// parsed. The TUI command redirects logging to a file later.
func (c *CLI) AfterApply(g *Globals) error {
	var cfg config.Config
	var err error
	if c.ConfigFile != "" {
		cfg, err = config.LoadFile(c.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	level := logging.ParseLevel(cfg.Log.Level, c.Verbose)
	g.Config = cfg
	g.Level = level
	g.Logger = logging.Stderr(level)
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

func main() {
	var cli CLI
	globals := &Globals{Out: os.Stdout}
	ctx := kong.Parse(&cli,
		kong.Name("demodeck"),
		kong.Description("Terminal demo pages, transfer simulations and a Vercel API stand-in."),
		kong.UsageOnError(),
		kong.Bind(globals),
	)
	if err := ctx.Run(); err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
