package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artwork-helper/internal/logging"
	"artwork-helper/internal/startup"

	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args))
}

// run configures and executes the CLI, returning the exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, args); err != nil {
		logging.Error("%v", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "artwork-helper"
	app.Usage = "Processed artwork cache for media center skins"
	app.Version = fmt.Sprintf("%s (commit: %s, built: %s) // %s", startup.Version, startup.Commit, startup.BuildTime, startup.GoVersion)
	app.HideHelpCommand = true
	app.Flags = globalFlags()
	app.Before = func(c *cli.Context) error {
		if name := c.String("log-level"); name != "" {
			level, ok := logging.ParseLevel(name)
			if !ok {
				return fmt.Errorf("unknown log level %q", name)
			}
			logging.SetLevel(level)
		}
		return nil
	}
	app.Commands = []*cli.Command{
		processCommand(),
		serveCommand(),
	}
	return app
}
