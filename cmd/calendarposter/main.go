package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/guilherme-santos/calendarposter/internal/config"
)

// env is what every command receives besides its own arguments.
type env struct {
	cfg          *config.Config
	dbFilename   string
	clientIDFile string
	verbose      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command interface {
	name() string
	description() string
	Run(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	AuthCommand,
	PostCommand,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Unable to run command:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	var cfgFilename string

	fs := flag.NewFlagSet("calendarposter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, "Translates upcoming calendar events into Discord embeds and posts them to a webhook url.\n\n")
		fmt.Fprintf(w, "Usage: %s [options] <command> [command options]\n\n", fs.Name())
		fmt.Fprintln(w, "Commands:")
		for _, cmd := range commands {
			fmt.Fprintf(w, "  %-6s %s\n", cmd.name(), cmd.description())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfgFilename, "config", config.DefaultPath(), "config file")
	fs.StringVar(&e.dbFilename, "db", "calendarposter.db", "database keeping the credentials")
	fs.StringVar(&e.clientIDFile, "client-id-file", "client_id.json", "OAuth2 client id file downloaded from Google")
	fs.BoolVar(&e.verbose, "v", false, "verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(cfgFilename)
	if err != nil {
		return err
	}
	e.cfg = cfg

	name := fs.Arg(0)
	for _, cmd := range commands {
		if cmd.name() == name {
			return cmd.Run(ctx, e, fs.Args()[1:])
		}
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", name)
}
