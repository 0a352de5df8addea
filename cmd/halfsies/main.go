// Command halfsies encodes, decodes and settles share links from the shell.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/halfsies/internal/urlstate"
	"github.com/mmynk/halfsies/pkg/logging"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&encodeCmd{out: os.Stdout}, "links")
	commander.Register(&decodeCmd{out: os.Stdout}, "links")
	commander.Register(&migrateCmd{out: os.Stdout}, "links")
	commander.Register(&settleCmd{out: os.Stdout}, "")

	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetupWithLevel(level)

	os.Exit(int(commander.Execute(context.Background())))
}

// locate accepts a full URL, a path with query or fragment, or a bare
// fragment with or without its "#".
func locate(arg string) (*urlstate.URLLocation, error) {
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "/") || strings.HasPrefix(arg, "?") {
		return urlstate.NewURLLocation(arg)
	}
	return urlstate.NewURLLocation("#" + strings.TrimPrefix(arg, "#"))
}
