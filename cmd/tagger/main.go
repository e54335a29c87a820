// Package main provides the tagger CLI and its lstag, lsotag, tag, rmtag
// and tagdb aliases.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matsen/tagger/internal/query"
	"github.com/matsen/tagger/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(main1())
}

func main1() int {
	return run(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// builders maps an executable name to the command it runs.
var builders = map[string]func(*app) *cobra.Command{
	"tagger": newTaggerCmd,
	"lstag":  newLstagCmd,
	"lsotag": newLsotagCmd,
	"tag":    newTagCmd,
	"rmtag":  newRmtagCmd,
	"tagdb":  newTagdbCmd,
}

// commandName picks the alias from the executable's base name.
// Unknown names run the generic tagger command.
func commandName(argv0 string) string {
	name := filepath.Base(argv0)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if _, ok := builders[name]; ok {
		return name
	}
	return "tagger"
}

// run executes one invocation and returns its exit code.
func run(argv0 string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// A .env file may seed TAGGER_DB_PATH
	_ = godotenv.Load()

	name := commandName(argv0)
	a := newApp(name, stdin, stdout, stderr)
	cmd := builders[name](a)
	cmd.Version = Version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(expandTagArgs(args))

	failed, err := cmd.ExecuteC()
	defer a.close()
	if err == nil {
		return ExitSuccess
	}
	return a.exitCode(failed, err)
}

// exitCode reports err and maps it to an exit code. Errors raised before a
// command started running are usage errors.
func (a *app) exitCode(cmd *cobra.Command, err error) int {
	var openErr *storage.OpenError
	switch {
	case errors.As(err, &openErr):
		fmt.Fprintln(a.stderr, openErr.Error())
		return ExitError
	case errors.Is(err, query.ErrNoTarget):
		fmt.Fprintln(a.stderr, "There is no such file or directory")
		return ExitNoTarget
	case !a.running:
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		fmt.Fprint(a.stderr, cmd.UsageString())
		return ExitUsage
	default:
		fmt.Fprintf(a.stderr, "error: %s\n", err)
		return ExitError
	}
}
