package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/schemaref/store"
)

// LintFlags contains flags for the lint command
type LintFlags struct {
	Format string
	Quiet  bool
}

// SetupLintFlags creates and configures a FlagSet for the lint command.
// Returns the FlagSet and a LintFlags struct with bound flag variables.
func SetupLintFlags() (*flag.FlagSet, *LintFlags) {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	flags := &LintFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only set the exit code, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only set the exit code, no diagnostic messages")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: schemaref lint [flags] <file>...\n\n")
		Writef(fs.Output(), "Check that each file parses as JSON (or YAML, by extension). References and\n")
		Writef(fs.Output(), "meta-schemas are not examined.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  schemaref lint schemas/*.json\n")
		Writef(fs.Output(), "  schemaref lint --format json person.json address.yaml\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Every file parses\n")
		Writef(fs.Output(), "  1    Any file is missing, unreadable, or malformed\n")
	}

	return fs, flags
}

// lintResult is one file's outcome
type lintResult struct {
	File   string `json:"file"             yaml:"file"`
	Valid  bool   `json:"valid"            yaml:"valid"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Error  string `json:"error,omitempty"  yaml:"error,omitempty"`
}

// HandleLint executes the lint command
func HandleLint(args []string) error {
	return runLint(args, os.Stdout, os.Stderr)
}

func runLint(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupLintFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("lint command requires at least one file")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	// Files are read by path, so the schema directory is never consulted.
	st, err := store.New(".", store.WithMaxCachedDocuments(fs.NArg()+1))
	if err != nil {
		return err
	}

	results := make([]lintResult, 0, fs.NArg())
	failed := false
	for _, path := range fs.Args() {
		r := lintResult{File: path}
		doc, err := st.LoadPath(path)
		if err != nil {
			r.Error = err.Error()
			failed = true
		} else {
			r.Valid = true
			r.Format = string(doc.Format)
		}
		results = append(results, r)
	}

	switch {
	case flags.Format != FormatText:
		if err := OutputStructured(stdout, results, flags.Format); err != nil {
			return err
		}
	case !flags.Quiet:
		for _, r := range results {
			if !r.Valid {
				Writef(stderr, "%s\n", r.Error)
				continue
			}
			Writef(stdout, "%s: ok\n", r.File)
		}
	}

	if failed {
		return ErrCheckFailed
	}
	return nil
}
