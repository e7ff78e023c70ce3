package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/schemaref/identifier"
)

// MapFlags contains flags for the map command
type MapFlags struct {
	Format string
}

// SetupMapFlags creates and configures a FlagSet for the map command.
// Returns the FlagSet and a MapFlags struct with bound flag variables.
func SetupMapFlags() (*flag.FlagSet, *MapFlags) {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	flags := &MapFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: schemaref map [flags] <identifier>...\n\n")
		Writef(fs.Output(), "Print the schema-folder filename each identifier is loaded from.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  schemaref map http://example.com/schemas/address\n")
		Writef(fs.Output(), "  schemaref map tag:example.com,2020:name http://example.com/meta\n")
		Writef(fs.Output(), "  schemaref map --format json http://example.com/schemas/address\n")
	}

	return fs, flags
}

// mapping is one identifier's filename, or the reason it has none
type mapping struct {
	Identifier string   `json:"identifier"             yaml:"identifier"`
	Filename   string   `json:"filename,omitempty"     yaml:"filename,omitempty"`
	Alternates []string `json:"alternates,omitempty"   yaml:"alternates,omitempty"`
	Error      string   `json:"error,omitempty"        yaml:"error,omitempty"`
}

// HandleMap executes the map command
func HandleMap(args []string) error {
	return runMap(args, os.Stdout, os.Stderr)
}

func runMap(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupMapFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("map command requires at least one identifier")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	mappings := make([]mapping, 0, fs.NArg())
	failed := false
	for _, arg := range fs.Args() {
		m := mapping{Identifier: arg}
		id, err := identifier.Parse(arg)
		if err != nil {
			m.Error = err.Error()
			failed = true
		} else {
			m.Filename = id.Filename()
			m.Alternates = id.AlternateFilenames()
		}
		mappings = append(mappings, m)
	}

	if flags.Format == FormatText {
		for _, m := range mappings {
			if m.Error != "" {
				Writef(stderr, "%s: %s\n", m.Identifier, m.Error)
				continue
			}
			Writef(stdout, "%s -> %s\n", m.Identifier, m.Filename)
		}
	} else if err := OutputStructured(stdout, mappings, flags.Format); err != nil {
		return err
	}

	if failed {
		return ErrCheckFailed
	}
	return nil
}
