package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/schemaref/internal/jsonutil"
	"github.com/erraggy/schemaref/resolver"
	"github.com/erraggy/schemaref/validator"
)

// FillFlags contains flags for the fill command
type FillFlags struct {
	Schema       string
	SchemaFolder string
	Format       string
	Output       string
	Verbose      bool
	MaxDepth     int
	MaxNodes     int
}

// SetupFillFlags creates and configures a FlagSet for the fill command.
// Returns the FlagSet and a FillFlags struct with bound flag variables.
func SetupFillFlags() (*flag.FlagSet, *FillFlags) {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	flags := &FillFlags{}

	fs.StringVar(&flags.Schema, "s", "", "schema file to fill")
	fs.StringVar(&flags.Schema, "schema", "", "schema file to fill")
	fs.StringVar(&flags.SchemaFolder, "sf", "", "directory holding referenced schemas (default: the schema's directory)")
	fs.StringVar(&flags.SchemaFolder, "schema-folder", "", "directory holding referenced schemas (default: the schema's directory)")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log every load and inlined reference to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log every load and inlined reference to stderr")
	fs.IntVar(&flags.MaxDepth, "max-depth", resolver.DefaultMaxRefDepth, "maximum number of nested $ref expansions")
	fs.IntVar(&flags.MaxNodes, "max-nodes", resolver.DefaultMaxInlinedNodes, "maximum number of JSON nodes resolution may build")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: schemaref fill [flags] <schema>\n\n")
		Writef(fs.Output(), "Inline every $ref in a schema and write the self-contained result.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  schemaref fill person.json\n")
		Writef(fs.Output(), "  schemaref fill -sf schemas -o person.filled.json schemas/person.json\n")
		Writef(fs.Output(), "  schemaref fill --format yaml -s person.json -sf schemas\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - \"#\" references to the document root are left in place\n")
		Writef(fs.Output(), "  - Output files are created with owner-only permissions\n")
	}

	return fs, flags
}

// HandleFill executes the fill command
func HandleFill(args []string) error {
	return runFill(args, os.Stdout, os.Stderr)
}

func runFill(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupFillFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.Schema == "" && fs.NArg() == 1 {
		flags.Schema = fs.Arg(0)
	} else if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("fill command takes at most one schema path")
	}
	if flags.Schema == "" {
		fs.Usage()
		return fmt.Errorf("fill command requires a schema path")
	}

	if flags.Format != FormatJSON && flags.Format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", flags.Format, FormatJSON, FormatYAML)
	}

	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{flags.Schema}); err != nil {
			return err
		}
	}

	opts := []validator.Option{
		validator.WithFilePath(flags.Schema),
		validator.WithMaxRefDepth(flags.MaxDepth),
		validator.WithMaxInlinedNodes(flags.MaxNodes),
		validator.WithLogger(NewLogger(stderr, flags.Verbose)),
	}
	if flags.SchemaFolder != "" {
		opts = append(opts, validator.WithSchemaDir(flags.SchemaFolder))
	}

	result, err := validator.FillWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("filling %s: %w", flags.Schema, err)
	}

	data, err := jsonutil.Encode(result.Resolved, jsonutil.Format(flags.Format))
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if flags.Output == "" {
		Writef(stdout, "%s", data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			Writef(stdout, "\n")
		}
		return nil
	}

	if err := WriteOutputFile(flags.Output, data); err != nil {
		return err
	}
	if flags.Verbose {
		Writef(stderr, "Filled %d reference(s) from %d document(s) into %s\n",
			result.Stats.RefsInlined, result.Stats.DocumentsLoaded, flags.Output)
	}
	return nil
}
