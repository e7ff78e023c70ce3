package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/jsonvalidate"
	"github.com/erraggy/schemaref/resolver"
	"github.com/erraggy/schemaref/validator"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	Schema       string
	SchemaFolder string
	Engine       string
	MetaSchema   string
	Format       string
	Quiet        bool
	Verbose      bool
	MaxDepth     int
	MaxNodes     int
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Returns the FlagSet and a CheckFlags struct with bound flag variables.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.StringVar(&flags.Schema, "s", "", "schema file to check")
	fs.StringVar(&flags.Schema, "schema", "", "schema file to check")
	fs.StringVar(&flags.SchemaFolder, "sf", "", "directory holding referenced schemas and meta-schemas")
	fs.StringVar(&flags.SchemaFolder, "schema-folder", "", "directory holding referenced schemas and meta-schemas")
	fs.StringVar(&flags.Engine, "engine", jsonvalidate.DefaultEngine, "validation engine: santhosh, gojsonschema, or google")
	fs.StringVar(&flags.MetaSchema, "meta-schema", "", "check against this meta-schema identifier instead of the declared $schema")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only set the exit code, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only set the exit code, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log every load and inlined reference to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log every load and inlined reference to stderr")
	fs.IntVar(&flags.MaxDepth, "max-depth", resolver.DefaultMaxRefDepth, "maximum number of nested $ref expansions")
	fs.IntVar(&flags.MaxNodes, "max-nodes", resolver.DefaultMaxInlinedNodes, "maximum number of JSON nodes resolution may build")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: schemaref check [flags] -s <schema> -sf <schema-folder>\n\n")
		Writef(fs.Output(), "Resolve every $ref in a schema and check it against the meta-schema it declares.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput Formats:\n")
		Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  schemaref check -s person.json -sf schemas\n")
		Writef(fs.Output(), "  schemaref -s person.json -sf schemas\n")
		Writef(fs.Output(), "  schemaref check --engine gojsonschema -s person.json -sf schemas\n")
		Writef(fs.Output(), "  schemaref check --format json -s person.json -sf schemas | jq '.valid'\n")
		Writef(fs.Output(), "  schemaref check --meta-schema http://example.com/meta -s list.json -sf schemas\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Schema resolves and conforms to its meta-schema\n")
		Writef(fs.Output(), "  1    Any load, reference, or meta-schema failure\n")
	}

	return fs, flags
}

// checkReport is the structured form of a check result
type checkReport struct {
	Valid          bool              `json:"valid"                  yaml:"valid"`
	Schema         string            `json:"schema"                 yaml:"schema"`
	SchemaFolder   string            `json:"schema_folder"          yaml:"schema_folder"`
	MetaSchema     string            `json:"meta_schema,omitempty"  yaml:"meta_schema,omitempty"`
	Engine         string            `json:"engine"                 yaml:"engine"`
	ViolationCount int               `json:"violation_count"        yaml:"violation_count"`
	Violations     []reportViolation `json:"violations,omitempty"   yaml:"violations,omitempty"`
	Stats          validator.Stats   `json:"stats"                  yaml:"stats"`
}

type reportViolation struct {
	InstanceLocation string `json:"instance_location"          yaml:"instance_location"`
	KeywordLocation  string `json:"keyword_location,omitempty" yaml:"keyword_location,omitempty"`
	Message          string `json:"message"                    yaml:"message"`
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	return runCheck(args, os.Stdout, os.Stderr)
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupCheckFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// A trailing positional argument is accepted in place of -s.
	if flags.Schema == "" && fs.NArg() == 1 {
		flags.Schema = fs.Arg(0)
	} else if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("check command takes at most one schema path")
	}
	if flags.Schema == "" || flags.SchemaFolder == "" {
		fs.Usage()
		return fmt.Errorf("check command requires -s/--schema and -sf/--schema-folder")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	startTime := time.Now()
	result, err := validator.ValidateWithOptions(
		validator.WithFilePath(flags.Schema),
		validator.WithSchemaDir(flags.SchemaFolder),
		validator.WithEngine(flags.Engine),
		validator.WithMetaSchema(flags.MetaSchema),
		validator.WithMaxRefDepth(flags.MaxDepth),
		validator.WithMaxInlinedNodes(flags.MaxNodes),
		validator.WithLogger(NewLogger(stderr, flags.Verbose)),
	)
	if err != nil {
		if flags.Quiet {
			// ErrCheckFailed keeps the caller from printing it
			return fmt.Errorf("%w: checking %s: %w", ErrCheckFailed, flags.Schema, err)
		}
		return fmt.Errorf("checking %s: %w", flags.Schema, err)
	}
	totalTime := time.Since(startTime)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(stdout, newCheckReport(flags, result), flags.Format); err != nil {
			return err
		}
		if !result.Valid {
			return ErrCheckFailed
		}
		return nil
	}

	if !flags.Quiet {
		writeCheckText(stderr, flags, result, totalTime)
	}
	if !result.Valid {
		return ErrCheckFailed
	}
	return nil
}

func newCheckReport(flags *CheckFlags, result *validator.ValidationResult) checkReport {
	report := checkReport{
		Valid:          result.Valid,
		Schema:         flags.Schema,
		SchemaFolder:   flags.SchemaFolder,
		MetaSchema:     result.MetaSchema,
		Engine:         result.Engine,
		ViolationCount: result.ViolationCount,
		Stats:          result.Stats,
	}
	for _, v := range result.Violations {
		report.Violations = append(report.Violations, reportViolation(v))
	}
	return report
}

func writeCheckText(w io.Writer, flags *CheckFlags, result *validator.ValidationResult, totalTime time.Duration) {
	WriteHeading(w, "schema check")
	Writef(w, "schemaref version: %s\n", schemaref.Version())
	Writef(w, "Schema: %s\n", flags.Schema)
	Writef(w, "Schema Folder: %s\n", flags.SchemaFolder)
	if result.MetaSchema != "" {
		Writef(w, "Meta-Schema: %s\n", result.MetaSchema)
	} else {
		Writef(w, "Meta-Schema: (none declared)\n")
	}
	Writef(w, "Engine: %s\n", result.Engine)
	Writef(w, "Source Size: %s\n", FormatBytes(result.SourceSize))
	Writef(w, "Documents Loaded: %d\n", result.Stats.DocumentsLoaded)
	Writef(w, "References Inlined: %d\n", result.Stats.RefsInlined)
	Writef(w, "Load Time: %v\n", result.LoadTime)
	Writef(w, "Total Time: %v\n\n", totalTime)

	if len(result.Violations) > 0 {
		Writef(w, "Violations (%d):\n", result.ViolationCount)
		for _, v := range result.Violations {
			Writef(w, "  %s\n", v.String())
		}
		Writef(w, "\n")
	}

	if result.Valid {
		Writef(w, "✓ Check passed\n")
	} else {
		Writef(w, "✗ Check failed: %d violation(s)\n", result.ViolationCount)
	}
}
