package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/cmd/schemaref/commands"
)

// commandNames lists the commands suggestCommand considers.
var commandNames = []string{"check", "fill", "lint", "map", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]

	// "schemaref -s schema.json -sf schemas" runs check.
	if strings.HasPrefix(command, "-") && !isGlobalFlag(command) {
		return report(commands.HandleCheck(args))
	}

	switch command {
	case "version", "--version":
		fmt.Printf("schemaref v%s\n", schemaref.Version())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "check":
		return report(commands.HandleCheck(args[1:]))
	case "fill":
		return report(commands.HandleFill(args[1:]))
	case "lint":
		return report(commands.HandleLint(args[1:]))
	case "map":
		return report(commands.HandleMap(args[1:]))
	case "mcp":
		return report(commands.HandleMCP(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}
}

func isGlobalFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "--version":
		return true
	}
	return false
}

// report prints err and maps it to an exit code. ErrCheckFailed has already
// been described by the command, or was silenced by -q.
func report(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, commands.ErrCheckFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `schemaref - JSON Schema $ref resolver and meta-schema checker

Usage:
  schemaref <command> [options]
  schemaref -s <schema> -sf <schema-folder>

Commands:
  check       Resolve references and check a schema against its meta-schema
  fill        Inline every $ref and print the self-contained schema
  lint        Check that files parse as JSON or YAML
  map         Print the schema-folder filename for identifiers
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  schemaref -s person.json -sf schemas
  schemaref check --engine gojsonschema -s person.json -sf schemas
  schemaref fill --format yaml schemas/person.json
  schemaref lint schemas/*.json
  schemaref map http://example.com/schemas/address

Run 'schemaref <command> --help' for more information on a command.
`)
}
