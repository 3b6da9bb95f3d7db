// Command lox is the interpreter's command-line front end. It exposes the
// pipeline stages as subcommands: tokenize and parse for inspecting the
// front half, run for executing scripts, and repl for an interactive
// session.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"lox/interpreter-go/log"
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

// Exit codes follow the sysexits convention: 65 for errors in the source
// text, 70 for errors raised while the program runs.
const (
	exitStatic  = 65
	exitRuntime = 70
)

// exitError carries a process exit code through kong's Run chain.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// CLI is the top-level command grammar.
type CLI struct {
	LogLevel string `help:"Minimum log level (${levels})." default:"warn" enum:"debug,info,warn,warning,error"`
	LogColor bool   `help:"Colorize log output."`
	Profile  string `help:"Write a profile on exit (cpu, mem, or trace)." enum:",cpu,mem,trace" default:""`

	Tokenize TokenizeCmd `cmd:"" help:"Print the token stream of a script."`
	Parse    ParseCmd    `cmd:"" help:"Print the syntax tree of a single expression."`
	Run      RunCmd      `cmd:"" help:"Execute a script."`
	Repl     ReplCmd     `cmd:"" help:"Start an interactive session."`

	logger log.Logger
}

// TokenizeCmd scans a script and prints every token, one per line. Lexical
// errors go to stderr but do not stop the scan.
type TokenizeCmd struct {
	Script string `arg:"" help:"Script to tokenize." type:"existingfile"`
}

func (c *TokenizeCmd) Run(cli *CLI) error {
	source, err := os.ReadFile(c.Script)
	if err != nil {
		return err
	}

	tokens, diags := scanner.New(string(source)).Scan()
	cli.logger.Debug("scanned", "tokens", len(tokens), "errors", len(diags))

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}

	if len(diags) != 0 {
		return exitError{code: exitStatic}
	}
	return nil
}

// ParseCmd parses a script holding a single expression and prints its tree
// in parenthesized prefix form.
type ParseCmd struct {
	Script string `arg:"" help:"Script to parse." type:"existingfile"`
}

func (c *ParseCmd) Run(cli *CLI) error {
	source, err := os.ReadFile(c.Script)
	if err != nil {
		return err
	}

	tokens, scanDiags := scanner.New(string(source)).Scan()
	if len(scanDiags) != 0 {
		for _, d := range scanDiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitError{code: exitStatic}
	}

	expr, parseDiags := parser.New(tokens).ParseExpression()
	if len(parseDiags) != 0 {
		for _, d := range parseDiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitError{code: exitStatic}
	}

	fmt.Println(ast.Print(expr))
	return nil
}

// RunCmd executes a script front to back.
type RunCmd struct {
	Script string `arg:"" help:"Script to run." type:"existingfile"`
}

func (c *RunCmd) Run(cli *CLI) error {
	source, err := os.ReadFile(c.Script)
	if err != nil {
		return err
	}

	session := driver.NewSession(os.Stdout)
	diags := session.Run(string(source))
	if len(diags) == 0 {
		return nil
	}

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if diags[len(diags)-1].Phase == diag.PhaseRuntime {
		return exitError{code: exitRuntime}
	}
	return exitError{code: exitStatic}
}

// ReplCmd starts the interactive prompt.
type ReplCmd struct{}

func (c *ReplCmd) Run(cli *CLI) error {
	return runRepl(cli.logger)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli CLI

	app, err := kong.New(&cli,
		kong.Name("lox"),
		kong.Description("A tree-walking interpreter for the Lox language."),
		kong.UsageOnError(),
		kong.Vars{"levels": "debug, info, warn, error"},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cli.logger = log.Make(os.Stderr,
		log.WithLevel(log.ParseLevel(cli.LogLevel)),
		log.WithColor(cli.LogColor),
	)

	if cli.Profile != "" {
		defer profile.Start(profileMode(cli.Profile), profile.ProfilePath("."), profile.Quiet).Stop()
	}

	if err := kctx.Run(&cli); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func profileMode(mode string) func(*profile.Profile) {
	switch mode {
	case "mem":
		return profile.MemProfile
	case "trace":
		return profile.TraceProfile
	default:
		return profile.CPUProfile
	}
}
