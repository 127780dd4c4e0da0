// Command gdef is this module's CLI front-end: a thin cobra command
// tree over package gdef's Build/Tokenize/Parse pipeline, one file per
// subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdeferr "github.com/motoki317/gdef/error"
)

var rootCmd = &cobra.Command{
	Use:   "gdef",
	Short: "Compile a GDef grammar and run its tokenizer/parser",
	Long: `gdef compiles a grammar written in the Grammar Definition Format (GDef)
into a tokenizer and an LR(1) parser, and can drive both over arbitrary
source text for debugging a grammar under development.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootFlags = struct {
	noColor *bool
}{}

// cfg holds the decoded .gdefrc settings for the lifetime of one
// command invocation; subcommands read it for output format and
// ignored-lexeme display policy.
var cfg *Config

func init() {
	rootFlags.noColor = rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI color output")
	rootCmd.AddCommand(compileCmd, tokenizeCmd, parseCmd, showCmd, replCmd)
}

// Execute runs the root command, applying the resolved color policy
// (flag > .gdefrc > TTY auto-detection, see applyColorPolicy) before
// any subcommand's RunE executes.
func Execute() error {
	cfg = loadConfig()
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		applyColorPolicy(cfg, *rootFlags.noColor)
	}
	return rootCmd.Execute()
}

// applyColorPolicy wires pterm's global color switch to an explicit
// --no-color flag, falling back to the .gdefrc "color" setting, and
// finally to whether stdout is a real terminal, so piping `gdef show`
// into a file or another program doesn't embed escape codes.
// go-colorable keeps ANSI passthrough working on Windows consoles
// where isatty reports true.
func applyColorPolicy(cfg *Config, noColorFlag bool) {
	colorOn := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if cfg.ColorSet {
		colorOn = cfg.Color
	}
	if noColorFlag {
		colorOn = false
	}

	pterm.SetDefaultOutput(colorable.NewColorableStdout())
	if colorOn {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// exitCodeFor maps an error returned by a subcommand to the CLI's
// exit-code contract: 0 success, 2 grammar build error, 3 tokenization
// error, 4 parse error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case gdeferr.BuildErrors:
		return 2
	case *gdeferr.GrammarBuildError, *gdeferr.RegexBuildError, *gdeferr.LRConflictError:
		return 2
	case *gdeferr.UnexpectedCharacterError, *gdeferr.UnexpectedEndOfInputError:
		return 3
	case *gdeferr.SyntaxError:
		return 4
	default:
		return 1
	}
}

func readSourceFile(path string) (string, error) {
	if path == "" || path == "-" {
		b := make([]byte, 0, 4096)
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			b = append(b, buf[:n]...)
			if err != nil {
				break
			}
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(b), nil
}
