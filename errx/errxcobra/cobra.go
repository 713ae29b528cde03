package errxcobra

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputFormat selects how errors are printed
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// DisplayMode controls which parts of the error are printed
type DisplayMode string

const (
	// DisplayModeSimple prints only the message
	DisplayModeSimple DisplayMode = "simple"
	// DisplayModeNormal prints message, code and type
	DisplayModeNormal DisplayMode = "normal"
	// DisplayModeDetailed prints everything including details and the cause chain
	DisplayModeDetailed DisplayMode = "detailed"
)

// Options configures the CLI error printer
type Options struct {
	Format      OutputFormat
	DisplayMode DisplayMode
	UseColors   bool
	ExitOnError bool
	ExitFunc    func(int)
	Out         io.Writer
}

// DefaultOptions prints colored text in normal mode to stderr and exits
func DefaultOptions() Options {
	return Options{
		Format:      OutputFormatText,
		DisplayMode: DisplayModeNormal,
		UseColors:   true,
		ExitOnError: true,
		ExitFunc:    os.Exit,
		Out:         os.Stderr,
	}
}

// CLI prints errors returned by cobra commands
type CLI struct {
	opts Options
}

// NewCLI creates a CLI error printer
func NewCLI(opts Options) *CLI {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.ExitFunc == nil {
		opts.ExitFunc = os.Exit
	}
	if opts.DisplayMode == "" {
		opts.DisplayMode = DisplayModeNormal
	}
	return &CLI{opts: opts}
}

// SetFormat switches the output format, e.g. from a --json flag
func (c *CLI) SetFormat(format OutputFormat) {
	c.opts.Format = format
}

// Wrap adapts a RunE function so its error is printed and mapped to an exit code
func (c *CLI) Wrap(runFn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := runFn(cmd, args); err != nil {
			c.HandleError(err)
		}
		return nil
	}
}

// HandleError prints err and, when configured, exits with a code derived
// from the error type.
func (c *CLI) HandleError(err error) {
	if err == nil {
		return
	}

	xerr, ok := errx.As(err)
	if !ok {
		xerr = errx.NewWithCode("UNKNOWN_ERROR", err.Error(), errx.TypeInternal)
	}

	if c.opts.Format == OutputFormatJSON {
		c.printJSON(xerr)
	} else {
		c.printText(xerr)
	}

	if c.opts.ExitOnError {
		c.opts.ExitFunc(ExitCode(xerr))
	}
}

// ExitCode maps an error type to a process exit code
func ExitCode(err *errx.Error) int {
	switch err.Type {
	case errx.TypeValidation, errx.TypeBadRequest:
		return 2
	case errx.TypeAuthorization:
		return 3
	case errx.TypeNotFound:
		return 4
	case errx.TypeInternal:
		return 5
	case errx.TypeExternal:
		return 6
	case errx.TypeUnavailable, errx.TypeTimeout:
		return 7
	}
	return 1
}

func (c *CLI) printJSON(err *errx.Error) {
	body := map[string]any{"message": err.Message}
	if c.opts.DisplayMode != DisplayModeSimple {
		body["code"] = err.Code
		body["type"] = err.Type
	}
	if c.opts.DisplayMode == DisplayModeDetailed && len(err.Details) > 0 {
		body["details"] = err.Details
	}
	out, _ := json.MarshalIndent(map[string]any{"error": body}, "", "  ")
	fmt.Fprintln(c.opts.Out, string(out))
}

func (c *CLI) printText(err *errx.Error) {
	errorColor := color.New(color.FgHiRed, color.Bold)
	codeColor := color.New(color.FgHiYellow)
	typeColor := color.New(color.FgHiCyan)
	keyColor := color.New(color.FgHiGreen)
	headerColor := color.New(color.FgHiMagenta, color.Bold)
	for _, col := range []*color.Color{errorColor, codeColor, typeColor, keyColor, headerColor} {
		if c.opts.UseColors {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	w := c.opts.Out
	if c.opts.DisplayMode == DisplayModeSimple {
		errorColor.Fprint(w, "Error: ")
		fmt.Fprintln(w, err.Message)
		return
	}

	line := strings.Repeat("─", 60)
	fmt.Fprintln(w, line)
	errorColor.Fprint(w, " ERROR ")
	fmt.Fprintf(w, "❯ %s\n", err.Message)
	fmt.Fprintln(w, line)

	headerColor.Fprint(w, "   CODE ❯ ")
	codeColor.Fprintln(w, string(err.Code))
	headerColor.Fprint(w, "   TYPE ❯ ")
	typeColor.Fprintln(w, string(err.Type))
	if err.HTTPStatus != 0 {
		headerColor.Fprint(w, " STATUS ❯ ")
		fmt.Fprintln(w, err.HTTPStatus)
	}

	if c.opts.DisplayMode == DisplayModeDetailed {
		if len(err.Details) > 0 {
			headerColor.Fprintln(w, " DETAILS")
			keys := make([]string, 0, len(err.Details))
			for k := range err.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				keyColor.Fprintf(w, "   %s", k)
				fmt.Fprintf(w, " ❯ %v\n", err.Details[k])
			}
		}

		if cause := errors.Unwrap(err); cause != nil {
			headerColor.Fprintln(w, "   CAUSE")
			indent := "   "
			for ; cause != nil; cause = errors.Unwrap(cause) {
				fmt.Fprintf(w, "%s❯ %s\n", indent, cause.Error())
				indent += "  "
			}
		}
	}
	fmt.Fprintln(w, line)
}
