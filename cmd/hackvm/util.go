package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/hackvm/errors"
)

var red = color.New(color.FgRed).SprintFunc()

var outputFormats = []string{"json", "text"}

// useColor reports whether colored output should be written to f.
func useColor(f *os.File) bool {
	if color.NoColor {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatError renders diagnostics with source context where available.
func formatError(err error, colored bool) string {
	var silent silentError
	if stderrors.As(err, &silent) {
		return ""
	}
	formatter := errors.NewFormatter(colored)
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		return formatter.FormatMultiple(formatAll(merr.Errors))
	}
	var terr *errors.TranslateError
	if stderrors.As(err, &terr) {
		return formatter.Format(terr.ToFormatted())
	}
	msg := err.Error()
	if colored {
		msg = red(msg)
	}
	return msg + "\n"
}

func formatAll(errs []error) []*errors.FormattedError {
	formatted := make([]*errors.FormattedError, 0, len(errs))
	for _, err := range errs {
		var terr *errors.TranslateError
		if stderrors.As(err, &terr) {
			formatted = append(formatted, terr.ToFormatted())
		} else {
			formatted = append(formatted, &errors.FormattedError{Message: err.Error()})
		}
	}
	return formatted
}

// silentError signals a failure whose diagnostics were already printed.
type silentError struct {
	msg string
}

func (e silentError) Error() string {
	return e.msg
}

func checkOutputFormat(format string) error {
	for _, f := range outputFormats {
		if strings.EqualFold(f, format) {
			return nil
		}
	}
	return fmt.Errorf("unknown output format: %s (expected %s)", format, strings.Join(outputFormats, " or "))
}

func writeJSON(w io.Writer, value any, colored bool) error {
	var data []byte
	var err error
	if colored {
		data, err = prettyjson.Marshal(value)
	} else {
		data, err = json.MarshalIndent(value, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isColorWriter reports whether w is a terminal that should receive color.
func isColorWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && useColor(f)
}
