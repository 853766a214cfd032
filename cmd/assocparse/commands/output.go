package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/assocparse/am"
	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/report"
)

// stdoutName as --out sends mirrored lines to stdout
const stdoutName = "-"

// writeStructured encodes v as json or yaml
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case am.ReportFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case am.ReportFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Newf("unsupported output format %q", format)
}

// writeSummary prints a run digest in the configured report format
func writeSummary(w io.Writer, format string, s report.Summary) error {
	if format == "" || format == am.ReportFormatMarkdown {
		_, err := io.WriteString(w, report.RenderMarkdown(s))
		return err
	}
	return writeStructured(w, format, s)
}

// openMirror returns where valid lines are mirrored: nothing, stdout or a
// created file
func openMirror(w io.Writer, path string) (io.Writer, func() error, error) {
	switch path {
	case "":
		return nil, func() error { return nil }, nil
	case stdoutName:
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %s", path)
	}
	return f, f.Close, nil
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Success.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Warning.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Info.Sprintf(format, args...))
}
