package commands

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/assoc"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/source"
	"github.com/teranos/assocparse/logger"
)

func newSkimCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "skim <source>",
		Short: "Print subject/label/term tuples for positive annotations",
		Long: `Skim an association file, printing one tab-separated line per
non-negated annotation:

  <subject id>	<subject label>	<term id>

Identifiers are remapped and validated as in parse; headers and negated
annotations are skipped. Only the number of problems is logged (-v).

Example:
  assocparse skim mgi.gaf | sort -u > pairs.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkim(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Association format: gaf, gpad, hpoa (default from config)")
	return cmd
}

func runSkim(cmd *cobra.Command, input, format string) error {
	cfg, err := loadConfig(format, "")
	if err != nil {
		return err
	}
	decoder, err := cfg.Decoder()
	if err != nil {
		return err
	}
	parserCfg, err := cfg.BuildParserConfig()
	if err != nil {
		return err
	}

	src, err := source.Resolve(cmd.Context(), input, source.Options{
		TempDir: cfg.Source.TempDir,
		Timeout: cfg.FetchTimeout(),
		Stdin:   cmd.InOrStdin(),
	}, logger.ComponentLogger("source"))
	if err != nil {
		return err
	}

	parser := assoc.NewParser(decoder, parserCfg, logger.ComponentLogger("assoc."+string(decoder.Format())))
	out := bufio.NewWriter(cmd.OutOrStdout())
	n := 0
	for tuple := range parser.Skim(src) {
		fmt.Fprintf(out, "%s\t%s\t%s\n", tuple.SubjectID, tuple.SubjectLabel, tuple.ObjectID)
		n++
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "failed to write tuples")
	}

	logger.Infow("Skim complete", logger.FieldSource, input, logger.FieldCount, n,
		"errors", parser.Report().Count(report.SeverityError))
	return nil
}
