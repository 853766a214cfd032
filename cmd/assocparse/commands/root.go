// Package commands implements the assocparse command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/logger"
)

// NewRootCmd builds the command tree. Each call returns a fresh tree, so
// flags never leak between invocations.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assocparse",
		Short: "Parse and validate GAF, GPAD and HPOA association files",
		Long: `assocparse - association file parser and validator.

Reads gene/disease-to-ontology-term association files (GAF, GPAD, HPOA)
and reports every data-quality problem without stopping at the first one.

Available commands:
  parse   - Parse a file, mirror valid lines, print a diagnostic report
  skim    - Print (subject, label, term) tuples for positive annotations
  report  - Inspect persisted parse runs
  am      - Manage assocparse configuration ("I am")
  version - Show build information

Examples:
  assocparse parse gene_association.mgi.gz
  assocparse parse https://example.org/goa_human.gpad --format gpad --report json
  assocparse skim phenotype.hpoa --format hpoa
  assocparse report ls --limit 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("log-json")
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	root.AddCommand(
		newParseCmd(),
		newSkimCmd(),
		newReportCmd(),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}
