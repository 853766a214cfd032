package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/assocparse/db"
	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/logger"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect persisted parse runs",
		Long: `Inspect parse runs saved with "parse --persist" (or database.persist).

Examples:
  assocparse report ls               # Most recent runs
  assocparse report ls --limit 50    # Up to 50 runs
  assocparse report show <run-id>    # Messages of one run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newReportLsCmd(), newReportShowCmd())
	return cmd
}

func newReportLsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List persisted parse runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportLs(cmd, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to display")
	return cmd
}

func newReportShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the messages recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportShow(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Output format: json, yaml (default: table)")
	return cmd
}

func openStore() (*report.SQLStore, func() error, error) {
	cfg, err := loadConfig("", "")
	if err != nil {
		return nil, nil, err
	}
	database, err := db.OpenWithMigrations(cfg.GetDatabasePath(), logger.ComponentLogger("db"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open database")
	}
	return report.NewSQLStore(database), database.Close, nil
}

func runReportLs(cmd *cobra.Command, limit int) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printInfo(cmd.OutOrStdout(), "No runs found")
		return nil
	}

	data := pterm.TableData{{"RUN ID", "FORMAT", "VERSION", "SOURCE", "LINES", "ASSOCS", "SKIPPED", "ERRORS", "WARNINGS", "STARTED"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			r.Format,
			r.FormatVersion,
			truncate(r.Source, 40),
			strconv.Itoa(r.LineCount),
			strconv.Itoa(r.AssociationCount),
			strconv.Itoa(r.SkippedLineCount),
			strconv.Itoa(r.ErrorCount),
			strconv.Itoa(r.WarningCount),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render runs")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d run(s)\n", len(runs))
	return nil
}

func runReportShow(cmd *cobra.Command, runID, format string) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	msgs, err := store.Messages(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if format != "" {
		return writeStructured(cmd.OutOrStdout(), format, msgs)
	}
	if len(msgs) == 0 {
		printInfo(cmd.OutOrStdout(), "No messages for run %s", runID)
		return nil
	}

	data := pterm.TableData{{"LEVEL", "TYPE", "OBJ", "MESSAGE"}}
	for _, m := range msgs {
		data = append(data, []string{string(m.Level), string(m.Type), m.Subject, truncate(m.Message, 60)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render messages")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
