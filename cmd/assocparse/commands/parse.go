package commands

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/assocparse/am"
	"github.com/teranos/assocparse/db"
	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/assoc"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/source"
	"github.com/teranos/assocparse/ixgest/types"
	"github.com/teranos/assocparse/logger"
	"github.com/teranos/assocparse/metrics"
)

// minReparseInterval bounds how often --watch re-parses a file that keeps
// changing
const minReparseInterval = 2 * time.Second

type parseOptions struct {
	format       string
	reportFormat string
	out          string
	jsonOut      bool
	persist      bool
	watch        bool
	metricsAddr  string
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <source>",
		Short: "Parse an association file and report data-quality problems",
		Long: `Parse an association file line by line.

<source> is a local path (optionally .gz), "-" for stdin, or a remote URL
(http, https, s3, gcs, git). FTP is not supported.

Valid lines are mirrored to --out exactly as read, unless a remap changed
an identifier. Lines that fail validation are left out and described in
the report, which is printed after the run.

Examples:
  assocparse parse mgi.gaf --out mgi.clean.gaf
  assocparse parse goa.gpad.gz --format gpad --report yaml
  assocparse parse phenotype.hpoa --format hpoa --json > records.jsonl
  assocparse parse mgi.gaf --watch --persist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Association format: gaf, gpad, hpoa (default from config)")
	cmd.Flags().StringVar(&opts.reportFormat, "report", "", "Report format: md, json, yaml (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", `Mirror valid lines to this file ("-" for stdout)`)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Write decoded associations to stdout as JSON lines")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Save the run to the database (also database.persist)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-parse whenever the local source file changes")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9109)")
	return cmd
}

// parseRun holds what stays fixed across watch iterations
type parseRun struct {
	input  string
	cfg    *am.Config
	opts   *parseOptions
	parser *assoc.Parser
	store  *report.SQLStore
	log    *zap.SugaredLogger
}

func runParse(cmd *cobra.Command, input string, opts *parseOptions) error {
	if opts.jsonOut && opts.out == stdoutName {
		return errors.New("--json and --out - both write to stdout")
	}
	if opts.watch && (input == source.StdinInput || !isLocalFile(input)) {
		return errors.WithHint(errors.New("--watch needs a local file"), "download the file first")
	}

	cfg, err := loadConfig(opts.format, opts.reportFormat)
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

	log := logger.ComponentLogger("parse")
	parser := assoc.NewParser(decoder, parserCfg, logger.ComponentLogger("assoc."+string(decoder.Format())))
	parser.Report().SetSampleSize(cfg.Report.SampleSize)

	reg := prometheus.NewRegistry()
	m := metrics.NewParserMetrics(metrics.DefaultNamespace)
	if err := m.Register(reg); err != nil {
		return err
	}
	parser.SetMetrics(m)
	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("Metrics server failed", logger.FieldError, err)
			}
		}()
		defer srv.Close()
		log.Infow("Serving metrics", "addr", opts.metricsAddr)
	}

	run := &parseRun{input: input, cfg: cfg, opts: opts, parser: parser, log: log}
	if opts.persist || cfg.Database.Persist {
		database, err := db.OpenWithMigrations(cfg.GetDatabasePath(), logger.ComponentLogger("db"))
		if err != nil {
			return errors.Wrap(err, "failed to open database")
		}
		defer database.Close()
		run.store = report.NewSQLStore(database)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !opts.watch {
		return run.once(ctx, cmd)
	}
	return run.watch(ctx, cmd)
}

// once parses the source a single time and prints the report
func (r *parseRun) once(ctx context.Context, cmd *cobra.Command) error {
	r.parser.ResetReport()
	started := time.Now()

	src, err := source.Resolve(ctx, r.input, source.Options{
		TempDir: r.cfg.Source.TempDir,
		Timeout: r.cfg.FetchTimeout(),
		Stdin:   cmd.InOrStdin(),
	}, logger.ComponentLogger("source"))
	if err != nil {
		return err
	}

	mirror, closeMirror, err := openMirror(cmd.OutOrStdout(), r.opts.out)
	if err != nil {
		src.Close()
		return err
	}
	assocs, err := r.parser.Parse(src, mirror)
	if cerr := closeMirror(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "failed to close %s", r.opts.out)
	}
	if err != nil {
		return err
	}
	finished := time.Now()

	if r.opts.jsonOut {
		if err := writeAssociations(cmd.OutOrStdout(), assocs); err != nil {
			return err
		}
	}

	summary := r.parser.Report().Summary()
	reportOut := cmd.OutOrStdout()
	if r.opts.jsonOut || r.opts.out == stdoutName {
		reportOut = cmd.ErrOrStderr()
	}
	if err := writeSummary(reportOut, r.cfg.Report.Format, summary); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if r.store != nil {
		saved := report.NewRun(r.input, string(r.parser.Decoder().Format()), started, finished, summary)
		if err := r.store.SaveRun(ctx, saved); err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Saved run %s", saved.ID)
	}
	return nil
}

// watch parses once, then again after every settled change until ctx ends.
// Runs are serialized on this goroutine so the parser is never shared.
func (r *parseRun) watch(ctx context.Context, cmd *cobra.Command) error {
	if err := r.once(ctx, cmd); err != nil {
		r.log.Errorw("Parse failed", logger.FieldSource, r.input, logger.FieldError, err)
	}

	w, err := source.NewWatcher(r.input, source.DefaultDebounce, logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}
	changes := make(chan struct{}, 1)
	w.Start(func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	printInfo(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)", w.Path())

	limiter := rate.NewLimiter(rate.Every(minReparseInterval), 1)
	limiter.Allow() // the initial parse used the first token
	for {
		select {
		case <-ctx.Done():
			err := w.Stop()
			w.Wait()
			return err
		case <-changes:
			if err := limiter.Wait(ctx); err != nil {
				continue // ctx ended, handled above
			}
			if err := r.once(ctx, cmd); err != nil {
				printWarning(cmd.ErrOrStderr(), "Parse failed: %v", err)
			}
		}
	}
}

func writeAssociations(w io.Writer, assocs []types.Association) error {
	enc := json.NewEncoder(w)
	for _, a := range assocs {
		if err := enc.Encode(a); err != nil {
			return errors.Wrap(err, "failed to write association")
		}
	}
	return nil
}

func isLocalFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
