// Package main provides the alignmentscorer binary: it scores a
// cross-species network alignment by GO-term overlap of aligned proteins.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"AlignmentScorer/internal/app"
	"AlignmentScorer/internal/config"
	"AlignmentScorer/internal/logging"
)

const (
	Version = "0.3.0"
	appName = "alignmentscorer"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Score a network alignment by GO-term similarity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML); defaults to $ALIGNMENT_SCORER_CONFIG")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(scoreCmd(g), watchCmd(g), runsCmd(g), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

type scoreFlags struct {
	metric              string
	workers             int
	reportPath          string
	htmlPath            string
	pairsPath           string
	metricsTextfile     string
	similarityThreshold float64
	coverageThreshold   float64
}

func (f *scoreFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.metric, "metric", "", "Similarity metric (jaccard, cosine)")
	fs.IntVar(&f.workers, "workers", 0, "Scoring goroutines for large alignments")
	fs.StringVar(&f.reportPath, "report", "", "Write the text report here instead of stdout")
	fs.StringVar(&f.htmlPath, "html", "", "Write an HTML report")
	fs.StringVar(&f.pairsPath, "pairs", "", "Write per-pair scores as CSV")
	fs.StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics in textfile format")
	fs.Float64Var(&f.similarityThreshold, "similarity-threshold", 0, "Mean similarity needed for GOOD")
	fs.Float64Var(&f.coverageThreshold, "coverage-threshold", 0, "Coverage needed for GOOD")
}

// apply copies flags the user actually set over the loaded config.
func (f *scoreFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("metric") {
		cfg.Scoring.Metric = f.metric
	}
	if fs.Changed("workers") {
		cfg.Scoring.Workers = f.workers
	}
	if fs.Changed("report") {
		cfg.Output.ReportPath = f.reportPath
	}
	if fs.Changed("html") {
		cfg.Output.HTMLPath = f.htmlPath
	}
	if fs.Changed("pairs") {
		cfg.Output.PairsPath = f.pairsPath
	}
	if fs.Changed("metrics-textfile") {
		cfg.Output.MetricsTextfile = f.metricsTextfile
	}
	if fs.Changed("similarity-threshold") {
		cfg.Quality.SimilarityThreshold = f.similarityThreshold
	}
	if fs.Changed("coverage-threshold") {
		cfg.Quality.CoverageThreshold = f.coverageThreshold
	}
}

// applyPositional maps SIF GO1 GO2 MAP1 MAP2 onto the inputs section.
func applyPositional(args []string, cfg *config.Config) {
	if len(args) != 5 {
		return
	}
	cfg.Inputs.Alignment = args[0]
	cfg.Inputs.Species1.Annotation.Paths = []string{args[1]}
	cfg.Inputs.Species2.Annotation.Paths = []string{args[2]}
	cfg.Inputs.Species1.Mapping.Path = args[3]
	cfg.Inputs.Species2.Mapping.Path = args[4]
}

func positionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 5 {
		return fmt.Errorf("expected 0 or 5 arguments (SIF GO1 GO2 MAP1 MAP2), got %d", len(args))
	}
	return nil
}

func loadConfig(g *globalFlags) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, nil
}

func scoreCmd(g *globalFlags) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score [SIF GO1 GO2 MAP1 MAP2]",
		Short: "Score the alignment once and print the quality report",
		Long: `Score every aligned protein pair by the overlap of its GO terms and
report coverage, similarity statistics and quality verdicts.

Inputs come from the config file, or from five positional arguments:
the alignment, the species 1 and 2 GO annotations, and the species 1
and 2 identifier mappings.`,
		Args: positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			applyPositional(args, &cfg)
			f.apply(cmd, &cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
			application, err := app.New(ctx, cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			_, err = application.Run(ctx)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "watch [SIF GO1 GO2 MAP1 MAP2]",
		Short: "Re-score whenever an input file changes",
		Args:  positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			applyPositional(args, &cfg)
			f.apply(cmd, &cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
			application, err := app.New(ctx, cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Watch(ctx)
		},
	}
	f.register(cmd)
	return cmd
}

func runsCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored scoring runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			runs, err := app.Runs(cmd.Context(), cfg, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tFINISHED\tMETRIC\tPAIRS\tSCORED\tCOVERAGE\tMEAN\tVERDICT")
			for _, r := range runs {
				mean := "undefined"
				if r.MeanSimilarity != nil {
					mean = fmt.Sprintf("%.4f", *r.MeanSimilarity)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f%%\t%s\t%s\n",
					r.ID, r.FinishedAt.Format("2006-01-02 15:04"), r.Metric,
					r.TotalPairs, r.ScoredPairs, r.Coverage*100, mean, r.SimilarityVerdict)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	return cmd
}
