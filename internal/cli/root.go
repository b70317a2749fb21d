// Package cli provides the command-line interface for topsis.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelkehle/topsis-agency/internal/config"
	"github.com/joelkehle/topsis-agency/internal/dataset"
	"github.com/joelkehle/topsis-agency/internal/report"
	"github.com/joelkehle/topsis-agency/internal/topsis"
)

// Version is set at build time.
var Version = "0.1.0"

const usageLine = "Usage: topsis <InputDataFile> <Weights> <Impacts> <OutputResultFile>"

type options struct {
	reportPath string
	configPath string
	logLevel   string
	logFile    string
	narrate    bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "topsis <InputDataFile> <Weights> <Impacts> <OutputResultFile>",
		Short: "Rank alternatives with TOPSIS",
		Long: `Rank the rows of a CSV/TSV file by their closeness to the ideal solution.

Column 1 identifies each alternative; columns 2 onwards hold numeric criteria.
Weights and impacts are comma separated, one per criterion, e.g. "1,1,1,2" "+,+,-,+".
The output repeats the input with "Topsis Score" and "Rank" columns appended;
a .db, .sqlite or .sqlite3 output path writes a SQLite file instead.

Flags must come before the input file so impacts such as "-,+" are not read as flags.`,
		Version:       Version,
		Args:          exactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "also write a report (.md, .html or .pdf)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML config file (default $TOPSIS_CONFIG)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "WARN", "log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().BoolVar(&opts.narrate, "narrate", false, "add a plain-language summary to the report (needs ANTHROPIC_API_KEY)")
	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("expected %d arguments, got %d\n%s", n, len(args), usageLine)
		}
		return nil
	}
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, stdout, stderr io.Writer, opts options, args []string) error {
	inputPath, weights, impacts, outputPath := args[0], args[1], args[2], args[3]

	cfg, err := config.LoadCLI(opts.configPath)
	if err != nil {
		return err
	}
	logger, cleanup := config.SetupLogger(stderr, opts.logFile, config.ParseLogLevel(opts.logLevel))
	defer cleanup()

	start := time.Now()
	table, err := dataset.ReadFile(inputPath)
	if err != nil {
		return err
	}
	logger.Debug("input read", "path", inputPath, "rows", len(table.Records), "columns", table.Columns())

	res, err := topsis.Run(table, weights, impacts)
	if err != nil {
		logger.Debug("ranking failed", "kind", string(topsis.KindOf(err)), "error", err)
		return err
	}

	// The report is rendered before anything is written so a failure leaves no output.
	var reportBytes []byte
	if opts.reportPath != "" {
		summary := report.Summary{
			InputName:   filepath.Base(inputPath),
			Weights:     weights,
			Impacts:     impacts,
			GeneratedAt: time.Now(),
			Result:      res,
		}
		if opts.narrate {
			summary.Narrative = narrate(ctx, cfg, logger, summary)
		}
		reportBytes, err = renderReport(ctx, cfg, opts.reportPath, summary)
		if err != nil {
			return err
		}
	}

	if err := dataset.WriteFile(outputPath, table, res); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Result written to %s\n", outputPath)

	if reportBytes != nil {
		if err := os.WriteFile(opts.reportPath, reportBytes, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(stdout, "Report written to %s\n", opts.reportPath)
	}
	logger.Info("ranking complete", "alternatives", len(res.Scores), "criteria", len(res.Weights), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func narrate(ctx context.Context, cfg config.Config, logger *slog.Logger, s report.Summary) string {
	n, err := report.NewNarrator(cfg.AnthropicAPIKey, cfg.NarrativeModel)
	if err != nil {
		logger.Warn("narrative skipped", "error", err)
		return ""
	}
	text, err := n.Narrate(ctx, s)
	if err != nil {
		logger.Warn("narrative skipped", "error", err)
		return ""
	}
	return text
}

var newPDFRenderer = func(chromePath string) report.PDFRenderer {
	return report.NewChromiumPDFRenderer(chromePath)
}

func renderReport(ctx context.Context, cfg config.Config, path string, s report.Summary) ([]byte, error) {
	markdown := report.BuildMarkdown(s)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return []byte(markdown), nil
	case ".html", ".htm":
		doc, err := report.RenderHTML("TOPSIS Result", markdown)
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	case ".pdf":
		doc, err := report.RenderHTML("TOPSIS Result", markdown)
		if err != nil {
			return nil, err
		}
		pdf, err := newPDFRenderer(cfg.ChromePath).Render(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return pdf, nil
	default:
		return nil, fmt.Errorf("report must end in .md, .html or .pdf, got %q", path)
	}
}
