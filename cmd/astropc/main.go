package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/astropc/internal/experiment"
	"github.com/san-kum/astropc/internal/logging"
	"github.com/san-kum/astropc/internal/report"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	quiet    bool

	configFile string
	preset     string
	integrator string
	maxSteps   int
	noPause    bool
	save       bool
	useTUI     bool

	plotTable  int
	plotColumn string
	csvTable   int

	logger   *slog.Logger
	registry = experiment.NewRegistry()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "astropc",
		Short:         "numerical exercises from Astrophysics with a PC",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(logging.Config{Level: level, JSON: logJSON, Quiet: quiet, Service: "astropc"})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".astropc", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "disable logging")

	runCmd := &cobra.Command{
		Use:   "run [chapter] [values...]",
		Short: "run a chapter",
		Long: "Run a chapter. Values are taken in parameter order from the positional\n" +
			"arguments, then the config file, then the preset; the rest are asked for.",
		Args: cobra.MinimumNArgs(1),
		RunE: runChapter,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "override the chapter's integrator")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step cap (default 5000)")
	runCmd.Flags().BoolVar(&noPause, "no-pause", false, "never stop for acknowledgment")
	runCmd.Flags().BoolVar(&save, "save", false, "store the tables of the run")
	runCmd.Flags().BoolVar(&useTUI, "tui", false, "page through the output in a terminal UI")

	chaptersCmd := &cobra.Command{
		Use:   "chapters",
		Short: "list chapters and their parameters",
		RunE:  listChapters,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [chapter]",
		Short: "list available presets for a chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored table",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotTable, "table", 0, "table index")
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "column to plot (default: every column but the first)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().IntVar(&csvTable, "table", 0, "table index")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [chapter] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same chapter",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	compareCmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	compareCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step cap (default 5000)")

	rootCmd.AddCommand(runCmd, chaptersCmd, presetsCmd, runsCmd, plotCmd, exportCSVCmd, exportJSONCmd, compareCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// prompters picks how parameters and pauses are read. A terminal gets a
// form for parameters and line answers at pauses; piped input is read
// line by line for parameters and never pauses.
func prompters() (params, pauses report.Prompter) {
	if !interactive() {
		return report.NewLinePrompter(os.Stdin, os.Stderr), nil
	}
	params = report.FormPrompter{}
	if !noPause {
		pauses = report.NewLinePrompter(os.Stdin, os.Stdout)
	}
	return params, pauses
}
