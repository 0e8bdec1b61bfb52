package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/filter"
)

var version = "0.2.0"

var (
	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

var filterCmd = &cobra.Command{
	Use:   "filter [format]",
	Short: "Run as a pandoc JSON filter",
	Long: `Reads a pandoc JSON document on stdin and writes it back with a code
appendix appended. pandoc passes the output format as the only argument:

  pandoc report.md --filter codeappendix -o report.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

var rootCmd = &cobra.Command{
	Use:   "codeappendix [format]",
	Short: "Collect code blocks into an appendix",
	Long: `Collects the code blocks of a document, together with the output
they produced, into an appendix at the end of the document.

With no subcommand codeappendix behaves as a pandoc JSON filter.
Options are read from the document's "code-appendix" metadata,
with defaults from ~/.config/codeappendix/codeappendix.yaml.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runFilter,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(filterCmd)

	rootCmd.PersistentFlags().StringP("to", "t", "", "Output format, decides whether collapsible groups use HTML")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Read the document from a file instead of stdin")

	viper.BindPFlag("to", rootCmd.PersistentFlags().Lookup("to"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// setupLogger builds the stderr logger; stdout carries the document
func setupLogger(cmd *cobra.Command, args []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// openInput returns the --input file, or stdin
func openInput(cmd *cobra.Command) (io.ReadCloser, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("to")
	if len(args) > 0 {
		target = args[0]
	}

	in, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer in.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	report, err := filter.Pandoc(bufio.NewReader(in), out, target, filter.Logging{Log: logger, Level: &level})
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Debug("filter done", zap.Int("entries", report.Entries), zap.Bool("appended", report.Appended))
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
