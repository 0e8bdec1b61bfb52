package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gubarz/codeappendix/internal/filter"
	"github.com/gubarz/codeappendix/internal/watch"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Append a code appendix to a markdown file",
	Long: `Reads a markdown document (YAML front matter, fenced code with
attributes, ::: divs) and writes it back with the code appendix appended.

  codeappendix render notebook.qmd -o notebook.appendix.qmd --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	renderCmd.Flags().BoolP("watch", "w", false, "Render again whenever the input changes")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	output, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")

	render := func() error {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var buf bytes.Buffer
		report, err := filter.Markdown(src, &buf, to, filter.Logging{Log: logger, Level: &level})
		if err != nil {
			return err
		}

		if output == "" {
			_, err = os.Stdout.Write(buf.Bytes())
		} else {
			err = os.WriteFile(output, buf.Bytes(), 0o644)
		}
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		logger.Info("rendered", zap.String("path", path), zap.Int("entries", report.Entries))
		return nil
	}

	if err := render(); err != nil {
		return err
	}

	if watching, _ := cmd.Flags().GetBool("watch"); !watching {
		return nil
	}
	if level.Level() > zapcore.InfoLevel {
		level.SetLevel(zapcore.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch.File(ctx, path, watch.DefaultDebounce, logger, render)
}
