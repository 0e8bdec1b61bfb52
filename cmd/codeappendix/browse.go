package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gubarz/codeappendix/internal/parser"
	"github.com/gubarz/codeappendix/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List the code blocks that would go into the appendix",
	Long: `Prints a table of the code blocks collected from a markdown file, or
from every markdown file under a directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var previewCmd = &cobra.Command{
	Use:   "preview [path]",
	Short: "Browse collected code blocks interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(previewCmd)
}

// loadIndex parses the path argument, defaulting to the current directory
func loadIndex(args []string) (*parser.Index, string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("error resolving path: %w", err)
	}

	index, err := parser.NewParser(logger).Parse(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("parse error: %w", err)
	}
	if index.Count() == 0 {
		return nil, "", fmt.Errorf("no code blocks found in %s", absPath)
	}
	return index, absPath, nil
}

func runList(cmd *cobra.Command, args []string) error {
	index, _, err := loadIndex(args)
	if err != nil {
		return err
	}

	ui.RefreshStyles()
	for _, f := range index.Files {
		if len(f.Entries) == 0 {
			continue
		}
		if len(index.Files) > 1 {
			fmt.Fprintln(os.Stdout, f.Path)
		}
		fmt.Fprintln(os.Stdout, ui.Table(f.Entries))
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	index, absPath, err := loadIndex(args)
	if err != nil {
		return err
	}

	title := filepath.Base(absPath)
	if len(index.Files) == 1 {
		title = index.Files[0].Title
	}
	return ui.Run(title, index.Entries())
}
