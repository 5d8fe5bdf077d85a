package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chatlens/internal/analyzer"
	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/archive"
	"github.com/penwyp/go-chatlens/internal/util"
)

var (
	// Logging related
	debug bool

	// Input related
	folder string

	// Output related
	outputFormat string
	timezone     string

	// Selection
	subtypes     []string
	selectedFile string
	topN         int

	rootCmd = &cobra.Command{
		Use:   "go-chatlens [flags] <archive.zip|export-dir>",
		Short: "Chat export insights from the command line",
		Long: `go-chatlens reads a zipped chat export, flattens every message into a
record table and reports counts per file, per user, per hour, the most
common messages and the bot message breakdown.

The export files are the *.json files inside the export folder
(default "bciproject"), at the archive root or one level below it.

Examples:
  go-chatlens export.zip                                # Table report, first file selected
  go-chatlens export.zip --file 2024-01-02             # Detail views for one file
  go-chatlens export.zip --subtype bot_message         # Only bot messages
  go-chatlens ./unzipped --output csv > records.csv    # Flat records from an extracted export
  go-chatlens export.zip -o json --timezone UTC        # Full report as JSON
  go-chatlens serve --port 8080                        # Browser dashboard`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
)

const (
	defaultLogFile = "~/.go-chatlens/logs/app.log"
)

func init() {
	// Input configuration
	rootCmd.PersistentFlags().StringVar(&folder, "folder", archive.DefaultFolder,
		"Export folder holding the JSON files")

	// Selection
	rootCmd.Flags().StringSliceVar(&subtypes, "subtype", nil,
		"Subtypes to include (repeatable or comma separated, default all)")
	rootCmd.Flags().StringVar(&selectedFile, "file", "",
		"File for the detail views (default first file)")
	rootCmd.Flags().IntVar(&topN, "top", model.DefaultTopN,
		"Number of common messages to list")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for message times (e.g., Asia/Shanghai, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	if err := setupLogging(logLevel("info"), debug); err != nil {
		return err
	}
	defer util.CloseLogger()
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	config := &analyzer.Config{
		Source:       expandPath(args[0]),
		Folder:       folder,
		OutputFormat: outputFormat,
		Timezone:     timezone,
		Subtypes:     subtypes,
		File:         selectedFile,
		TopN:         topN,
		Output:       cmd.OutOrStdout(),
	}

	a, err := analyzer.New(config)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func logLevel(level string) string {
	if debug {
		return "debug"
	}
	return level
}

// setupLogging writes logs to the log file, and also to the console when console is set.
func setupLogging(level string, console bool) error {
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return util.InitLogger(level, logFile, console)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
