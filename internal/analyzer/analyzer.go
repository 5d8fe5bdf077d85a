package analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/loader"
	"github.com/penwyp/go-chatlens/internal/presentation/formatter"
	"github.com/penwyp/go-chatlens/internal/util"
)

type Config struct {
	// Source is a zip archive or an extracted export directory
	Source       string
	Folder       string
	OutputFormat string
	Timezone     string
	Subtypes     []string
	File         string
	TopN         int
	Output       io.Writer
}

type Analyzer struct {
	config *Config
	loader *loader.Loader
}

func New(config *Config) (*Analyzer, error) {
	loc, err := util.LoadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.TopN <= 0 {
		config.TopN = model.DefaultTopN
	}

	return &Analyzer{
		config: config,
		loader: loader.New(loader.Options{Folder: config.Folder, Location: loc}),
	}, nil
}

func (a *Analyzer) Run(ctx context.Context) error {
	startTime := time.Now()
	util.LogInfo(fmt.Sprintf("Starting analysis of %s (folder %s)...", a.config.Source, a.loader.Folder()))

	// Phase 1: Load archive or directory
	loadStart := time.Now()
	ds, err := a.Load(ctx)
	if err != nil {
		return err
	}
	loadDuration := time.Since(loadStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Load duration: %s, records: %d", util.FormatDuration(loadDuration), len(ds.Records)))

	if len(ds.Records) == 0 {
		return fmt.Errorf("no messages with text found in %s", a.config.Source)
	}

	// Phase 2: Build report
	buildStart := time.Now()
	report := BuildReport(ds, a.selection())
	buildDuration := time.Since(buildStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Report duration: %s, files: %d, selected: %s",
		util.FormatDuration(buildDuration), len(report.Files), report.SelectedFile))

	// Phase 3: Format and output
	outputStart := time.Now()
	err = a.formatAndOutput(report)
	outputDuration := time.Since(outputStart)
	util.LogDebug(fmt.Sprintf("Phase 3 - Formatting and output duration: %s", util.FormatDuration(outputDuration)))

	util.LogDebug(fmt.Sprintf("Total duration: %s (load:%s report:%s output:%s)",
		util.FormatDuration(time.Since(startTime)), util.FormatDuration(loadDuration),
		util.FormatDuration(buildDuration), util.FormatDuration(outputDuration)))

	return err
}

// Load reads the configured source, dispatching on whether it is a directory.
func (a *Analyzer) Load(ctx context.Context) (*model.Dataset, error) {
	info, err := os.Stat(a.config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if info.IsDir() {
		return a.loader.LoadDir(ctx, a.config.Source)
	}
	return a.loader.LoadArchiveFile(ctx, a.config.Source)
}

func (a *Analyzer) selection() model.Selection {
	sel := model.Selection{File: a.config.File, TopN: a.config.TopN}
	if len(a.config.Subtypes) > 0 {
		sel.Subtypes = a.config.Subtypes
	}
	return sel
}

func (a *Analyzer) formatAndOutput(report *model.Report) error {
	f, err := formatter.New(a.config.OutputFormat, a.config.Output)
	if err != nil {
		return err
	}
	return f.Format(report)
}
