// Package loader builds a Dataset from an uploaded archive or an
// extracted export directory.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/archive"
	"github.com/penwyp/go-chatlens/internal/data/flatten"
	"github.com/penwyp/go-chatlens/internal/data/parser"
	"github.com/penwyp/go-chatlens/internal/data/scanner"
	"github.com/penwyp/go-chatlens/internal/util"
)

// Options configures a Loader.
type Options struct {
	Folder   string
	Location *time.Location
}

// Loader turns export files into a flat, file-sorted table.
type Loader struct {
	folder   string
	location *time.Location
	parser   *parser.Parser
	now      func() time.Time
}

// New creates a Loader. Zero options read the default folder in the
// configured display timezone.
func New(opts Options) *Loader {
	if opts.Folder == "" {
		opts.Folder = archive.DefaultFolder
	}
	if opts.Location == nil {
		opts.Location = util.GetTimeProvider().Location()
	}
	return &Loader{
		folder:   opts.Folder,
		location: opts.Location,
		parser:   parser.NewParser(),
		now:      func() time.Time { return util.GetTimeProvider().Now() },
	}
}

// Folder returns the export folder the loader reads.
func (l *Loader) Folder() string {
	return l.folder
}

// LoadArchive builds a dataset from zip bytes. source names the upload in logs.
func (l *Loader) LoadArchive(ctx context.Context, data []byte, source string) (*model.Dataset, error) {
	arc, err := archive.Open(data, l.folder)
	if err != nil {
		return nil, err
	}
	return l.fromArchive(ctx, arc, source)
}

// LoadArchiveFile builds a dataset from a zip file on disk.
func (l *Loader) LoadArchiveFile(ctx context.Context, path string) (*model.Dataset, error) {
	arc, err := archive.OpenFile(path, l.folder)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	return l.fromArchive(ctx, arc, filepath.Base(path))
}

func (l *Loader) fromArchive(ctx context.Context, arc *archive.Archive, source string) (*model.Dataset, error) {
	ds := &model.Dataset{
		Source:   source,
		Checksum: arc.Checksum,
	}

	for _, f := range arc.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgs, err := l.parser.ParseBytes(f.Path, f.Data)
		if err != nil {
			return nil, err
		}
		l.appendFile(ds, f.Name, msgs)
	}

	return l.finish(ds), nil
}

// LoadDir builds a dataset from an already extracted export directory.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*model.Dataset, error) {
	files, err := scanner.NewFileScanner(dir, l.folder).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", archive.ErrNoExportFiles, dir)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := &model.Dataset{Source: dir}
	for _, result := range l.parser.ParseFiles(files) {
		if result.Error != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", result.File, result.Error)
		}
		l.appendFile(ds, result.File, result.Messages)
	}
	return l.finish(ds), nil
}

func (l *Loader) appendFile(ds *model.Dataset, name string, msgs []model.RawMessage) {
	fileName := flatten.FileNameFromPath(name)
	records, stats := flatten.Flatten(fileName, msgs, l.location)
	ds.Records = append(ds.Records, records...)
	ds.Stats.Add(stats)
	util.LogDebugf("Flattened %s: %d of %d messages kept", fileName, stats.Records, stats.Messages)
}

func (l *Loader) finish(ds *model.Dataset) *model.Dataset {
	sort.SliceStable(ds.Records, func(i, j int) bool {
		return ds.Records[i].FileName < ds.Records[j].FileName
	})
	ds.LoadedAt = l.now()
	util.LogInfof("Loaded %s: %d records from %d files (%d empty, %d bad timestamps)",
		ds.Source, ds.Stats.Records, ds.Stats.Files, ds.Stats.EmptyText, ds.Stats.InvalidTimestamps)
	return ds
}
