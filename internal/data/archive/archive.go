// Package archive reads exported chat archives (zip files holding a
// folder of per-day JSON files).
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/penwyp/go-chatlens/internal/util"
)

// DefaultFolder is the channel folder the dashboard reads from.
const DefaultFolder = "bciproject"

// MaxExtractedBytes caps the decompressed size of all export files read
// from one archive.
var MaxExtractedBytes int64 = 512 << 20

var (
	// ErrFolderNotFound is returned when the archive has no entries under the folder.
	ErrFolderNotFound = errors.New("export folder not found in archive")
	// ErrNoExportFiles is returned when the folder exists but holds no JSON files.
	ErrNoExportFiles = errors.New("no JSON export files in folder")
	// ErrTooLarge is returned when the export files expand past MaxExtractedBytes.
	ErrTooLarge = errors.New("archive expands past the extraction limit")
)

// File is one JSON export file read from an archive.
type File struct {
	Name string // base name, e.g. 2024-01-02.json
	Path string // path inside the archive
	Data []byte
}

// Archive is the decoded content of an uploaded zip file.
type Archive struct {
	Folder   string
	Checksum string
	Size     int64
	Files    []File
}

// Checksum returns the hex xxhash64 of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Open reads the JSON files found directly inside folder.
// The folder may sit at the archive root or below one wrapping directory.
func Open(data []byte, folder string) (*Archive, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	folder = strings.Trim(path.Clean("/"+folder), "/")

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	arc := &Archive{
		Folder:   folder,
		Checksum: Checksum(data),
		Size:     int64(len(data)),
	}

	folderSeen := false
	remaining := MaxExtractedBytes
	for _, f := range zr.File {
		name, ok := cleanEntryName(f.Name)
		if !ok {
			util.LogDebugf("Skip unsafe archive entry: %s", f.Name)
			continue
		}

		dir, base, inFolder := locate(name, folder)
		if !inFolder {
			continue
		}
		folderSeen = true

		if f.FileInfo().IsDir() || base == "" || dir != "" {
			continue
		}
		if !strings.HasSuffix(base, ".json") {
			continue
		}

		content, err := readEntry(f, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		remaining -= int64(len(content))
		arc.Files = append(arc.Files, File{Name: base, Path: name, Data: content})
	}

	if !folderSeen {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
	}
	if len(arc.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExportFiles, folder)
	}

	sort.Slice(arc.Files, func(i, j int) bool {
		return arc.Files[i].Name < arc.Files[j].Name
	})

	util.LogDebugf("Archive %s: %d export files in %s (%s)",
		arc.Checksum, len(arc.Files), folder, util.FormatBytes(arc.Size))
	return arc, nil
}

// OpenFile reads an archive from disk.
func OpenFile(filePath, folder string) (*Archive, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return Open(data, folder)
}

// cleanEntryName normalises a zip entry name and rejects entries that
// would escape the archive root or that are tool metadata.
func cleanEntryName(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	if strings.HasPrefix(name, "__MACOSX/") {
		return "", false
	}
	return path.Clean(name), true
}

// locate reports where name sits relative to folder. dir is the path
// between the folder and the file, empty for direct children.
func locate(name, folder string) (dir, base string, ok bool) {
	parts := strings.Split(name, "/")
	for i := 0; i < len(parts) && i <= 1; i++ {
		if parts[i] != folder {
			continue
		}
		rest := parts[i+1:]
		if len(rest) == 0 {
			return "", "", true
		}
		return strings.Join(rest[:len(rest)-1], "/"), rest[len(rest)-1], true
	}
	return "", "", false
}

// readEntry decompresses f, failing once more than limit bytes come out.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("%w (%s)", ErrTooLarge, util.FormatBytes(MaxExtractedBytes))
	}
	return content, nil
}
