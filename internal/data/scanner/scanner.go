package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-chatlens/internal/util"
)

// FileScanner lists export files in an extracted archive directory
type FileScanner struct {
	baseDir string
	folder  string
	suffix  string
}

// NewFileScanner creates a new FileScanner instance. When baseDir contains
// a sub directory named folder, that sub directory is scanned instead.
func NewFileScanner(baseDir, folder string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		folder:  folder,
		suffix:  ".json",
	}
}

// Root returns the directory that Scan reads
func (s *FileScanner) Root() string {
	if s.folder != "" {
		candidate := filepath.Join(s.baseDir, s.folder)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return s.baseDir
}

// Scan returns the JSON files directly inside Root, sorted by name.
// Sub directories are not descended into.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	root := s.Root()
	var files []string
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", root))

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			if path != root {
				return filepath.SkipDir
			}
			return nil
		}

		totalCount++
		if strings.HasSuffix(info.Name(), s.suffix) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d files, found %d JSON files",
		time.Since(start), totalCount, len(files)))

	return files, err
}
