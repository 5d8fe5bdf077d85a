package fixtures

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// ExportEntry is a single message in the exported chat format
type ExportEntry struct {
	Type        string       `json:"type,omitempty"`
	Subtype     string       `json:"subtype,omitempty"`
	UserProfile *UserProfile `json:"user_profile,omitempty"`
	Text        string       `json:"text,omitempty"`
	TS          string       `json:"ts,omitempty"`
}

// UserProfile is the embedded author profile
type UserProfile struct {
	DisplayName string `json:"display_name"`
}

// Profile is a shorthand for building an entry author
func Profile(displayName string) *UserProfile {
	return &UserProfile{DisplayName: displayName}
}

// ArchiveBuilder assembles zip archives in the export layout
type ArchiveBuilder struct {
	folder string
	files  map[string][]byte
}

// NewArchiveBuilder creates a builder whose export files live under folder
func NewArchiveBuilder(folder string) *ArchiveBuilder {
	return &ArchiveBuilder{
		folder: folder,
		files:  make(map[string][]byte),
	}
}

// AddExport adds an export file named name inside the export folder
func (b *ArchiveBuilder) AddExport(name string, entries []ExportEntry) *ArchiveBuilder {
	data, err := json.Marshal(entries)
	if err != nil {
		panic(err)
	}
	b.files[path.Join(b.folder, name)] = data
	return b
}

// AddRaw adds an arbitrary entry at archivePath
func (b *ArchiveBuilder) AddRaw(archivePath string, content string) *ArchiveBuilder {
	b.files[archivePath] = []byte(content)
	return b
}

// Bytes returns the zip archive
func (b *ArchiveBuilder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range b.names() {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(b.files[name]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip writes the archive to dir/name and returns its path
func (b *ArchiveBuilder) WriteZip(dir, name string) (string, error) {
	data, err := b.Bytes()
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", err
	}
	return target, nil
}

// WriteDir writes the archive content extracted under dir
func (b *ArchiveBuilder) WriteDir(dir string) error {
	for _, name := range b.names() {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, b.files[name], 0644); err != nil {
			return err
		}
	}
	return nil
}

func (b *ArchiveBuilder) names() []string {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleArchive builds the two-day export used across tests.
//
// 2024-01-01 (Monday, UTC): alice 10:00, bob 11:00, bot 12:00 and 13:00
// with the same text, plus one empty message.
// 2024-01-02 (Tuesday, UTC): alice 10:00, bot 11:00.
func SampleArchive(folder string) *ArchiveBuilder {
	return NewArchiveBuilder(folder).
		AddExport("2024-01-02.json", []ExportEntry{
			{Type: "message", UserProfile: Profile("alice"), Text: "hello team", TS: "1704189600.000100"},
			{Type: "message", Subtype: "bot_message", Text: "Build failed", TS: "1704193200.000200"},
		}).
		AddExport("2024-01-01.json", []ExportEntry{
			{Type: "message", UserProfile: Profile("alice"), Text: "hello team", TS: "1704103200.000100"},
			{Type: "message", UserProfile: Profile("bob"), Text: "morning", TS: "1704106800.000200"},
			{Type: "message", Subtype: "bot_message", Text: "Build passed", TS: "1704110400.000300"},
			{Type: "message", Subtype: "bot_message", Text: "Build passed", TS: "1704114000.000400"},
			{Type: "message", UserProfile: Profile("bob"), Text: "", TS: "1704114100.000500"},
		}).
		AddRaw(path.Join(folder, "README.txt"), "not an export").
		AddRaw("users.json", `[]`)
}
