package archive

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chatlens/internal/testing/fixtures"
)

func TestOpenSampleArchive(t *testing.T) {
	data, err := fixtures.SampleArchive(DefaultFolder).Bytes()
	require.NoError(t, err)

	arc, err := Open(data, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultFolder, arc.Folder)
	assert.Equal(t, int64(len(data)), arc.Size)
	assert.Len(t, arc.Checksum, 16)
	require.Len(t, arc.Files, 2, "README.txt and root users.json are ignored")
	assert.Equal(t, "2024-01-01.json", arc.Files[0].Name)
	assert.Equal(t, "2024-01-02.json", arc.Files[1].Name)
	assert.Equal(t, "bciproject/2024-01-01.json", arc.Files[0].Path)
	assert.NotEmpty(t, arc.Files[0].Data)
}

func TestOpenNestedFolder(t *testing.T) {
	data, err := fixtures.NewArchiveBuilder("export/bciproject").
		AddExport("2024-02-01.json", []fixtures.ExportEntry{{Text: "hi", TS: "1"}}).
		Bytes()
	require.NoError(t, err)

	arc, err := Open(data, "bciproject")
	require.NoError(t, err)
	require.Len(t, arc.Files, 1)
	assert.Equal(t, "2024-02-01.json", arc.Files[0].Name)
}

func TestOpenCustomFolder(t *testing.T) {
	data, err := fixtures.SampleArchive("general").Bytes()
	require.NoError(t, err)

	arc, err := Open(data, "general/")
	require.NoError(t, err)
	assert.Equal(t, "general", arc.Folder)
	assert.Len(t, arc.Files, 2)
}

func TestOpenIgnoresSubdirectories(t *testing.T) {
	data, err := fixtures.NewArchiveBuilder("bciproject").
		AddExport("day.json", []fixtures.ExportEntry{{Text: "top"}}).
		AddRaw("bciproject/nested/inner.json", `[{"text":"deep"}]`).
		Bytes()
	require.NoError(t, err)

	arc, err := Open(data, "bciproject")
	require.NoError(t, err)
	require.Len(t, arc.Files, 1)
	assert.Equal(t, "day.json", arc.Files[0].Name)
}

func TestOpenMissingFolder(t *testing.T) {
	data, err := fixtures.SampleArchive("other").Bytes()
	require.NoError(t, err)

	_, err = Open(data, "bciproject")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFolderNotFound))
}

func TestOpenFolderWithoutJSON(t *testing.T) {
	data, err := fixtures.NewArchiveBuilder("bciproject").
		AddRaw("bciproject/notes.txt", "nothing here").
		Bytes()
	require.NoError(t, err)

	_, err = Open(data, "bciproject")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoExportFiles))
}

func TestOpenRejectsTraversal(t *testing.T) {
	data, err := fixtures.NewArchiveBuilder("bciproject").
		AddExport("ok.json", []fixtures.ExportEntry{{Text: "ok"}}).
		AddRaw("../bciproject/evil.json", `[]`).
		AddRaw("__MACOSX/bciproject/._ok.json", "junk").
		Bytes()
	require.NoError(t, err)

	arc, err := Open(data, "bciproject")
	require.NoError(t, err)
	require.Len(t, arc.Files, 1)
	assert.Equal(t, "ok.json", arc.Files[0].Name)
}

func TestOpenNotAZip(t *testing.T) {
	_, err := Open([]byte("plain text"), "bciproject")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	zipPath, err := fixtures.SampleArchive(DefaultFolder).WriteZip(dir, "export.zip")
	require.NoError(t, err)

	arc, err := OpenFile(zipPath, DefaultFolder)
	require.NoError(t, err)
	assert.Len(t, arc.Files, 2)

	_, err = OpenFile(dir+"/missing.zip", DefaultFolder)
	assert.Error(t, err)
}

func TestChecksumStable(t *testing.T) {
	assert.Equal(t, Checksum([]byte("abc")), Checksum([]byte("abc")))
	assert.NotEqual(t, Checksum([]byte("abc")), Checksum([]byte("abd")))
}

func TestOpenExtractionLimit(t *testing.T) {
	previous := MaxExtractedBytes
	MaxExtractedBytes = 1024
	defer func() { MaxExtractedBytes = previous }()

	padding := strings.Repeat(" ", 600)
	data, err := fixtures.NewArchiveBuilder("bciproject").
		AddRaw("bciproject/2024-01-01.json", "[]"+padding).
		AddRaw("bciproject/2024-01-02.json", "[]"+padding).
		Bytes()
	require.NoError(t, err)
	assert.Less(t, len(data), 1024, "entries compress well below the limit")

	_, err = Open(data, "bciproject")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))

	// A single entry within the limit still loads
	data, err = fixtures.NewArchiveBuilder("bciproject").
		AddRaw("bciproject/2024-01-01.json", "[]"+padding).
		Bytes()
	require.NoError(t, err)
	arc, err := Open(data, "bciproject")
	require.NoError(t, err)
	require.Len(t, arc.Files, 1)
	assert.Len(t, arc.Files[0].Data, 602)
}
