package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

func rec(file, subtype, user, text, dow, hour string) model.Record {
	return model.Record{
		FileName:    file,
		Subtype:     subtype,
		DisplayName: user,
		Text:        text,
		Date:        "2024-01-01",
		DayOfWeek:   dow,
		Time:        hour + ":00:00",
		Hour:        hour,
	}
}

func sampleTable() model.Table {
	return model.Table{
		rec("a", "message", "alice", "hi", "Monday", "10"),
		rec("a", "message", "bob", "hi", "Monday", "11"),
		rec("a", "bot_message", "Unknown", "deploy", "Monday", "12"),
		rec("a", "bot_message", "Unknown", "deploy", "Monday", "12"),
		rec("a", "channel_join", "carol", "joined", "Monday", "09"),
		rec("b", "bot_message", "Unknown", "deploy", "Tuesday", "08"),
		rec("b", "message", "alice", "bye", "Tuesday", "10"),
	}
}

func TestSubtypesAndFileNames(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, []string{"message", "bot_message", "channel_join"}, Subtypes(table))
	assert.Equal(t, []string{"a", "b"}, FileNames(table))
	assert.Nil(t, Subtypes(nil))
}

func TestFilterBySubtypes(t *testing.T) {
	table := sampleTable()

	assert.Len(t, FilterBySubtypes(table, nil), len(table))
	assert.Empty(t, FilterBySubtypes(table, []string{}))

	bots := FilterBySubtypes(table, []string{"bot_message"})
	require.Len(t, bots, 3)
	for _, r := range bots {
		assert.Equal(t, "bot_message", r.Subtype)
	}

	assert.Len(t, FilterBySubtypes(table, []string{"message", "channel_join"}), 4)
	assert.Len(t, table, 7, "input must not be modified")
}

func TestFilterByFile(t *testing.T) {
	table := sampleTable()
	assert.Len(t, FilterByFile(table, "a"), 5)
	assert.Len(t, FilterByFile(table, "b"), 2)
	assert.Empty(t, FilterByFile(table, "zzz"))
}

func TestCountByFile(t *testing.T) {
	table := model.Table{
		rec("b", "message", "x", "t", "Monday", "01"),
		rec("a", "message", "x", "t", "Monday", "01"),
		rec("b", "message", "x", "t", "Monday", "01"),
	}
	assert.Equal(t, []model.FileCount{
		{FileName: "a", RecordCount: 1},
		{FileName: "b", RecordCount: 2},
	}, CountByFile(table))
	assert.Empty(t, CountByFile(nil))
}

func TestHeatmap(t *testing.T) {
	hm := Heatmap(sampleTable())

	assert.Equal(t, []string{"a", "b"}, hm.Files)
	assert.Equal(t, []string{"Unknown", "alice", "bob", "carol"}, hm.Users)
	assert.Equal(t, []model.HeatmapCell{
		{FileName: "a", DisplayName: "Unknown", Count: 2},
		{FileName: "a", DisplayName: "alice", Count: 1},
		{FileName: "a", DisplayName: "bob", Count: 1},
		{FileName: "a", DisplayName: "carol", Count: 1},
		{FileName: "b", DisplayName: "Unknown", Count: 1},
		{FileName: "b", DisplayName: "alice", Count: 1},
	}, hm.Cells)
	assert.Equal(t, 2, hm.MaxCount())
	assert.Equal(t, 0, Heatmap(nil).MaxCount())
}

func TestHourlyAndUserActivity(t *testing.T) {
	fileA := FilterByFile(sampleTable(), "a")

	assert.Equal(t, []model.KeyCount{
		{Key: "09", Count: 1},
		{Key: "10", Count: 1},
		{Key: "11", Count: 1},
		{Key: "12", Count: 2},
	}, HourlyActivity(fileA))

	assert.Equal(t, []model.KeyCount{
		{Key: "Unknown", Count: 2},
		{Key: "alice", Count: 1},
		{Key: "bob", Count: 1},
		{Key: "carol", Count: 1},
	}, UserActivity(fileA))
}

func TestHourlyActivityKeepsMissingHour(t *testing.T) {
	table := model.Table{{FileName: "a", Text: "x"}, {FileName: "a", Text: "y", Hour: "05"}}
	assert.Equal(t, []model.KeyCount{{Key: "", Count: 1}, {Key: "05", Count: 1}}, HourlyActivity(table))
}

func TestCommonMessages(t *testing.T) {
	table := sampleTable()

	top := CommonMessages(table, 10)
	assert.Equal(t, []model.KeyCount{
		{Key: "deploy", Count: 3},
		{Key: "hi", Count: 2},
		{Key: "joined", Count: 1},
		{Key: "bye", Count: 1},
	}, top)

	assert.Equal(t, []model.KeyCount{{Key: "deploy", Count: 3}, {Key: "hi", Count: 2}}, CommonMessages(table, 2))
	assert.Len(t, CommonMessages(table, 0), 4)
}

func TestBotMessageTable(t *testing.T) {
	rows := BotMessageTable(sampleTable())

	// The two identical 12:00 rows on Monday collapse into one
	assert.Equal(t, []model.BotMessageRow{
		{Text: "deploy", Count: 3, Date: "2024-01-01", DayOfWeek: "Monday", Time: "12:00:00", Hour: "12"},
		{Text: "deploy", Count: 3, Date: "2024-01-01", DayOfWeek: "Tuesday", Time: "08:00:00", Hour: "08"},
	}, rows)

	assert.Nil(t, BotMessageTable(FilterBySubtypes(sampleTable(), []string{"message"})))
}

func TestDayHourCounts(t *testing.T) {
	rows := []model.BotMessageRow{
		{Text: "x", DayOfWeek: "Tuesday", Hour: "08"},
		{Text: "y", DayOfWeek: "Monday", Hour: "12"},
		{Text: "z", DayOfWeek: "Monday", Hour: "12"},
		{Text: "w", DayOfWeek: "Monday", Hour: "09"},
	}

	assert.Equal(t, []model.DayHourCount{
		{DayOfWeek: "Monday", Hour: "09", Count: 1},
		{DayOfWeek: "Monday", Hour: "12", Count: 2},
		{DayOfWeek: "Tuesday", Hour: "08", Count: 1},
	}, DayHourCounts(rows))
	assert.Empty(t, DayHourCounts(nil))
}
