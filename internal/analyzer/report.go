package analyzer

import (
	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/aggregator"
)

// DefaultTitle heads the dashboard and the terminal report.
const DefaultTitle = "BCI Project Records Over Time"

// BuildReport derives every dashboard view from ds for the given selection.
func BuildReport(ds *model.Dataset, sel model.Selection) *model.Report {
	if sel.TopN <= 0 {
		sel.TopN = model.DefaultTopN
	}

	report := &model.Report{
		Title: DefaultTitle,
		TopN:  sel.TopN,
	}
	if ds == nil {
		return report
	}

	report.Source = ds.Source
	report.Checksum = ds.Checksum
	report.Stats = ds.Stats
	report.Subtypes = aggregator.Subtypes(ds.Records)

	selected := sel.Subtypes
	if selected == nil {
		selected = report.Subtypes
	}
	report.SelectedSubtypes = selected

	filtered := aggregator.FilterBySubtypes(ds.Records, selected)
	report.Records = filtered
	report.FileCounts = aggregator.CountByFile(filtered)
	report.Heatmap = aggregator.Heatmap(filtered)
	report.Files = aggregator.FileNames(filtered)

	report.SelectedFile = pickFile(report.Files, sel.File)
	if report.SelectedFile == "" {
		return report
	}

	fileRecords := aggregator.FilterByFile(filtered, report.SelectedFile)
	report.FileRecords = fileRecords
	report.BotMessages = aggregator.BotMessageTable(fileRecords)
	report.BotDayHour = aggregator.DayHourCounts(report.BotMessages)
	report.HourlyActivity = aggregator.HourlyActivity(fileRecords)
	report.UserActivity = aggregator.UserActivity(fileRecords)
	report.CommonMessages = aggregator.CommonMessages(fileRecords, sel.TopN)

	return report
}

// pickFile returns requested when it is one of files, else the first file.
func pickFile(files []string, requested string) string {
	for _, f := range files {
		if f == requested {
			return f
		}
	}
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
