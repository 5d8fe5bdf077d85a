// Package charts builds the interactive dashboard charts with go-echarts.
package charts

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

// Chart titles
const (
	TitleRecordsPerFile = "Number of BCI Project Records per File"
	TitleHeatmap        = "Heatmap of Mentions by File and Display Name"
	TitleBotDayHour     = "Count of Bot Messages by Day of Week and Hour of the Day"
	TitleHourly         = "Hourly Activity"
	TitleUsers          = "User Activity"
)

const (
	chartWidth  = "900px"
	chartHeight = "480px"
)

var heatmapColors = []string{"#f7fbff", "#6baed6", "#08306b"}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     chartWidth,
		Height:    chartHeight,
	})
}

func newBar(title, xName, yName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return bar
}

// RecordsPerFile charts the number of records in every export file.
func RecordsPerFile(counts []model.FileCount) *charts.Bar {
	bar := newBar(TitleRecordsPerFile, "File Name", "Number of Records")

	x := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	for _, fc := range counts {
		x = append(x, fc.FileName)
		data = append(data, opts.BarData{Value: fc.RecordCount})
	}
	bar.SetXAxis(x).AddSeries("Number of Records", data)
	return bar
}

// Heatmap charts record counts per (file, display name).
func Heatmap(h model.Heatmap) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(TitleHeatmap),
		charts.WithTitleOpts(opts.Title{Title: TitleHeatmap}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "File Name",
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Display Name",
			Type:      "category",
			Data:      h.Users,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(h.MaxCount()),
			InRange:    &opts.VisualMapInRange{Color: heatmapColors},
		}),
	)

	fileIndex := indexOf(h.Files)
	userIndex := indexOf(h.Users)
	data := make([]opts.HeatMapData, 0, len(h.Cells))
	for _, c := range h.Cells {
		data = append(data, opts.HeatMapData{
			Value: [3]interface{}{fileIndex[c.FileName], userIndex[c.DisplayName], c.Count},
		})
	}
	hm.SetXAxis(h.Files).AddSeries("Count", data)
	return hm
}

// BotDayHour charts bot message counts per hour, one series per day of week.
func BotDayHour(counts []model.DayHourCount) *charts.Bar {
	bar := newBar(TitleBotDayHour, "Hour of the Day", "Count")
	bar.SetGlobalOptions(charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}))

	hourSet := make(map[string]struct{})
	byDay := make(map[string]map[string]int)
	var days []string
	for _, dh := range counts {
		hourSet[dh.Hour] = struct{}{}
		if _, ok := byDay[dh.DayOfWeek]; !ok {
			byDay[dh.DayOfWeek] = make(map[string]int)
			days = append(days, dh.DayOfWeek)
		}
		byDay[dh.DayOfWeek][dh.Hour] += dh.Count
	}

	hours := make([]string, 0, len(hourSet))
	for h := range hourSet {
		hours = append(hours, h)
	}
	sort.Strings(hours)

	bar.SetXAxis(hours)
	for _, day := range days {
		data := make([]opts.BarData, 0, len(hours))
		for _, h := range hours {
			data = append(data, opts.BarData{Value: byDay[day][h]})
		}
		bar.AddSeries(day, data)
	}
	return bar
}

// Hourly charts message counts per hour of the day.
func Hourly(counts []model.KeyCount) *charts.Bar {
	return keyCountBar(TitleHourly, "Hour of the Day", counts)
}

// Users charts message counts per display name.
func Users(counts []model.KeyCount) *charts.Bar {
	return keyCountBar(TitleUsers, "User", counts)
}

func keyCountBar(title, xName string, counts []model.KeyCount) *charts.Bar {
	bar := newBar(title, xName, "Number of Messages")

	x := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	for _, kc := range counts {
		x = append(x, kc.Key)
		data = append(data, opts.BarData{Value: kc.Count})
	}
	bar.SetXAxis(x).AddSeries("Number of Messages", data)
	return bar
}

// Page assembles every chart for report. File level charts are only
// included when a file is selected.
func Page(report *model.Report) *components.Page {
	page := components.NewPage().
		SetPageTitle(report.Title).
		SetLayout(components.PageFlexLayout)

	page.AddCharts(
		RecordsPerFile(report.FileCounts),
		Heatmap(report.Heatmap),
	)
	if report.SelectedFile == "" {
		return page
	}

	if len(report.BotDayHour) > 0 {
		page.AddCharts(BotDayHour(report.BotDayHour))
	}
	page.AddCharts(
		Hourly(report.HourlyActivity),
		Users(report.UserActivity),
	)
	return page
}

// RenderPage writes the HTML chart page for report to w.
func RenderPage(w io.Writer, report *model.Report) error {
	if err := Page(report).Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func indexOf(values []string) map[string]int {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return index
}
