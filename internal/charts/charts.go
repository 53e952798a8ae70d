package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// Colors used for the WUBRG and colorless buckets.
var manaColors = map[string]string{
	models.ColorWhite:     "#F8E7B9",
	models.ColorBlue:      "#0E68AB",
	models.ColorBlack:     "#150B00",
	models.ColorRed:       "#D3202A",
	models.ColorGreen:     "#00733E",
	models.ColorColorless: "#A39E9B",
}

var rarityColors = map[string]string{
	string(models.RarityCommon):   "#1A1718",
	string(models.RarityUncommon): "#707883",
	string(models.RarityRare):     "#A58E4A",
	string(models.RarityMythic):   "#BF4427",
	"unknown":                     "#A39E9B",
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`

	// Symbol and Icon are set for color buckets.
	Symbol string `json:"symbol,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// ManaCurvePoints converts a summary's curve into chart points.
func ManaCurvePoints(s stats.Summary) []DataPoint {
	curve := s.ManaCurve()
	points := make([]DataPoint, len(curve))
	for i, b := range curve {
		points[i] = DataPoint{Label: b.Label, Value: float64(b.Count)}
	}
	return points
}

// ColorPoints returns the color distribution in WUBRG order, skipping empty
// buckets.
func ColorPoints(s stats.Summary) []DataPoint {
	var points []DataPoint
	for _, symbol := range models.ColorSymbols {
		n := s.ColorDistribution[symbol]
		if n == 0 {
			continue
		}
		points = append(points, DataPoint{
			Label:  models.ColorName(symbol),
			Value:  float64(n),
			Color:  manaColors[symbol],
			Symbol: symbol,
			Icon:   models.ManaSymbolURL(symbol),
		})
	}
	return points
}

// RarityPoints returns the rarity distribution from common to mythic.
func RarityPoints(s stats.Summary) []DataPoint {
	var points []DataPoint
	order := make([]string, 0, len(models.Rarities)+1)
	for _, r := range models.Rarities {
		order = append(order, string(r))
	}
	order = append(order, "unknown")
	for _, r := range order {
		n := s.RarityDistribution[r]
		if n == 0 {
			continue
		}
		points = append(points, DataPoint{Label: r, Value: float64(n), Color: rarityColors[r]})
	}
	return points
}

func globalOptions(config ChartConfig) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	}
}

// NewBarChart builds a single-series bar chart.
func NewBarChart(series string, data []DataPoint, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(config)...)
	if len(config.Colors) > 0 {
		bar.SetGlobalOptions(charts.WithColorsOpts(opts.Colors{config.Colors[0]}))
	}

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(series, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)
	return bar
}

// NewPieChart builds a pie chart. Points carrying a Color keep it.
func NewPieChart(series string, data []DataPoint, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(config)...)

	items := make([]opts.PieData, len(data))
	for i, point := range data {
		items[i] = opts.PieData{Name: point.Label, Value: point.Value}
		if point.Color != "" {
			items[i].ItemStyle = &opts.ItemStyle{Color: point.Color}
		}
	}

	pie.AddSeries(series, items).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"40%", "70%"},
			}),
		)
	return pie
}

// RenderManaCurve writes an HTML mana curve bar chart.
func RenderManaCurve(w io.Writer, s stats.Summary, config ChartConfig) error {
	if config.Title == "" {
		config.Title = "Mana Curve"
	}
	return render(w, NewBarChart("Cards", ManaCurvePoints(s), config))
}

// RenderColors writes an HTML color distribution pie chart.
func RenderColors(w io.Writer, s stats.Summary, config ChartConfig) error {
	if config.Title == "" {
		config.Title = "Colors"
	}
	return render(w, NewPieChart("Colors", ColorPoints(s), config))
}

// RenderRarity writes an HTML rarity distribution pie chart.
func RenderRarity(w io.Writer, s stats.Summary, config ChartConfig) error {
	if config.Title == "" {
		config.Title = "Rarity"
	}
	return render(w, NewPieChart("Rarity", RarityPoints(s), config))
}

// RenderDashboard writes all three charts on one page.
func RenderDashboard(w io.Writer, title string, s stats.Summary, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = title

	curve := config
	curve.Title = "Mana Curve"
	colors := config
	colors.Title = "Colors"
	rarity := config
	rarity.Title = "Rarity"

	page.AddCharts(
		NewBarChart("Cards", ManaCurvePoints(s), curve),
		NewPieChart("Colors", ColorPoints(s), colors),
		NewPieChart("Rarity", RarityPoints(s), rarity),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

type renderer interface {
	Render(w io.Writer) error
}

func render(w io.Writer, c renderer) error {
	if err := c.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderDashboardFile writes the dashboard to an HTML file.
func RenderDashboardFile(outputPath, title string, s stats.Summary, config ChartConfig) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return RenderDashboard(f, title, s, config)
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	// Get absolute path
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
