package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartWidth  = 1024
	ChartHeight = 400
)

var seriesColor = drawing.Color{R: 0, G: 191, B: 127, A: 255}

// WriteChart renders the series as a PNG line chart against simulation time.
func WriteChart(w io.Writer, s *Series, title string) error {
	if s == nil || len(s.Values) < 2 {
		return fmt.Errorf("chart needs at least two values")
	}

	graph := chart.Chart{
		Title:  title,
		Width:  ChartWidth,
		Height: ChartHeight,
		XAxis: chart.XAxis{
			Name:  "t",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  fmt.Sprintf("x[%d]", s.Component),
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("x[%d]", s.Component),
				XValues: s.Times(),
				YValues: s.Values,
				Style: chart.Style{
					StrokeColor: seriesColor,
					StrokeWidth: 1.5,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// SaveChart writes the chart to a PNG file.
func SaveChart(path string, s *Series, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := WriteChart(f, s, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
