package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

const (
	DefaultWidth  = 1100
	DefaultHeight = 600
)

var (
	barColor  = drawing.ColorFromHex("add8e6") // lightblue
	lineColor = drawing.ColorFromHex("ffa500") // orange
)

// Size is the output image size in pixels; zero fields take the defaults.
type Size struct {
	Width  int
	Height int
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// BuildVolumeChart lays out dials per slot as bars on the left axis and the
// pickup rate as a line on the right axis.
func BuildVolumeChart(cs services.ChartSeries, size Size) chart.Chart {
	size = size.orDefault()
	n := len(cs.Slots)

	xs := make([]float64, n)
	xTicks := make([]chart.Tick, n)
	for i, label := range cs.CallTimes() {
		xs[i] = float64(i)
		xTicks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	rateTicks := make([]chart.Tick, 0, services.RateAxisMax/services.RateAxisTickStep+1)
	for v := 0; v <= services.RateAxisMax; v += services.RateAxisTickStep {
		rateTicks = append(rateTicks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}

	bars := chart.HistogramSeries{
		Name:  "Total Dials",
		YAxis: chart.YAxisPrimary,
		Style: chart.Style{
			FillColor:   barColor,
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 2,
		},
		InnerSeries: chart.ContinuousSeries{XValues: xs, YValues: cs.Totals()},
	}
	line := chart.ContinuousSeries{
		Name:    "Success Rate",
		YAxis:   chart.YAxisSecondary,
		XValues: xs,
		YValues: cs.SuccessRates(),
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2,
			DotColor:    lineColor,
			DotWidth:    3,
		},
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Total Dials and Success Rate on %s", cs.Day),
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50}},
		XAxis: chart.XAxis{
			Name:  "Call Time",
			Range: newTickedRange(-0.5, float64(n)-0.5, xTicks),
		},
		YAxis: chart.YAxis{
			Name:           "Total Count",
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(cs.CountAxisMax())},
			ValueFormatter: intFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Success Rate (%)",
			Range: newTickedRange(0, services.RateAxisMax, rateTicks),
		},
		Series: []chart.Series{bars, line},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// tickedRange is a fixed range that supplies its own tick labels. Setting
// Ticks on an axis instead makes go-chart derive the range from the ticks
// (and, for the secondary axis, from the primary axis ticks), which collapses
// a single-slot x axis and leaves the secondary axis unbounded.
type tickedRange struct {
	*chart.ContinuousRange
	ticks []chart.Tick
}

func newTickedRange(lo, hi float64, ticks []chart.Tick) *tickedRange {
	return &tickedRange{ContinuousRange: &chart.ContinuousRange{Min: lo, Max: hi}, ticks: ticks}
}

func (r *tickedRange) GetTicks(chart.Renderer, chart.Style, chart.ValueFormatter) []chart.Tick {
	return r.ticks
}

// RenderVolumeChart writes cs as a PNG. An empty series, or a render failure,
// produces a blank image of the requested size; the render error is returned
// alongside so callers can log it.
func RenderVolumeChart(w io.Writer, cs services.ChartSeries, size Size) error {
	size = size.orDefault()
	if cs.Empty() {
		return writeBlank(w, size)
	}

	ch := BuildVolumeChart(cs, size)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		if berr := writeBlank(w, size); berr != nil {
			return berr
		}
		return fmt.Errorf("render volume chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func writeBlank(w io.Writer, size Size) error {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return png.Encode(w, img)
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%d", int(math.Round(f)))
	}
	return ""
}
