package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

func sundaySeries() services.ChartSeries {
	rows := []models.CallRecord{
		{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpYes},
		{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpNo},
		{Day: models.Sunday, CallTime: "3:30 PM", PickUp: models.PickUpNo},
	}
	return services.Aggregate(rows, models.Sunday)
}

func TestBuildVolumeChartAxes(t *testing.T) {
	ch := BuildVolumeChart(sundaySeries(), Size{})

	assert.Equal(t, DefaultWidth, ch.Width)
	assert.Equal(t, "Total Dials and Success Rate on Sunday", ch.Title)

	countRange, ok := ch.YAxis.Range.(*chart.ContinuousRange)
	require.True(t, ok)
	assert.Equal(t, 0.0, countRange.Min)
	assert.Equal(t, 7.0, countRange.Max)

	rateRange, ok := ch.YAxisSecondary.Range.(*tickedRange)
	require.True(t, ok)
	assert.Equal(t, 0.0, rateRange.Min)
	assert.Equal(t, 100.0, rateRange.Max)
	rateTicks := ch.YAxisSecondary.GetTicks(nil, rateRange, chart.Style{}, nil)
	require.Len(t, rateTicks, 21)
	assert.Equal(t, 5.0, rateTicks[1].Value)

	xRange, ok := ch.XAxis.Range.(*tickedRange)
	require.True(t, ok)
	assert.Equal(t, -0.5, xRange.Min)
	assert.Equal(t, 1.5, xRange.Max)
	xTicks := ch.XAxis.GetTicks(nil, xRange, chart.Style{}, nil)
	require.Len(t, xTicks, 2)
	assert.Equal(t, "2:00 PM", xTicks[0].Label)
	assert.Equal(t, "3:30 PM", xTicks[1].Label)

	require.Len(t, ch.Series, 2)
	bars, ok := ch.Series[0].(chart.HistogramSeries)
	require.True(t, ok)
	assert.Equal(t, chart.YAxisPrimary, bars.YAxis)
	line, ok := ch.Series[1].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, chart.YAxisSecondary, line.YAxis)
	assert.Equal(t, []float64{50, 0}, line.YValues)
}

// drawnPixels counts pixels that are not pure white.
func drawnPixels(t *testing.T, buf *bytes.Buffer) int {
	t.Helper()
	img, err := png.Decode(buf)
	require.NoError(t, err)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r&g&bl != 0xffff {
				n++
			}
		}
	}
	return n
}

func TestRenderVolumeChartPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderVolumeChart(&buf, sundaySeries(), Size{Width: 640, Height: 400}))

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Positive(t, drawnPixels(t, &buf))
}

func TestRenderVolumeChartDrawsEverySeriesShape(t *testing.T) {
	cases := map[string][]models.CallRecord{
		"single slot": {
			{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpYes},
			{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpYes},
			{Day: models.Sunday, CallTime: "2:00 PM", PickUp: models.PickUpNo},
		},
		"no pickups": {
			{Day: models.Sunday, CallTime: "12:00 PM", PickUp: models.PickUpNo},
			{Day: models.Sunday, CallTime: "1:00 PM", PickUp: models.PickUpNo},
			{Day: models.Sunday, CallTime: "5:30 PM", PickUp: models.PickUpNo},
		},
		"all pickups": {
			{Day: models.Sunday, CallTime: "12:30 PM", PickUp: models.PickUpYes},
			{Day: models.Sunday, CallTime: "4:00 PM", PickUp: models.PickUpYes},
		},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderVolumeChart(&buf, services.Aggregate(rows, models.Sunday), Size{Width: 640, Height: 400}))
			assert.Positive(t, drawnPixels(t, &buf))
		})
	}
}

func TestRenderVolumeChartEmptyIsBlank(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderVolumeChart(&buf, services.Aggregate(nil, models.Sunday), Size{Width: 10, Height: 5}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestIntFormatter(t *testing.T) {
	assert.Equal(t, "3", intFormatter(2.6))
	assert.Equal(t, "", intFormatter("x"))
}
