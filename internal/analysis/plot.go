package analysis

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/dataset"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// maxDataURIChars is the hard cap on an embedded image answer. An oversized
// chart is replaced by ImageTooLargeText so the response stays bounded.
const maxDataURIChars = 100_000

// ImageTooLargeText is the literal answer substituted for an oversized
// chart. Callers key on it, so it must not be reworded.
const ImageTooLargeText = "Error: Generated image is too large."

const dataURIPrefix = "data:image/png;base64,"

// RegressionPlot fits Peak on Rank by ordinary least squares, renders a
// scatter of the points with the fitted line, and returns the PNG as a
// base64 data URI. The drawing surface is created, rendered and released
// within this call; no plotting state outlives it.
func RegressionPlot(t *dataset.Table) (Answer, error) {
	ranks, peaks := rankPeakColumns(t)
	if len(ranks) < 2 {
		return Answer{}, stderrors.NewDegenerateCorrelationError("fewer than two rows in normalized dataset")
	}
	if stat.Variance(ranks, nil) == 0 {
		return Answer{}, stderrors.NewDegenerateCorrelationError("rank column has zero variance, regression undefined")
	}

	intercept, slope := stat.LinearRegression(ranks, peaks, nil, false)

	uri, err := renderScatter(ranks, peaks, slope, intercept)
	if err != nil {
		return Answer{}, stderrors.NewPlotRenderFailedError(err)
	}

	return finishImage(uri)
}

// finishImage applies the data-URI size cap to a rendered chart.
func finishImage(uri string) (Answer, error) {
	if len(uri) > maxDataURIChars {
		return Answer{}, stderrors.NewImageTooLargeError(len(uri))
	}
	return ImageAnswer(uri), nil
}

func renderScatter(xs, ys []float64, slope, intercept float64) (string, error) {
	p := plot.New()
	p.Title.Text = "Scatterplot of Peak vs. Rank"
	p.X.Label.Text = "Rank"
	p.Y.Label.Text = "Peak"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return "", err
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 255, A: 128}
	p.Add(scatter)

	line, err := plotter.NewLine(fittedLine(xs, slope, intercept))
	if err != nil {
		return "", err
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("y=%.2fx+%.2f", slope, intercept), line)
	p.Legend.Top = true

	writer, err := p.WriterTo(5*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", err
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fittedLine spans the regression line across the observed x range.
func fittedLine(xs []float64, slope, intercept float64) plotter.XYs {
	minX, maxX := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	return plotter.XYs{
		{X: minX, Y: slope*minX + intercept},
		{X: maxX, Y: slope*maxX + intercept},
	}
}
