// Package plot renders debug loss curves as PNG files.
//
// It wraps gonum.org/v1/plot with the three chart shapes the training
// helpers need: a single loss curve, several labeled series on one chart,
// and a tiled grid with one panel per series.
package plot

import (
	"fmt"
	"math"
	"os"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// xys converts a series into plot points with the index as x coordinate.
func xys(series []float64) plotter.XYs {
	pts := make(plotter.XYs, len(series))
	for i, v := range series {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

func makePlot(title, xLabel, yLabel string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// LossCurve writes a single loss-over-iteration line chart to file.
func LossCurve(losses []float64, title, file string) error {
	return Lines([][]float64{losses}, nil, title, "iteration", "loss", file)
}

// Lines draws several series on one chart and writes a PNG to file.
//
// labels may be nil; non-empty labels are added to the legend. When
// given, labels must have one entry per series.
func Lines(series [][]float64, labels []string, title, xLabel, yLabel, file string) error {
	if len(series) == 0 {
		return fmt.Errorf("plot: no series to draw")
	}
	if labels != nil && len(labels) != len(series) {
		return fmt.Errorf("plot: got %d labels for %d series", len(labels), len(series))
	}

	p := makePlot(title, xLabel, yLabel)
	for i, s := range series {
		if len(s) == 0 {
			return fmt.Errorf("plot: series %d is empty", i)
		}
		line, err := plotter.NewLine(xys(s))
		if err != nil {
			return fmt.Errorf("plot: failed to build line %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if labels != nil && labels[i] != "" {
			p.Legend.Add(labels[i], line)
		}
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("plot: failed to save %s: %w", file, err)
	}
	return nil
}

// Grid tiles one panel per series into a single PNG, one chart each, laid
// out in a near-square grid. panelTitles must have one entry per series.
func Grid(series [][]float64, panelTitles []string, xLabel, yLabel, file string) error {
	if len(series) == 0 {
		return fmt.Errorf("plot: no series to draw")
	}
	if len(panelTitles) != len(series) {
		return fmt.Errorf("plot: got %d panel titles for %d series", len(panelTitles), len(series))
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(series)))))
	rows := (len(series) + cols - 1) / cols

	plots := make([][]*gplot.Plot, rows)
	idx := 0
	for r := 0; r < rows; r++ {
		plots[r] = make([]*gplot.Plot, cols)
		for c := 0; c < cols && idx < len(series); c++ {
			if len(series[idx]) == 0 {
				return fmt.Errorf("plot: series %d is empty", idx)
			}
			p := makePlot(panelTitles[idx], xLabel, yLabel)
			line, err := plotter.NewLine(xys(series[idx]))
			if err != nil {
				return fmt.Errorf("plot: failed to build line %d: %w", idx, err)
			}
			line.Color = plotutil.Color(0)
			p.Add(line)
			plots[r][c] = p
			idx++
		}
	}

	img := vgimg.New(vg.Points(300*float64(cols)), vg.Points(250*float64(rows)))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: 2 * vg.Millimeter,
		PadY: 2 * vg.Millimeter,
	}

	canvases := gplot.Align(plots, tiles, dc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("plot: failed to create %s: %w", file, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("plot: failed to write %s: %w", file, err)
	}
	return f.Close()
}
