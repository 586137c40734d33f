// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package plot renders debug loss curves as PNG files.
//
// This package covers the three chart shapes the training helpers need:
//
//	// Single loss curve, e.g. from OverfitBatch.
//	err := plot.LossCurve(losses, "overfit one batch", "overfit.png")
//
//	// Train and validation epoch losses on one chart.
//	err := plot.Lines(
//	    [][]float64{result.LossesTrain, result.LossesVal},
//	    []string{"train", "val"},
//	    "epoch losses", "epoch", "loss", "losses.png",
//	)
//
//	// One panel per learning-rate candidate.
//	err := plot.Grid(series, titles, "iteration", "loss", "lr_debug.png")
package plot

import (
	"github.com/born-ml/borntrain/internal/plot"
)

// LossCurve writes a single loss-over-iteration line chart to file.
func LossCurve(losses []float64, title, file string) error {
	return plot.LossCurve(losses, title, file)
}

// Lines draws several series on one chart and writes a PNG to file.
// labels may be nil; non-empty labels are added to the legend.
func Lines(series [][]float64, labels []string, title, xLabel, yLabel, file string) error {
	return plot.Lines(series, labels, title, xLabel, yLabel, file)
}

// Grid tiles one panel per series into a single PNG.
func Grid(series [][]float64, panelTitles []string, xLabel, yLabel, file string) error {
	return plot.Grid(series, panelTitles, xLabel, yLabel, file)
}
