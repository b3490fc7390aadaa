package main

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// renderPlot writes a PNG of the true trajectory, the raw measurements
// and the filtered estimate.
func renderPlot(path string, result *SimResult) error {
	p := plot.New()
	p.Title.Text = "Constant-velocity target: truth vs measurements vs estimate"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	truthPts := make(plotter.XYs, 0, len(result.Steps))
	measPts := make(plotter.XYs, 0, len(result.Steps))
	estPts := make(plotter.XYs, 0, len(result.Steps))
	for _, s := range result.Steps {
		truthPts = append(truthPts, plotter.XY{X: s.Truth.X, Y: s.Truth.Y})
		measPts = append(measPts, plotter.XY{X: s.Measured.X, Y: s.Measured.Y})
		estPts = append(estPts, plotter.XY{X: s.Estimate.X, Y: s.Estimate.Y})
	}

	truthLine, err := plotter.NewLine(truthPts)
	if err != nil {
		return err
	}
	truthLine.Width = vg.Points(1)
	truthLine.Color = color.RGBA{G: 160, A: 255}

	measScatter, err := plotter.NewScatter(measPts)
	if err != nil {
		return err
	}
	measScatter.Radius = vg.Points(1)
	measScatter.Color = color.RGBA{R: 200, A: 255}

	estLine, err := plotter.NewLine(estPts)
	if err != nil {
		return err
	}
	estLine.Width = vg.Points(1.5)
	estLine.Color = color.RGBA{B: 200, A: 255}

	p.Add(truthLine, measScatter, estLine)
	p.Legend.Add("truth", truthLine)
	p.Legend.Add("measured", measScatter)
	p.Legend.Add("estimate", estLine)

	return p.Save(10*vg.Inch, 8*vg.Inch, path)
}
