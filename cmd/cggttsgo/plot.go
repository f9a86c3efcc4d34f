package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotRefSys renders the REFSYS series of all tracks over time into a PNG.
func plotRefSys(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	doc, err := decodeArg(c)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, 0, len(doc.Tracks))
	for _, trk := range doc.Tracks {
		if trk.Data.RefSys == nil {
			continue
		}
		pts = append(pts, plotter.XY{
			X: float64(trk.Epoch.Unix()),
			Y: *trk.Data.RefSys * 1e9, // ns
		})
	}
	if len(pts) == 0 {
		return fmt.Errorf("no REFSYS values in %s", c.Args().First())
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s local clock - %s", doc.Station, doc.ReferenceTime)
	p.X.Label.Text = "epoch"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02\n15:04"}
	p.Y.Label.Text = "REFSYS [ns]"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	out := c.String("out")
	if out == "" {
		out = filepath.Join(cfg.PlotDir, filepath.Base(c.Args().First())+".refsys.png")
	}
	if err := p.Save(vg.Length(cfg.PlotWidth)*vg.Centimeter, vg.Length(cfg.PlotHeight)*vg.Centimeter, out); err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}
