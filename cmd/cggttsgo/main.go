// Command-line tool for inspecting CGGTTS common-view time transfer files.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/de-bkg/gocggtts/pkg/cggtts"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:    "cggttsgo",
		Usage:   "one more CGGTTS tool",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file with tool defaults",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print a summary of a CGGTTS file",
				ArgsUsage: "<file>",
				Action:    inspect,
			},
			{
				Name:      "dump",
				Usage:     "write the decoded document as YAML to stdout",
				ArgsUsage: "<file>",
				Action:    dump,
			},
			{
				Name:      "plot",
				Usage:     "plot the REFSYS series of a CGGTTS file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output PNG file",
					},
				},
				Action: plotRefSys,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// decodeArg decodes the CGGTTS file given as the single command argument.
func decodeArg(c *cli.Context) (*cggtts.CGGTTS, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expects exactly one CGGTTS file")
	}
	return cggtts.DecodeFile(c.Args().First())
}

func inspect(c *cli.Context) error {
	doc, err := decodeArg(c)
	if err != nil {
		return err
	}

	fmt.Printf("station        : %s\n", doc.Station)
	fmt.Printf("version        : %s\n", doc.Version)
	if !doc.ReleaseDate.IsZero() {
		fmt.Printf("release date   : %s\n", doc.ReleaseDate.Format("2006-01-02"))
	}
	if doc.Receiver != "" {
		fmt.Printf("receiver       : %s\n", doc.Receiver)
	}
	fmt.Printf("channels       : %d\n", doc.NumChannels)
	fmt.Printf("reference time : %s\n", doc.ReferenceTime)
	fmt.Printf("coordinates    : %s\n", doc.APCCoordinates)
	fmt.Printf("cable delay    : %.1f ns\n", doc.Delay.CabDelay)
	fmt.Printf("ref delay      : %.1f ns\n", doc.Delay.RefDelay)
	for _, total := range doc.Delay.TotalDelays() {
		fmt.Printf("total delay %s : %.1f ns\n", total.Code, total.Value)
	}
	fmt.Printf("tracks         : %d\n", len(doc.Tracks))
	if n := len(doc.Tracks); n > 0 {
		fmt.Printf("first epoch    : %s\n", doc.Tracks[0].Epoch.Format(time.RFC3339))
		fmt.Printf("last epoch     : %s\n", doc.Tracks[n-1].Epoch.Format(time.RFC3339))
	}
	return nil
}

func dump(c *cli.Context) error {
	doc, err := decodeArg(c)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
