// geobuild is the one-shot Location Lookup Builder: it reads a reference
// geography CSV and writes the serialized place-to-region lookup the
// dashboard loads at startup. Re-run it whenever the reference data
// changes.
//
//	geobuild [worldcities.csv [countries.json]]
package main

import (
	"log/slog"
	"os"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/geo"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/logging"
)

func main() {
	logging.InitLogger()

	input := "worldcities.csv"
	output := "countries.json"
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	f, err := os.Open(input)
	if err != nil {
		slog.Error("Failed to open reference CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	lookup, err := geo.BuildFromCSV(f)
	if err != nil {
		slog.Error("Failed to build location lookup", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := lookup.Save(output); err != nil {
		slog.Error("Failed to write location lookup", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Location lookup written",
		slog.String("output", output),
		slog.Int("places", len(lookup.Places)),
		slog.Int("regions", len(lookup.RegionName)))
}
