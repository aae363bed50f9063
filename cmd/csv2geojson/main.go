package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/winemap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input     string `short:"i" long:"in"     description:"Input CSV file path. Reads from stdin if empty"`
	Output    string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format    string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	LonColumn string `long:"lon"              description:"Longitude column name" default:"Longitude"`
	LatColumn string `long:"lat"              description:"Latitude column name"  default:"Latitude"`
	Delimiter string `short:"d" long:"delimiter" description:"Field delimiter" default:","`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	delim := []rune(opts.Delimiter)
	if len(delim) != 1 {
		fmt.Fprintln(os.Stderr, "Error: --delimiter must be a single character")
		os.Exit(1)
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	fc, skipped, err := processor.ConvertCSV(in, processor.CSVOptions{
		LonColumn: opts.LonColumn,
		LatColumn: opts.LatColumn,
		Comma:     delim[0],
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting CSV: %v\n", err)
		os.Exit(1)
	}

	outputData, err := encode(fc, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d locations to %s (format: %s, skipped: %d)\n",
			len(fc.Features), opts.Output, opts.Format, skipped)
	} else {
		fmt.Println(string(outputData))
	}
}

// encode marshals fc as indented JSON or as YAML.
func encode(fc *geojson.FeatureCollection, format string) ([]byte, error) {
	if format != "yaml" {
		return json.MarshalIndent(fc, "", "  ")
	}

	// round trip through JSON so geometries keep their GeoJSON shape
	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return yaml.Marshal(doc)
}
