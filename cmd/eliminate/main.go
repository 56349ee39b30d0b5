// Copyright 2021 Airbus Defence and Space
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lnorton-eliminate/eliminate"
	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

var (
	minArea  string
	where    string
	format   string
	layer    string
	dstLayer string
	policy   string
	idField  string
	quiet    bool
)

// driversByExt maps a handful of common destination extensions to their
// OGR driver short name, used when -f is omitted.
var driversByExt = map[string]string{
	".shp":     "ESRI Shapefile",
	".gpkg":    "GPKG",
	".geojson": "GeoJSON",
	".json":    "GeoJSON",
	".sqlite":  "SQLite",
	".db":      "SQLite",
	".gml":     "GML",
	".csv":     "CSV",
}

func init() {
	eliminateCommand.Flags().StringVar(&minArea, "min", "", "sugar for -where \"OGR_GEOM_AREA < A\"")
	eliminateCommand.Flags().StringVar(&where, "where", "", "victim selection predicate")
	eliminateCommand.Flags().StringVarP(&format, "f", "f", "", "destination driver name (inferred from extension if omitted)")
	eliminateCommand.Flags().StringVar(&layer, "layer", "", "source layer name (required if the dataset has multiple layers)")
	eliminateCommand.Flags().StringVar(&dstLayer, "dst-layer", "", "destination layer name (defaults to the source layer name)")
	eliminateCommand.Flags().StringVar(&policy, "policy", "LARGEST_AREA", "merge policy: LARGEST_AREA, SMALLEST_AREA, or LONGEST_BOUNDARY")
	eliminateCommand.Flags().StringVar(&idField, "id-field", "fid", "attribute field read as each feature's identifier")
	eliminateCommand.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-feature warning logs")
}

func main() {
	if err := eliminateCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var eliminateCommand = &cobra.Command{
	Use:   "eliminate [-min <min_area> | -where <filter>] [-f <format>] <src> <dst>",
	Short: "merge victim polygons into their touching neighbors",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()
		slog.SetDefault(logger)

		srcPath, dstPath := args[0], args[1]

		if (minArea == "") == (where == "") {
			return fmt.Errorf("exactly one of -min or -where must be given")
		}
		predicate := where
		if minArea != "" {
			a, err := strconv.ParseFloat(minArea, 64)
			if err != nil || a <= 0 {
				return fmt.Errorf("invalid -min value %q: must be a positive number", minArea)
			}
			predicate = fmt.Sprintf("OGR_GEOM_AREA < %s", minArea)
		}

		mergePolicy, ok := graph.ParsePolicy(policy)
		if !ok {
			return fmt.Errorf("unknown merge policy %q", policy)
		}

		driver := format
		if driver == "" {
			driver = guessDriver(dstPath)
			if driver == "" {
				return fmt.Errorf("cannot infer destination driver from %q, pass -f", dstPath)
			}
		}

		srcDS, err := vectorio.OpenSource(srcPath)
		if err != nil {
			return err
		}
		defer srcDS.Close()
		srcLayer, err := srcDS.Layer(layer, idField)
		if err != nil {
			return err
		}

		dstDS, err := vectorio.CreateDestination(dstPath, driver)
		if err != nil {
			return err
		}
		defer dstDS.Close()

		stats, err := eliminate.Run(cmd.Context(), srcLayer, dstDS, dstLayer,
			eliminate.WithFilter(predicate),
			eliminate.WithMergePolicy(mergePolicy),
			eliminate.WithLogger(logger),
			eliminate.WithQuiet(quiet),
		)
		if err != nil {
			return err
		}
		fmt.Printf("eliminate: %d survivors emitted, %d victims merged, %d victims dropped\n",
			stats.SurvivorsEmitted, stats.VictimsMerged, stats.VictimsDropped)
		return nil
	},
}

// guessDriver infers the destination driver from the path's extension.
// Returns "" for an unrecognized extension, which the caller turns into
// a request to pass -f explicitly.
func guessDriver(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return driversByExt[ext]
}
