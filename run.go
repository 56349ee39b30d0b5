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

// Package eliminate implements the geospatial "eliminate" operation:
// merging a selected set of victim polygons into their touching
// neighbors, discarding victim attributes, and emitting the surviving
// polygons with absorbed geometry.
package eliminate

import (
	"context"
	"fmt"

	"github.com/lnorton-eliminate/eliminate/internal/collapse"
	"github.com/lnorton-eliminate/eliminate/internal/emit"
	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/index"
	"github.com/lnorton-eliminate/eliminate/internal/loader"
	"github.com/lnorton-eliminate/eliminate/internal/resolver"
	"github.com/lnorton-eliminate/eliminate/internal/selector"
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// defaultGeomColumn is OGR's conventional geometry column name, used when
// rewriting OGR_GEOM_AREA for SQL-backed drivers (see Run).
const defaultGeomColumn = "geometry"

// Stats summarizes the outcome of one successful Run.
type Stats struct {
	SurvivorsEmitted int
	VictimsMerged    int
	VictimsDropped   int
}

// Run performs one eliminate operation: select victims, load the source
// layer, resolve each victim's absorbing neighbor, collapse merge chains,
// and emit the result to dst. ctx is accepted for API symmetry with the
// rest of the ecosystem; the core itself never suspends.
func Run(ctx context.Context, src vectorio.SourceLayer, dst vectorio.DestDataset, destLayerName string, opts ...Option) (Stats, error) {
	cfg := &config{
		policy:       graph.LargestArea,
		nodeCapacity: index.DefaultNodeCapacity,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.predicate == "" && len(cfg.fids) == 0 {
		return Stats{}, newError(ConfigError, "config", selector.ErrNoVictimsSpecified)
	}
	if cfg.predicate != "" && len(cfg.fids) > 0 {
		return Stats{}, newError(ConfigError, "config", fmt.Errorf("filter and FID list are mutually exclusive"))
	}

	diag := NewDiagnostics(cfg.logger, cfg.quiet)
	warn := func(fid vectorio.FID, format string, args ...interface{}) {
		diag.Warn("run", fid, format, args...)
	}

	tc, err := topology.NewContext()
	if err != nil {
		return Stats{}, newError(TopologyUnavailable, "topology", err)
	}

	var victimFIDs []vectorio.FID
	if cfg.predicate != "" {
		// defaultGeomColumn: godal exposes SetGeometryColumnName on Layer
		// but no matching getter, so the ST_Area() rewrite for SQL-backed
		// drivers targets OGR's own default geometry column name rather
		// than a name read back from the source layer.
		predicate := selector.RewriteGeomAreaToken(cfg.predicate, src.DriverName(), defaultGeomColumn)
		victimFIDs, err = selector.SelectByPredicate(src, predicate)
		if err != nil {
			return Stats{}, newError(SourceError, "selector", err)
		}
	} else {
		victimFIDs = selector.SelectByIDList(cfg.fids)
	}

	loaded, err := loader.Load(tc, src, victimFIDs, cfg.nodeCapacity, warn)
	if err != nil {
		return Stats{}, newError(SourceError, "loader", err)
	}

	if destLayerName == "" {
		destLayerName = src.Name()
	}
	destLayer, err := loader.PrepareDestination(dst, destLayerName, src)
	if err != nil {
		return Stats{}, newError(DestinationError, "loader", err)
	}

	if err := resolver.Resolve(loaded.Index, loaded.Victims, cfg.policy, warn); err != nil {
		return Stats{}, newError(SourceError, "resolver", err)
	}

	droppedInCycle := collapse.DroppedCycles(loaded.Victims, func() {
		diag.Warn("collapse", vectorio.NullFID, "unresolvable merge cycle dropped")
	})

	emitStats, err := emit.Emit(tc, destLayer, loaded.Keep, warn)
	if err != nil {
		return Stats{}, newError(DestinationError, "emit", err)
	}

	// Teardown order matters: the index is discarded first since its
	// entries are non-owning references into the nodes, then the nodes,
	// then the topology context.
	loaded.Index = nil
	loaded.Nodes = nil
	tc.Close()

	droppedVictims := len(droppedInCycle)
	for _, v := range loaded.Victims {
		if v.AssignedTo == nil && !droppedInCycle[v] {
			droppedVictims++
		}
	}

	return Stats{
		SurvivorsEmitted: emitStats.SurvivorsEmitted,
		VictimsMerged:    emitStats.VictimsMerged,
		VictimsDropped:   droppedVictims,
	}, nil
}
