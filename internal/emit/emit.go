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

// Package emit unions each survivor with its transitively assigned
// victims and writes the result to the destination layer.
package emit

import (
	"github.com/lnorton-eliminate/eliminate/internal/collapse"
	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// Warner receives one call per per-feature problem.
type Warner func(fid vectorio.FID, format string, args ...interface{})

// Stats summarizes one Emit invocation.
type Stats struct {
	SurvivorsEmitted int
	VictimsMerged    int
}

// Emit processes survivors in loader order: a survivor with no assigned
// victims is cloned as-is; one with assigned victims is unioned with
// their geometries via unary union and the result inherits the
// survivor's attributes.
func Emit(tc *topology.Context, dst vectorio.DestLayer, survivors []*graph.FeatureNode, warn Warner) (Stats, error) {
	var stats Stats
	for _, s := range survivors {
		victims := collapse.Closure(s)
		geom := s.Geom
		if len(victims) > 0 {
			geoms := make([]*topology.Geom, 0, len(victims)+1)
			geoms = append(geoms, s.Geom)
			for _, v := range victims {
				geoms = append(geoms, v.Geom)
			}
			union, err := tc.UnaryUnion(geoms)
			if err != nil {
				warn(s.FID, "union failed, skipping survivor: %v", err)
				continue
			}
			geom = union
			stats.VictimsMerged += len(victims)
		}

		wkb, err := geom.WKB()
		if err != nil {
			warn(s.FID, "encode output geometry failed: %v", err)
			continue
		}
		if err := dst.NewFeature(wkb, s.Attrs); err != nil {
			warn(s.FID, "write output feature failed: %v", err)
			continue
		}
		stats.SurvivorsEmitted++
	}
	return stats, nil
}
