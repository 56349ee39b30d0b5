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

// Package resolver ranks each victim's touching neighbors under the
// configured merge policy and records the chosen assignment.
package resolver

import (
	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/index"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// Warner receives one call per per-feature problem.
type Warner func(fid vectorio.FID, format string, args ...interface{})

// Resolve processes victims in the given (loader/source-natural) order:
// for each victim, query idx for bounding-box candidates, filter to true
// touching neighbors, compute shared-boundary length, pick one neighbor
// under policy, and append the victim to that neighbor's Assigned list.
func Resolve(idx *index.Index, victims []*graph.FeatureNode, policy graph.Policy, warn Warner) error {
	for _, v := range victims {
		if err := resolveOne(idx, v, policy, warn); err != nil {
			return err
		}
	}
	return nil
}

func resolveOne(idx *index.Index, v *graph.FeatureNode, policy graph.Policy, warn Warner) error {
	minX, minY, maxX, maxY := v.Bounds()
	hits, err := idx.Query(minX, minY, maxX, maxY)
	if err != nil {
		return err
	}

	prepared := v.Prepared()
	candidates := 0
	for _, h := range hits {
		c := h.(*graph.FeatureNode)
		if c == v {
			continue
		}
		candidates++
		if !prepared.Touches(c.Geom) {
			continue
		}
		length := v.Geom.SharedBoundaryLength(c.Geom)
		if length == 0 {
			warn(v.FID, "zero-length shared boundary with a touching neighbor (point or degenerate intersection)")
		}
		v.Neighbors = append(v.Neighbors, graph.NeighborEdge{Target: c, SharedEdge: length})
	}

	if candidates == 0 {
		warn(v.FID, "no neighbors")
		return nil
	}
	if len(v.Neighbors) == 0 {
		warn(v.FID, "no touching neighbors")
		return nil
	}

	chosen := pickNeighbor(v.Neighbors, policy)
	v.AssignedTo = chosen.Target
	chosen.Target.Assigned = append(chosen.Target.Assigned, v)
	return nil
}

// pickNeighbor applies the configured merge policy over candidates in
// candidate-enumeration order, breaking ties by first occurrence.
func pickNeighbor(candidates []graph.NeighborEdge, policy graph.Policy) graph.NeighborEdge {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch policy {
		case graph.SmallestArea:
			if c.Target.Area() < best.Target.Area() {
				best = c
			}
		case graph.LongestBoundary:
			if c.SharedEdge > best.SharedEdge {
				best = c
			}
		default: // graph.LargestArea
			if c.Target.Area() > best.Target.Area() {
				best = c
			}
		}
	}
	return best
}
