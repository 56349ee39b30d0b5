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

// Package loader streams the source layer once, builds one FeatureNode
// per feature, classifies each as keep or victim, and bulk-loads the
// spatial index.
package loader

import (
	"fmt"

	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/index"
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// Warner receives one call per per-feature problem; the caller decides how
// (or whether) to log it.
type Warner func(fid vectorio.FID, format string, args ...interface{})

// Result is the Loader's output: every materialized node partitioned into
// keep/victim lists, plus the spatial index built over all of them.
type Result struct {
	Nodes   []*graph.FeatureNode
	Keep    []*graph.FeatureNode
	Victims []*graph.FeatureNode
	Index   *index.Index
}

// Load iterates src exactly once in natural order, materializes a
// FeatureNode per feature (dropping features with no geometry, with a
// warning), assigns keep/victim by membership in victimFIDs, and
// bulk-loads the spatial index over every materialized node. Any FID in
// victimFIDs not seen in the source is reported via warn after
// iteration completes.
func Load(tc *topology.Context, src vectorio.SourceLayer, victimFIDs []vectorio.FID, nodeCapacity int, warn Warner) (*Result, error) {
	pending := make(map[vectorio.FID]bool, len(victimFIDs))
	for _, fid := range victimFIDs {
		if fid == vectorio.NullFID {
			continue
		}
		pending[fid] = true
	}

	var result Result
	src.ResetReading()
	for {
		feat, ok := src.NextFeature()
		if !ok {
			break
		}
		node, err := materialize(tc, feat)
		if err != nil {
			warn(feat.FID(), "dropping feature: %v", err)
			continue
		}

		if pending[node.FID] {
			node.Kind = graph.Victim
			node.Prepared()
			delete(pending, node.FID)
			result.Victims = append(result.Victims, node)
		} else {
			node.Kind = graph.Keep
			result.Keep = append(result.Keep, node)
		}
		result.Nodes = append(result.Nodes, node)
	}

	for fid := range pending {
		warn(fid, "selected but not present in source")
	}

	idx, err := buildIndex(result.Nodes, nodeCapacity)
	if err != nil {
		return nil, fmt.Errorf("build spatial index: %w", err)
	}
	result.Index = idx
	return &result, nil
}

func materialize(tc *topology.Context, feat vectorio.SourceFeature) (*graph.FeatureNode, error) {
	wkb, err := feat.WKB()
	if err != nil {
		return nil, fmt.Errorf("no geometry: %w", err)
	}
	geom, err := tc.FromWKB(wkb)
	if err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	return graph.New(feat.FID(), graph.Keep, geom, feat.Attributes()), nil
}

func buildIndex(nodes []*graph.FeatureNode, nodeCapacity int) (*index.Index, error) {
	entries := make([]index.Entry, len(nodes))
	for i, n := range nodes {
		minX, minY, maxX, maxY := n.Bounds()
		entries[i] = index.Entry{Value: n, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return index.New(entries, nodeCapacity)
}
