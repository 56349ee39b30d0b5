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

// Package graph defines the in-memory feature graph the Loader builds,
// the Resolver annotates, and the Collapser/Emitter consume: one node per
// source feature, carrying cached geometry, a lazily-prepared accelerator
// for victims, and the neighbor/assignment edges that drive the merge.
package graph

import (
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// Kind distinguishes a feature that will be kept as a survivor from one
// selected for elimination.
type Kind int

const (
	Keep Kind = iota
	Victim
)

// Policy selects which touching neighbor absorbs a given victim.
type Policy int

const (
	// LargestArea picks the touching neighbor with the greatest area,
	// ties broken by candidate iteration order.
	LargestArea Policy = iota
	// SmallestArea picks the touching neighbor with the least area, same
	// tie-break.
	SmallestArea
	// LongestBoundary picks the touching neighbor with the greatest
	// shared-boundary length, same tie-break.
	LongestBoundary
)

// ParsePolicy maps an upper-case policy name (exact match) to a Policy, as
// used by the CLI's -policy flag.
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "LARGEST_AREA":
		return LargestArea, true
	case "SMALLEST_AREA":
		return SmallestArea, true
	case "LONGEST_BOUNDARY":
		return LongestBoundary, true
	default:
		return 0, false
	}
}

func (p Policy) String() string {
	switch p {
	case LargestArea:
		return "LARGEST_AREA"
	case SmallestArea:
		return "SMALLEST_AREA"
	case LongestBoundary:
		return "LONGEST_BOUNDARY"
	default:
		return "UNKNOWN"
	}
}

// NeighborEdge records one touching candidate found for a victim, along
// with the shared-boundary length the LONGEST_BOUNDARY policy needs.
type NeighborEdge struct {
	Target     *FeatureNode
	SharedEdge float64
}

// FeatureNode is one source feature's working state for the duration of
// a run. Geometry is materialized eagerly by the Loader, which also builds
// Prepared for victims as it loads them; area is computed on the first
// Area call and cached.
type FeatureNode struct {
	FID  vectorio.FID
	Kind Kind

	Attrs vectorio.Attributes

	Geom *topology.Geom
	area *float64

	prepared *topology.Prepared

	// Neighbors holds every touching candidate found for a victim node,
	// in the order the spatial index returned them.
	Neighbors []NeighborEdge

	// AssignedTo is the neighbor this victim resolved to merge into. Nil
	// until the Resolver assigns it; together with the reverse Assigned
	// lists, this is the functional graph the Collapser walks.
	AssignedTo *FeatureNode

	// Assigned lists every victim the Resolver assigned directly to this
	// node; the Collapser walks these lists transitively.
	Assigned []*FeatureNode
}

// New constructs a node from a parsed geometry and its source attributes.
func New(fid vectorio.FID, kind Kind, geom *topology.Geom, attrs vectorio.Attributes) *FeatureNode {
	return &FeatureNode{FID: fid, Kind: kind, Geom: geom, Attrs: attrs}
}

// Area returns the node's geometry area, computing and caching it on
// first use.
func (n *FeatureNode) Area() float64 {
	if n.area == nil {
		a := n.Geom.Area()
		n.area = &a
	}
	return *n.area
}

// Prepared returns the node's prepared-geometry accelerator, building it
// on first use. Only victims are expected to need this.
func (n *FeatureNode) Prepared() *topology.Prepared {
	if n.prepared == nil {
		n.prepared = n.Geom.Prepare()
	}
	return n.prepared
}

// Bounds returns the node's geometry envelope, for spatial index
// insertion and querying.
func (n *FeatureNode) Bounds() (minX, minY, maxX, maxY float64) {
	return n.Geom.Bounds()
}
