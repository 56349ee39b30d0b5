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

// Package index provides the bounding-box spatial index the resolver
// queries for each victim's candidate neighbors. It wraps
// github.com/dhconnelly/rtreego's STR-packed R-tree; every package
// outside index works against the Index/Entry types defined here.
package index

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

const dimensions = 2

// DefaultNodeCapacity is the STR-tree branching factor used when the
// caller has no opinion.
const DefaultNodeCapacity = 10

// Entry is one item stored in the index: an opaque value plus its
// bounding box, minX, minY, maxX, maxY.
type Entry struct {
	Value      interface{}
	MinX, MinY float64
	MaxX, MaxY float64
}

type entry struct {
	Entry
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a bulk-loaded STR-packed R-tree over rectangular bounds.
type Index struct {
	tree *rtreego.Rtree
}

// New bulk-loads entries into an STR-tree with the given node capacity.
// The index is built once, after every node's geometry and bounding box
// have been materialized, and never mutated afterward.
func New(entries []Entry, nodeCapacity int) (*Index, error) {
	if nodeCapacity <= 0 {
		nodeCapacity = DefaultNodeCapacity
	}
	objs := make([]rtreego.Spatial, 0, len(entries))
	for _, e := range entries {
		rect, err := rtreego.NewRect(
			rtreego.Point{e.MinX, e.MinY},
			[]float64{e.MaxX - e.MinX, e.MaxY - e.MinY},
		)
		if err != nil {
			// A degenerate (zero-width) envelope; pad it to a minimal
			// rectangle so a point geometry can still be indexed.
			rect, err = rtreego.NewRect(
				rtreego.Point{e.MinX, e.MinY},
				[]float64{1e-9, 1e-9},
			)
			if err != nil {
				return nil, err
			}
		}
		objs = append(objs, &entry{Entry: e, rect: rect})
	}
	return &Index{tree: rtreego.NewTree(dimensions, nodeCapacity, nodeCapacity*2, objs...)}, nil
}

// Query returns every entry whose bounding box intersects the given
// rectangle (typically a victim's own envelope), including entries that
// only share an edge or corner with it.
func (idx *Index) Query(minX, minY, maxX, maxY float64) ([]interface{}, error) {
	// rtreego's intersection test is strict, so the query is widened by a
	// small relative margin to keep edge-adjacent entries.
	pad := 1e-9 * (1 + math.Max(math.Max(math.Abs(minX), math.Abs(minY)), math.Max(math.Abs(maxX), math.Abs(maxY))))
	minX, minY, maxX, maxY = minX-pad, minY-pad, maxX+pad, maxY+pad
	rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
	if err != nil {
		rect, err = rtreego.NewRect(rtreego.Point{minX, minY}, []float64{1e-9, 1e-9})
		if err != nil {
			return nil, err
		}
	}
	hits := idx.tree.SearchIntersect(rect)
	values := make([]interface{}, len(hits))
	for i, h := range hits {
		values[i] = h.(*entry).Value
	}
	return values, nil
}
