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

// Package topology mediates between the eliminate core and the
// geometry/topology engine: area, touches, shared-boundary length, unary
// union, and the prepared-geometry accelerator. It is the only package in
// this module that imports github.com/twpayne/go-geos; every other
// package works against the Geom/Prepared/Context types defined here.
//
// The boundary with vectorio is well-known-binary: FromWKB/WKB are the
// only conversion points, so neither package needs to know the other's
// native geometry representation.
package topology

import (
	"fmt"
	"sync"

	"github.com/twpayne/go-geos"
)

// Context owns the single GEOS handle for one run. It must be used by
// exactly one goroutine, and everything it produced (Geoms and Prepared
// geometries) is invalid once it is closed.
type Context struct {
	gc     *geos.Context
	closed sync.Once
}

// NewContext creates a topology engine context. Returns an
// ErrUnavailable-wrapping error if GEOS could not be initialized.
func NewContext() (*Context, error) {
	gc := geos.NewContext()
	if gc == nil {
		return nil, fmt.Errorf("%w: GEOS context initialization failed", ErrUnavailable)
	}
	return &Context{gc: gc}, nil
}

// Close releases the GEOS context. Safe to call more than once. Must be
// called only after every Geom and Prepared it produced has already been
// discarded.
func (c *Context) Close() {
	c.closed.Do(func() {
		c.gc = nil
	})
}

// FromWKB parses a well-known-binary polygon geometry.
func (c *Context) FromWKB(wkb []byte) (*Geom, error) {
	g, err := c.gc.NewGeomFromWKB(wkb)
	if err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	return &Geom{g: g}, nil
}

// Geom is a polygonal geometry in the topology engine's native
// representation. Once computed it is immutable for the rest of the run.
type Geom struct {
	g *geos.Geom
}

// WKB re-exports the geometry in well-known-binary form, e.g. to hand a
// union result back to vectorio for writing.
func (g *Geom) WKB() ([]byte, error) {
	wkb := g.g.ToWKB()
	if wkb == nil {
		return nil, fmt.Errorf("export geometry: empty result")
	}
	return wkb, nil
}

// Area returns the geometry's area, or 0 if the geometry is nil.
func (g *Geom) Area() float64 {
	if g == nil || g.g == nil {
		return 0
	}
	return g.g.Area()
}

// Bounds returns the geometry's envelope as minx, miny, maxx, maxy, for
// insertion into the spatial index.
func (g *Geom) Bounds() (minX, minY, maxX, maxY float64) {
	b := g.g.Bounds()
	return b.MinX, b.MinY, b.MaxX, b.MaxY
}

// Touches reports whether g and other share at least one boundary point
// and no interior points.
func (g *Geom) Touches(other *Geom) bool {
	return g.g.Touches(other.g)
}

// SharedBoundaryLength returns the length of the intersection of g and
// other. A non-linear intersection (e.g. a single point) and a failed
// computation both yield 0.
func (g *Geom) SharedBoundaryLength(other *Geom) float64 {
	inter := g.g.Intersection(other.g)
	if inter == nil {
		return 0
	}
	return inter.Length()
}

// Prepare builds a prepared-geometry accelerator for repeated predicate
// tests against g. Materialized only for victims.
func (g *Geom) Prepare() *Prepared {
	return &Prepared{p: g.g.Prepare()}
}

// Prepared is a precomputed accelerator enabling fast repeated
// spatial-predicate evaluation against one fixed geometry.
type Prepared struct {
	p *geos.PreparedGeom
}

// Touches reports whether the prepared geometry touches other.
func (p *Prepared) Touches(other *Geom) bool {
	return p.p.Touches(other.g)
}

// UnaryUnion unions geoms in a single aggregate operation, markedly
// faster than a pairwise fold in a tight loop.
func (c *Context) UnaryUnion(geoms []*Geom) (*Geom, error) {
	if len(geoms) == 0 {
		return nil, fmt.Errorf("unary union of zero geometries")
	}
	if len(geoms) == 1 {
		return geoms[0], nil
	}
	raw := make([]*geos.Geom, len(geoms))
	for i, g := range geoms {
		raw[i] = g.g
	}
	collection := c.gc.NewCollection(geos.TypeIDGeometryCollection, raw)
	union := collection.UnaryUnion()
	if union == nil {
		return nil, fmt.Errorf("unary union failed")
	}
	return &Geom{g: union}, nil
}
