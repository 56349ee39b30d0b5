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

// Package vectorio mediates between the eliminate core and the vector I/O
// substrate (dataset open/create, layer/field enumeration, feature
// read/write, attribute filtering). It is the only package in this module
// that imports github.com/airbusgeo/godal; every other package works
// against the interfaces defined here so that the core can be exercised
// with vectoriotest's in-memory fake.
package vectorio

// FID is a feature identifier: a non-negative 64-bit integer stable within
// a layer. NullFID is the distinguished sentinel for "no such FID".
type FID int64

// NullFID is returned for an FID that failed to parse or does not exist.
const NullFID FID = -1

// FieldType mirrors godal's FieldType enumeration, kept distinct so that
// callers of this package never need to import godal directly.
type FieldType int

const (
	FTInt FieldType = iota
	FTInt64
	FTReal
	FTString
)

// FieldDefinition describes a single attribute column.
type FieldDefinition struct {
	Name string
	Type FieldType
}

// FieldValue is a single attribute value, tagged with its native type.
type FieldValue struct {
	Type   FieldType
	Int    int64
	Float  float64
	String string
}

// Attributes is a feature's attribute tuple, keyed by field name.
type Attributes map[string]FieldValue

// SourceLayer is the read side of the vector I/O substrate: attribute
// filtering plus natural-order feature iteration, as used by the Selector
// and the Loader.
type SourceLayer interface {
	// Name returns the layer's name.
	Name() string
	// DriverName returns the name of the dataset driver that owns this
	// layer (e.g. "GPKG", "ESRI Shapefile"), used for the OGR_GEOM_AREA
	// filter-dialect rewrite.
	DriverName() string
	// FieldDefs returns the layer's attribute field definitions. The
	// in-memory fixture returns them in source order; the godal-backed
	// layer returns them sorted by name, not in source order.
	FieldDefs() []FieldDefinition
	// SpatialRef returns an opaque handle to the layer's spatial
	// reference system, passed through verbatim to the destination.
	SpatialRef() SpatialRef
	// SetAttributeFilter installs a filter in the layer's native filter
	// dialect. An empty string clears any installed filter. Returns an
	// error if the layer rejects the expression.
	SetAttributeFilter(where string) error
	// ResetReading rewinds iteration to the first feature.
	ResetReading()
	// NextFeature returns the next feature in natural order, or ok=false
	// once the layer is exhausted.
	NextFeature() (feat SourceFeature, ok bool)
}

// SourceFeature is one record read from a SourceLayer.
type SourceFeature interface {
	FID() FID
	// WKB returns the feature's geometry in well-known-binary form, or
	// an error if the feature has no geometry.
	WKB() ([]byte, error)
	Attributes() Attributes
}

// SpatialRef is an opaque spatial-reference handle, passed verbatim from
// source to destination without reprojection.
type SpatialRef interface {
	// WKT returns the spatial reference in well-known-text form, used to
	// assign the same reference to the destination layer.
	WKT() string
}

// DestLayer is the write side of the vector I/O substrate, used by the
// Emitter's output-layer-preparation seam and by the Emitter itself.
type DestLayer interface {
	// NewFeature writes one output feature carrying the given attributes
	// and geometry (WKB-encoded), inheriting the destination layer's
	// declared schema.
	NewFeature(wkb []byte, attrs Attributes) error
}

// DestDataset creates destination layers.
type DestDataset interface {
	// CreatePolygonLayer creates name as a new layer of geometry type
	// polygon, assigns sr verbatim, and clones fields in order.
	CreatePolygonLayer(name string, sr SpatialRef, fields []FieldDefinition) (DestLayer, error)
}
