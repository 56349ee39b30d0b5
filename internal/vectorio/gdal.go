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

package vectorio

import (
	"fmt"
	"sort"

	"github.com/airbusgeo/godal"
)

// Dataset wraps a godal.Dataset opened or created for vector access.
type Dataset struct {
	ds *godal.Dataset
}

// OpenSource opens path read-only, limited to vector drivers.
func OpenSource(path string) (*Dataset, error) {
	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	return &Dataset{ds: ds}, nil
}

// CreateDestination creates path with the named driver.
func CreateDestination(path, driver string) (*Dataset, error) {
	ds, err := godal.CreateVector(godal.DriverName(driver), path)
	if err != nil {
		return nil, fmt.Errorf("create destination %s (driver %s): %w", path, driver, err)
	}
	return &Dataset{ds: ds}, nil
}

// Close releases the underlying dataset handle.
func (d *Dataset) Close() error {
	return d.ds.Close()
}

// LayerNames returns the names of every layer in the dataset.
func (d *Dataset) LayerNames() []string {
	layers := d.ds.Layers()
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name()
	}
	return names
}

// Layer resolves name to a SourceLayer. If name is empty and the dataset
// has exactly one layer, that layer is used. idField names the attribute
// column gdalFeature.FID reads feature identity from (see gdalFeature.FID
// for why: the retrieved godal has no FID getter).
func (d *Dataset) Layer(name, idField string) (*gdalLayer, error) {
	layers := d.ds.Layers()
	if name == "" {
		if len(layers) != 1 {
			return nil, fmt.Errorf("ambiguous layer: dataset has %d layers, name required", len(layers))
		}
		return newGdalLayer(d.ds, layers[0], d.driverName(), idField), nil
	}
	for _, l := range layers {
		if l.Name() == name {
			return newGdalLayer(d.ds, l, d.driverName(), idField), nil
		}
	}
	return nil, fmt.Errorf("layer %q not found", name)
}

func (d *Dataset) driverName() string {
	return d.ds.Driver().ShortName()
}

// gdalLayer is the godal-backed SourceLayer implementation (Dataset is the
// DestDataset one).
//
// godal's Layer has no field-enumeration method and no attribute-filter
// method (vector.go exposes ResetReading/NextFeature and little else), so
// both are adapted rather than called directly: field definitions are
// learned from the first feature's own Fields() map as it is read, and
// attribute filtering runs as an OGR SQL query through Dataset.ExecuteSQL
// (ds, rs below) instead of a per-layer filter call.
type gdalLayer struct {
	ds         *godal.Dataset
	l          godal.Layer
	driverName string
	idField    string

	rs          *godal.ResultSet
	emptyFilter bool

	fields    []FieldDefinition
	fieldsSet bool
}

func newGdalLayer(ds *godal.Dataset, l godal.Layer, driver, idField string) *gdalLayer {
	return &gdalLayer{ds: ds, l: l, driverName: driver, idField: idField}
}

func (g *gdalLayer) Name() string       { return g.l.Name() }
func (g *gdalLayer) DriverName() string { return g.driverName }

// FieldDefs returns whatever field definitions have been learned so far
// from reading the layer (see cacheFields). Since the field set is
// observed rather than enumerated, callers must read at least one
// feature before calling FieldDefs for the result to be non-empty; Run
// satisfies this by calling loader.Load (which fully iterates src)
// before loader.PrepareDestination (which calls FieldDefs).
func (g *gdalLayer) FieldDefs() []FieldDefinition { return g.fields }

// cacheFields learns the layer's schema from a materialized feature's own
// Fields() map the first time one is read, since there is no Layer-level
// schema getter to call instead. Field order isn't recoverable from a Go
// map, so columns are cloned to the destination in sorted-name order
// rather than true source order.
func (g *gdalLayer) cacheFields(f *godal.Feature) {
	m := f.Fields()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	defs := make([]FieldDefinition, len(names))
	for i, name := range names {
		defs[i] = FieldDefinition{Name: name, Type: convertFieldType(m[name].Type())}
	}
	g.fields = defs
	g.fieldsSet = true
}

func (g *gdalLayer) SpatialRef() SpatialRef {
	return gdalSpatialRef{sr: g.l.SpatialRef()}
}

// SetAttributeFilter runs where as an OGR SQL query over the layer via
// Dataset.ExecuteSQL, since godal's Layer has no SetAttributeFilter of
// its own. An empty string clears any installed filter and reverts
// reading to the unfiltered layer.
func (g *gdalLayer) SetAttributeFilter(where string) error {
	if g.rs != nil {
		g.rs.Close()
		g.rs = nil
	}
	g.emptyFilter = false
	if where == "" {
		return nil
	}
	rs, err := g.ds.ExecuteSQL(fmt.Sprintf("SELECT * FROM %s WHERE %s", g.l.Name(), where))
	if err != nil {
		return fmt.Errorf("attribute filter %q: %w", where, err)
	}
	if rs == nil {
		g.emptyFilter = true
		return nil
	}
	g.rs = rs
	return nil
}

func (g *gdalLayer) active() godal.Layer {
	if g.rs != nil {
		return g.rs.Layer
	}
	return g.l
}

func (g *gdalLayer) ResetReading() {
	if g.emptyFilter {
		return
	}
	g.active().ResetReading()
}

func (g *gdalLayer) NextFeature() (SourceFeature, bool) {
	if g.emptyFilter {
		return nil, false
	}
	f := g.active().NextFeature()
	if f == nil {
		return nil, false
	}
	if !g.fieldsSet {
		g.cacheFields(f)
	}
	return &gdalFeature{f: f, idField: g.idField}, true
}

// CreatePolygonLayer creates name as a polygon layer on d, assigns sr
// verbatim (no reprojection) and clones fields in order.
func (d *Dataset) CreatePolygonLayer(name string, sr SpatialRef, fields []FieldDefinition) (DestLayer, error) {
	var gsr *godal.SpatialRef
	if wkt := sr.WKT(); wkt != "" {
		var err error
		gsr, err = godal.NewSpatialRefFromWKT(wkt)
		if err != nil {
			return nil, fmt.Errorf("assign destination spatial reference: %w", err)
		}
		defer gsr.Close()
	}
	opts := make([]godal.CreateLayerOption, 0, len(fields))
	for _, fd := range fields {
		opts = append(opts, godal.NewFieldDefinition(fd.Name, toGdalFieldType(fd.Type)))
	}
	l, err := d.ds.CreateLayer(name, gsr, godal.GTPolygon, opts...)
	if err != nil {
		return nil, fmt.Errorf("create destination layer %s: %w", name, err)
	}
	return &gdalDestLayer{l: l}, nil
}

type gdalDestLayer struct {
	l godal.Layer
}

func (d *gdalDestLayer) NewFeature(wkb []byte, attrs Attributes) error {
	geom, err := godal.NewGeometryFromWKB(wkb, nil)
	if err != nil {
		return fmt.Errorf("decode union geometry: %w", err)
	}
	defer geom.Close()
	feat, err := d.l.NewFeature(geom)
	if err != nil {
		return fmt.Errorf("create output feature: %w", err)
	}
	defer feat.Close()
	// feat.Fields() returns one zero-valued Field per column already
	// defined on the layer, carrying the field index SetFieldValue needs;
	// there is no public constructor for a bare Field token.
	tokens := feat.Fields()
	for name, v := range attrs {
		token, ok := tokens[name]
		if !ok {
			continue
		}
		if err := feat.SetFieldValue(token, fromFieldValue(v)); err != nil {
			return fmt.Errorf("set field %s: %w", name, err)
		}
	}
	return d.l.UpdateFeature(feat)
}

func toGdalFieldType(t FieldType) godal.FieldType {
	switch t {
	case FTInt:
		return godal.FTInt
	case FTInt64:
		return godal.FTInt64
	case FTReal:
		return godal.FTReal
	default:
		return godal.FTString
	}
}

func fromFieldValue(v FieldValue) interface{} {
	switch v.Type {
	case FTInt, FTInt64:
		return v.Int
	case FTReal:
		return v.Float
	default:
		return v.String
	}
}

type gdalSpatialRef struct {
	sr *godal.SpatialRef
}

func (s gdalSpatialRef) WKT() string {
	if s.sr == nil {
		return ""
	}
	wkt, _ := s.sr.WKT()
	return wkt
}

type gdalFeature struct {
	f       *godal.Feature
	idField string
}

// FID reads feature identity from idField instead of an OGR-native FID:
// godal's Feature has a SetFID setter (godal.go) but no FID getter, so
// there is no way to read the identifier OGR itself assigned. Instead,
// the designated idField attribute (see Dataset.Layer) stands in for it;
// a missing field, or one that isn't an integer type, yields NullFID.
func (f *gdalFeature) FID() FID {
	fld, ok := f.f.Fields()[f.idField]
	if !ok {
		return NullFID
	}
	switch fld.Type() {
	case godal.FTInt, godal.FTInt64:
		if v := fld.Int(); v >= 0 {
			return FID(v)
		}
	}
	return NullFID
}

func (f *gdalFeature) WKB() ([]byte, error) {
	geom := f.f.Geometry()
	if geom == nil || geom.Empty() {
		return nil, fmt.Errorf("feature has no geometry")
	}
	return geom.WKB()
}

func (f *gdalFeature) Attributes() Attributes {
	attrs := make(Attributes)
	for name, fld := range f.f.Fields() {
		attrs[name] = convertField(fld)
	}
	return attrs
}

func convertFieldType(t godal.FieldType) FieldType {
	switch t {
	case godal.FTInt:
		return FTInt
	case godal.FTInt64:
		return FTInt64
	case godal.FTReal:
		return FTReal
	default:
		return FTString
	}
}

func convertField(f godal.Field) FieldValue {
	switch f.Type() {
	case godal.FTInt, godal.FTInt64:
		return FieldValue{Type: FTInt64, Int: f.Int()}
	case godal.FTReal:
		return FieldValue{Type: FTReal, Float: f.Float()}
	default:
		return FieldValue{Type: FTString, String: f.String()}
	}
}

var (
	_ SourceLayer   = (*gdalLayer)(nil)
	_ DestDataset   = (*Dataset)(nil)
	_ DestLayer     = (*gdalDestLayer)(nil)
	_ SourceFeature = (*gdalFeature)(nil)
	_ SpatialRef    = gdalSpatialRef{}
)
