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

// Package vectoriotest is a deterministic in-memory implementation of the
// vectorio interfaces, used to exercise the eliminate core end-to-end
// without linking against GDAL. It supports only the subset of WHERE
// clauses the test scenarios need (a single "field op value" comparison)
// rather than a general expression evaluator.
package vectoriotest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// RectWKB encodes a single-ring polygon as little-endian well-known binary,
// closing the ring automatically if the caller omitted the repeated first
// point. Shared by every package's tests that need a polygon fixture
// without linking a real geometry engine.
func RectWKB(points [][2]float64) []byte {
	ring := points
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(append([][2]float64{}, ring...), ring[0])
	}

	var buf bytes.Buffer
	buf.WriteByte(1) // little-endian byte order
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // one ring
	binary.Write(&buf, binary.LittleEndian, uint32(len(ring)))
	for _, p := range ring {
		binary.Write(&buf, binary.LittleEndian, p[0])
		binary.Write(&buf, binary.LittleEndian, p[1])
	}
	return buf.Bytes()
}

// Record is one fixture feature: an FID, a WKB-encoded polygon, and its
// attribute tuple.
type Record struct {
	FID   vectorio.FID
	WKB   []byte
	Attrs vectorio.Attributes
}

// Layer is an in-memory SourceLayer/DestDataset/DestLayer fixture.
type Layer struct {
	name       string
	driverName string
	sr         wkt
	fields     []vectorio.FieldDefinition
	records    []Record

	filtered []Record
	cursor   int

	// Written collects every feature passed to NewFeature, in call order.
	Written []Record
}

type wkt string

func (w wkt) WKT() string { return string(w) }

// NewLayer builds a fixture layer. driverName controls the OGR_GEOM_AREA
// rewrite decision in the selector (use "GPKG" or "SQLite" to exercise
// the SQL-dialect path, anything else to exercise the passthrough path).
func NewLayer(name, driverName string, fields []vectorio.FieldDefinition, records []Record) *Layer {
	return &Layer{
		name:       name,
		driverName: driverName,
		sr:         wkt("LOCAL_CS[\"fixture\"]"),
		fields:     fields,
		records:    records,
		filtered:   records,
	}
}

func (l *Layer) Name() string       { return l.name }
func (l *Layer) DriverName() string { return l.driverName }

func (l *Layer) FieldDefs() []vectorio.FieldDefinition { return l.fields }

func (l *Layer) SpatialRef() vectorio.SpatialRef { return l.sr }

// SetAttributeFilter supports expressions of the form
// "<field> <op> <number>" with op one of <, <=, >, >=, =, and the empty
// string (clear filter) -- enough to exercise the -min sugar and
// an ordinary predicate-based victim selection.
func (l *Layer) SetAttributeFilter(where string) error {
	if where == "" {
		l.filtered = l.records
		l.cursor = 0
		return nil
	}
	fieldName, op, threshold, err := parseSimplePredicate(where)
	if err != nil {
		return err
	}
	filtered := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		var val float64
		if fieldName == "OGR_GEOM_AREA" {
			val = ringArea(r.WKB)
		} else {
			v, ok := r.Attrs[fieldName]
			if !ok {
				continue
			}
			val = v.Float
			if v.Type == vectorio.FTInt || v.Type == vectorio.FTInt64 {
				val = float64(v.Int)
			}
		}
		match := false
		switch op {
		case "<":
			match = val < threshold
		case "<=":
			match = val <= threshold
		case ">":
			match = val > threshold
		case ">=":
			match = val >= threshold
		case "=":
			match = val == threshold
		}
		if match {
			filtered = append(filtered, r)
		}
	}
	l.filtered = filtered
	l.cursor = 0
	return nil
}

func parseSimplePredicate(where string) (field, op string, threshold float64, err error) {
	for _, candidate := range []string{"<=", ">=", "<", ">", "="} {
		if idx := strings.Index(where, candidate); idx >= 0 {
			field = strings.TrimSpace(where[:idx])
			op = candidate
			rest := strings.TrimSpace(where[idx+len(candidate):])
			threshold, err = strconv.ParseFloat(rest, 64)
			if err != nil {
				return "", "", 0, fmt.Errorf("invalid predicate %q: %w", where, err)
			}
			return field, op, threshold, nil
		}
	}
	return "", "", 0, fmt.Errorf("unsupported predicate %q", where)
}

func (l *Layer) ResetReading() { l.cursor = 0 }

func (l *Layer) NextFeature() (vectorio.SourceFeature, bool) {
	if l.cursor >= len(l.filtered) {
		return nil, false
	}
	r := l.filtered[l.cursor]
	l.cursor++
	return &fakeFeature{r}, true
}

// CreatePolygonLayer implements vectorio.DestDataset: it returns a
// DestLayer that records every written feature in this Layer's Written.
func (l *Layer) CreatePolygonLayer(name string, sr vectorio.SpatialRef, fields []vectorio.FieldDefinition) (vectorio.DestLayer, error) {
	return &destLayer{parent: l}, nil
}

type destLayer struct {
	parent *Layer
}

func (d *destLayer) NewFeature(wkb []byte, attrs vectorio.Attributes) error {
	d.parent.Written = append(d.parent.Written, Record{WKB: wkb, Attrs: attrs})
	return nil
}

type fakeFeature struct {
	r Record
}

func (f *fakeFeature) FID() vectorio.FID { return f.r.FID }

func (f *fakeFeature) WKB() ([]byte, error) {
	if len(f.r.WKB) == 0 {
		return nil, fmt.Errorf("feature %d has no geometry", f.r.FID)
	}
	return f.r.WKB, nil
}

func (f *fakeFeature) Attributes() vectorio.Attributes { return f.r.Attrs }

// ringArea computes a single-ring little-endian WKB polygon's area via the
// shoelace formula, giving the fixture layer an OGR_GEOM_AREA to filter on
// without linking a real geometry engine.
func ringArea(wkb []byte) float64 {
	if len(wkb) < 9 {
		return 0
	}
	bo := binary.ByteOrder(binary.LittleEndian)
	if wkb[0] == 0 {
		bo = binary.BigEndian
	}
	numRings := bo.Uint32(wkb[5:9])
	if numRings == 0 {
		return 0
	}
	numPoints := bo.Uint32(wkb[9:13])
	offset := 13
	points := make([][2]float64, numPoints)
	for i := 0; i < int(numPoints); i++ {
		x := math.Float64frombits(bo.Uint64(wkb[offset:]))
		y := math.Float64frombits(bo.Uint64(wkb[offset+8:]))
		points[i] = [2]float64{x, y}
		offset += 16
	}
	var sum float64
	for i := 0; i < len(points)-1; i++ {
		sum += points[i][0]*points[i+1][1] - points[i+1][0]*points[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

var (
	_ vectorio.SourceLayer   = (*Layer)(nil)
	_ vectorio.DestDataset   = (*Layer)(nil)
	_ vectorio.DestLayer     = (*destLayer)(nil)
	_ vectorio.SourceFeature = (*fakeFeature)(nil)
)
