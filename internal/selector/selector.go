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

// Package selector produces the victim feature-ID set, either from an
// attribute predicate evaluated against the source layer or from a
// caller-supplied list of ID strings.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// geomAreaToken is the symbolic area reference rewritten for SQL-backed
// drivers.
const geomAreaToken = "OGR_GEOM_AREA"

// sqlBackedDrivers lists the driver names whose native filter dialect is
// SQL and does not recognize geomAreaToken.
var sqlBackedDrivers = map[string]bool{
	"SQLite": true,
	"GPKG":   true,
}

// ErrFilterInvalid wraps a predicate rejected by the layer.
type ErrFilterInvalid struct {
	Predicate string
	Err       error
}

func (e *ErrFilterInvalid) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Predicate, e.Err)
}

func (e *ErrFilterInvalid) Unwrap() error { return e.Err }

// ErrNoVictimsSpecified is returned when both the predicate and the ID
// list are empty.
var ErrNoVictimsSpecified = fmt.Errorf("no victim predicate or FID list specified")

// RewriteGeomAreaToken substitutes geomAreaToken with ST_Area(geomCol) when
// the driver's filter dialect is SQL-backed; otherwise it returns predicate
// unchanged. The rewrite is textual but bounded to the exact token.
func RewriteGeomAreaToken(predicate, driverName, geomCol string) string {
	if !sqlBackedDrivers[driverName] {
		return predicate
	}
	return strings.ReplaceAll(predicate, geomAreaToken, fmt.Sprintf("ST_Area(%s)", geomCol))
}

// SelectByPredicate installs predicate as layer's attribute filter,
// iterates the resulting features, collects their FIDs in iteration
// order, removes the filter, and returns the list.
func SelectByPredicate(layer vectorio.SourceLayer, predicate string) ([]vectorio.FID, error) {
	if err := layer.SetAttributeFilter(predicate); err != nil {
		return nil, &ErrFilterInvalid{Predicate: predicate, Err: err}
	}
	defer layer.SetAttributeFilter("")

	var fids []vectorio.FID
	layer.ResetReading()
	for {
		feat, ok := layer.NextFeature()
		if !ok {
			break
		}
		fids = append(fids, feat.FID())
	}
	return fids, nil
}

// SelectByIDList parses each string with strict decimal-integer
// semantics; rejects empty strings, trailing garbage, negatives, and
// overflow by substituting vectorio.NullFID; de-duplicates while
// preserving first-seen order.
func SelectByIDList(ids []string) []vectorio.FID {
	seen := make(map[vectorio.FID]bool, len(ids))
	result := make([]vectorio.FID, 0, len(ids))
	for _, s := range ids {
		fid := parseStrictFID(s)
		if seen[fid] {
			continue
		}
		seen[fid] = true
		result = append(result, fid)
	}
	return result
}

func parseStrictFID(s string) vectorio.FID {
	if s == "" {
		return vectorio.NullFID
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return vectorio.NullFID
	}
	return vectorio.FID(n)
}
