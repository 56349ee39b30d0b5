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

package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio/vectoriotest"
)

var idField = []vectorio.FieldDefinition{{Name: "id", Type: vectorio.FTInt64}}

func idAttrs(id int64) vectorio.Attributes {
	return vectorio.Attributes{"id": {Type: vectorio.FTInt64, Int: id}}
}

func square(x0, y0, x1, y1 float64) []byte {
	return vectoriotest.RectWKB([][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
}

func TestLoadPartitionsKeepAndVictimAndBuildsIndex(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	src := vectoriotest.NewLayer("strip", "Memory", idField, []vectoriotest.Record{
		{FID: 1, WKB: square(0, 0, 1, 1), Attrs: idAttrs(1)},
		{FID: 2, WKB: square(1, 0, 2, 1), Attrs: idAttrs(2)},
		{FID: 3, WKB: square(2, 0, 3, 1), Attrs: idAttrs(3)},
	})

	result, err := Load(tc, src, []vectorio.FID{2}, 10, func(vectorio.FID, string, ...interface{}) {})
	require.NoError(t, err)
	require.Len(t, result.Nodes, 3)
	require.Len(t, result.Keep, 2)
	require.Len(t, result.Victims, 1)
	require.Equal(t, vectorio.FID(2), result.Victims[0].FID)
	require.Equal(t, graph.Victim, result.Victims[0].Kind)

	hits, err := result.Index.Query(-1, -1, 4, 2)
	require.NoError(t, err)
	require.Len(t, hits, 3)
}

func TestLoadWarnsOnVictimFIDAbsentFromSource(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	src := vectoriotest.NewLayer("strip", "Memory", idField, []vectoriotest.Record{
		{FID: 1, WKB: square(0, 0, 1, 1), Attrs: idAttrs(1)},
	})

	var warnings []string
	warn := func(fid vectorio.FID, format string, args ...interface{}) {
		warnings = append(warnings, format)
	}

	result, err := Load(tc, src, []vectorio.FID{99}, 10, warn)
	require.NoError(t, err)
	require.Len(t, result.Victims, 0)
	require.Contains(t, warnings, "selected but not present in source")
}

func TestLoadDropsFeatureWithNoGeometryAndWarns(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	src := vectoriotest.NewLayer("strip", "Memory", idField, []vectoriotest.Record{
		{FID: 1, WKB: square(0, 0, 1, 1), Attrs: idAttrs(1)},
		{FID: 2, WKB: nil, Attrs: idAttrs(2)},
	})

	var warned bool
	warn := func(fid vectorio.FID, format string, args ...interface{}) {
		if fid == 2 {
			warned = true
		}
	}

	result, err := Load(tc, src, nil, 10, warn)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 1)
	require.True(t, warned)
}
