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

package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lnorton-eliminate/eliminate/internal/graph"
	"github.com/lnorton-eliminate/eliminate/internal/index"
	"github.com/lnorton-eliminate/eliminate/internal/topology"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
	"github.com/lnorton-eliminate/eliminate/internal/vectorio/vectoriotest"
)

func square(tc *topology.Context, x0, y0, x1, y1 float64) *topology.Geom {
	wkb := vectoriotest.RectWKB([][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
	g, err := tc.FromWKB(wkb)
	if err != nil {
		panic(err)
	}
	return g
}

func buildIndex(nodes []*graph.FeatureNode) *index.Index {
	entries := make([]index.Entry, len(nodes))
	for i, n := range nodes {
		minX, minY, maxX, maxY := n.Bounds()
		entries[i] = index.Entry{Value: n, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	idx, err := index.New(entries, index.DefaultNodeCapacity)
	if err != nil {
		panic(err)
	}
	return idx
}

func TestResolveAssignsVictimToLargestAreaNeighbor(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	// The victim is a sliver between big (area 100) and small (area 71);
	// both share its full 10-length edge, so only their areas differ.
	big := graph.New(1, graph.Keep, square(tc, 0, 0, 10, 10), nil)
	victim := graph.New(2, graph.Victim, square(tc, 10, 0, 10.1, 10), nil)
	small := graph.New(3, graph.Keep, square(tc, 10.1, 0, 17.2, 10), nil)
	victim.Prepared()

	idx := buildIndex([]*graph.FeatureNode{big, small, victim})

	err = Resolve(idx, []*graph.FeatureNode{victim}, graph.LargestArea, func(vectorio.FID, string, ...interface{}) {})
	require.NoError(t, err)
	require.Same(t, big, victim.AssignedTo)
}

func TestResolveAssignsVictimToSmallestAreaNeighbor(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	// victim's west and east neighbors both run its full height (tied
	// 10-length shared edges), so only their areas differ: west is 10x10
	// (area 100), east is a 0.5x10 sliver (area 5).
	victim := graph.New(1, graph.Victim, square(tc, 10, 0, 20, 10), nil)
	victim.Prepared()
	west := graph.New(2, graph.Keep, square(tc, 0, 0, 10, 10), nil)
	east := graph.New(3, graph.Keep, square(tc, 20, 0, 20.5, 10), nil)

	idx := buildIndex([]*graph.FeatureNode{victim, west, east})

	err = Resolve(idx, []*graph.FeatureNode{victim}, graph.SmallestArea, func(vectorio.FID, string, ...interface{}) {})
	require.NoError(t, err)
	require.Same(t, east, victim.AssignedTo)
}

func TestResolveAssignsVictimToLongestBoundaryNeighbor(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	// west has the bigger area (100 vs 10) but only grazes the victim's
	// edge for length 1; south has the smaller area but shares the
	// victim's full-width edge, length 10. LargestArea and LongestBoundary
	// must disagree on this fixture.
	victim := graph.New(1, graph.Victim, square(tc, 10, 0, 20, 10), nil)
	victim.Prepared()
	west := graph.New(2, graph.Keep, square(tc, -90, 0, 10, 1), nil)
	south := graph.New(3, graph.Keep, square(tc, 10, -1, 20, 0), nil)

	idx := buildIndex([]*graph.FeatureNode{victim, west, south})

	err = Resolve(idx, []*graph.FeatureNode{victim}, graph.LongestBoundary, func(vectorio.FID, string, ...interface{}) {})
	require.NoError(t, err)
	require.Same(t, south, victim.AssignedTo)

	// Confirm the fixture actually discriminates: under LargestArea the
	// same victim would instead attach to the bigger (but shorter-edged)
	// west neighbor.
	victim.AssignedTo = nil
	victim.Neighbors = nil
	idx2 := buildIndex([]*graph.FeatureNode{victim, west, south})
	err = Resolve(idx2, []*graph.FeatureNode{victim}, graph.LargestArea, func(vectorio.FID, string, ...interface{}) {})
	require.NoError(t, err)
	require.Same(t, west, victim.AssignedTo)
}

func TestResolveWarnsWhenNoNeighborsTouch(t *testing.T) {
	tc, err := topology.NewContext()
	require.NoError(t, err)
	defer tc.Close()

	isolated := graph.New(1, graph.Victim, square(tc, 100, 100, 101, 101), nil)
	isolated.Prepared()
	other := graph.New(2, graph.Keep, square(tc, 0, 0, 1, 1), nil)

	idx := buildIndex([]*graph.FeatureNode{isolated, other})

	var warnings []string
	warn := func(fid vectorio.FID, format string, args ...interface{}) {
		warnings = append(warnings, format)
	}

	err = Resolve(idx, []*graph.FeatureNode{isolated}, graph.LargestArea, warn)
	require.NoError(t, err)
	require.Nil(t, isolated.AssignedTo)
	require.Contains(t, warnings, "no neighbors")
}
