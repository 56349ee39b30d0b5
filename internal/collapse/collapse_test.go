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

package collapse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lnorton-eliminate/eliminate/internal/graph"
)

func TestClosureCollectsTransitiveVictims(t *testing.T) {
	survivor := &graph.FeatureNode{Kind: graph.Keep}
	v1 := &graph.FeatureNode{Kind: graph.Victim}
	v2 := &graph.FeatureNode{Kind: graph.Victim}
	survivor.Assigned = []*graph.FeatureNode{v1}
	v1.Assigned = []*graph.FeatureNode{v2}

	closure := Closure(survivor)
	require.ElementsMatch(t, []*graph.FeatureNode{v1, v2}, closure)
}

func TestDroppedCyclesDetectsClosedLoopAmongVictims(t *testing.T) {
	v1 := &graph.FeatureNode{Kind: graph.Victim}
	v2 := &graph.FeatureNode{Kind: graph.Victim}
	v1.AssignedTo = v2
	v2.AssignedTo = v1

	var warned int
	dropped := DroppedCycles([]*graph.FeatureNode{v1, v2}, func() { warned++ })

	require.Equal(t, 1, warned)
	require.True(t, dropped[v1])
	require.True(t, dropped[v2])
}

func TestDroppedCyclesIgnoresChainsThatReachASurvivor(t *testing.T) {
	survivor := &graph.FeatureNode{Kind: graph.Keep}
	v1 := &graph.FeatureNode{Kind: graph.Victim}
	v1.AssignedTo = survivor

	var warned int
	dropped := DroppedCycles([]*graph.FeatureNode{v1}, func() { warned++ })

	require.Equal(t, 0, warned)
	require.Empty(t, dropped)
}
