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

package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryReturnsOnlyIntersectingEntries(t *testing.T) {
	idx, err := New([]Entry{
		{Value: "a", MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
		{Value: "b", MinX: 5, MinY: 5, MaxX: 6, MaxY: 6},
		{Value: "c", MinX: 0.5, MinY: 0.5, MaxX: 1.5, MaxY: 1.5},
	}, DefaultNodeCapacity)
	require.NoError(t, err)

	hits, err := idx.Query(0, 0, 1, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []interface{}{"a", "c"}, hits)
}

func TestQueryHandlesDegenerateEnvelope(t *testing.T) {
	idx, err := New([]Entry{{Value: "point", MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}}, 4)
	require.NoError(t, err)

	hits, err := idx.Query(3, 3, 3, 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}
