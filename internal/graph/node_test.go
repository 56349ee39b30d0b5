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

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePolicyRoundTripsKnownNames(t *testing.T) {
	for _, name := range []string{"LARGEST_AREA", "SMALLEST_AREA", "LONGEST_BOUNDARY"} {
		p, ok := ParsePolicy(name)
		require.True(t, ok)
		require.Equal(t, name, p.String())
	}
}

func TestParsePolicyRejectsUnknownName(t *testing.T) {
	_, ok := ParsePolicy("FASTEST")
	require.False(t, ok)
}
