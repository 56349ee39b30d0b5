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
	"fmt"

	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// PrepareDestination creates the destination layer with the source's
// spatial reference and declared geometry type polygon, cloning every
// attribute-field definition in the order src.FieldDefs reports them.
func PrepareDestination(dst vectorio.DestDataset, name string, src vectorio.SourceLayer) (vectorio.DestLayer, error) {
	layer, err := dst.CreatePolygonLayer(name, src.SpatialRef(), src.FieldDefs())
	if err != nil {
		return nil, fmt.Errorf("create destination layer %s: %w", name, err)
	}
	return layer, nil
}
