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

package eliminate

import "github.com/lnorton-eliminate/eliminate/internal/vectorio/vectoriotest"

// rectWKB is a thin alias for the shared fixture-polygon encoder, kept so
// existing test call sites in this package don't need to change.
func rectWKB(points [][2]float64) []byte {
	return vectoriotest.RectWKB(points)
}
