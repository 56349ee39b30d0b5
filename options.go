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

import (
	"log/slog"

	"github.com/lnorton-eliminate/eliminate/internal/graph"
)

// config is the fully-resolved, validated set of inputs to Run.
type config struct {
	predicate    string
	fids         []string
	policy       graph.Policy
	nodeCapacity int
	logger       *slog.Logger
	quiet        bool
}

// Option configures a Run invocation. See WithFilter, WithFIDs,
// WithMergePolicy, WithNodeCapacity, WithLogger, WithQuiet.
//
// Run takes its source layer, destination dataset, and destination
// layer name as direct arguments rather than options, since opening or
// selecting them is the caller's responsibility (see cmd/eliminate's
// -layer/-f flags); there is no option for any of the three.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithFilter selects victims by attribute predicate, in the source
// layer's native filter dialect. Mutually exclusive with WithFIDs.
func WithFilter(predicate string) Option {
	return optionFunc(func(c *config) { c.predicate = predicate })
}

// WithFIDs selects victims by an explicit list of feature-ID strings.
// Mutually exclusive with WithFilter.
func WithFIDs(ids []string) Option {
	return optionFunc(func(c *config) { c.fids = ids })
}

// WithMergePolicy sets the neighbor-ranking policy. Defaults to
// LARGEST_AREA.
func WithMergePolicy(policy graph.Policy) Option {
	return optionFunc(func(c *config) { c.policy = policy })
}

// WithNodeCapacity overrides the spatial index's branching factor.
// Defaults to index.DefaultNodeCapacity.
func WithNodeCapacity(n int) Option {
	return optionFunc(func(c *config) { c.nodeCapacity = n })
}

// WithLogger sets the structured logger Run and its stages log through.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *config) { c.logger = logger })
}

// WithQuiet suppresses per-feature warning logs without changing the
// accumulated Diagnostics or the return status.
func WithQuiet(quiet bool) Option {
	return optionFunc(func(c *config) { c.quiet = quiet })
}
