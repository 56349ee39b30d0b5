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

// Package collapse computes, for each survivor, the transitive closure
// of its assigned-victims tree, breaking the cycles that can arise among
// victims whose chosen-neighbor edges form a closed loop.
package collapse

import "github.com/lnorton-eliminate/eliminate/internal/graph"

// CycleWarner is called once per detected cycle that has no survivor
// reachable from it.
type CycleWarner func()

// Closure computes the transitive closure of s's assigned-victims tree:
// s's direct assigned victims, then recursively each of theirs. Because
// the assignment graph is functional (out-degree <= 1), a visited set
// during the walk is sufficient to detect and skip revisits.
func Closure(s *graph.FeatureNode) []*graph.FeatureNode {
	visited := map[*graph.FeatureNode]bool{s: true}
	var out []*graph.FeatureNode
	queue := append([]*graph.FeatureNode{}, s.Assigned...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		out = append(out, n)
		queue = append(queue, n.Assigned...)
	}
	return out
}

// DroppedCycles walks every victim's AssignedTo edge looking for closed
// cycles unreachable from any survivor (i.e. every node on the cycle is
// itself a victim). Each such cycle is reported once via warn. Returns
// the set of victims that were part of a dropped cycle, so callers can
// exclude them from reporting as ordinary unassigned victims.
func DroppedCycles(victims []*graph.FeatureNode, warn CycleWarner) map[*graph.FeatureNode]bool {
	dropped := make(map[*graph.FeatureNode]bool)
	visited := make(map[*graph.FeatureNode]bool)

	for _, start := range victims {
		if visited[start] || start.AssignedTo == nil {
			continue
		}
		path := []*graph.FeatureNode{}
		onPath := make(map[*graph.FeatureNode]bool)
		n := start
		for n != nil && n.AssignedTo != nil && !visited[n] {
			if onPath[n] {
				cycleStart := indexOf(path, n)
				cycle := path[cycleStart:]
				for _, c := range cycle {
					dropped[c] = true
					visited[c] = true
				}
				warn()
				break
			}
			path = append(path, n)
			onPath[n] = true
			n = n.AssignedTo
		}
		for _, p := range path {
			visited[p] = true
		}
	}
	return dropped
}

func indexOf(path []*graph.FeatureNode, n *graph.FeatureNode) int {
	for i, p := range path {
		if p == n {
			return i
		}
	}
	return 0
}
