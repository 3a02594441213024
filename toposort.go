package polyfill

import (
	"fmt"
	"slices"
	"strings"
)

// edge points from a dependency to its dependent.
type edge struct {
	from, to string
}

// topoSort orders nodes so that every edge's source precedes its target.
// Nodes and edges are sorted first, so the order depends only on the graph.
// The depth-first walk visits nodes from last to first and places each
// node in front of everything reachable from it.
func topoSort(nodes []string, edges []edge) ([]string, error) {
	nodes = slices.Clone(nodes)
	slices.Sort(nodes)
	edges = slices.Clone(edges)
	slices.SortFunc(edges, func(a, b edge) int {
		if c := strings.Compare(a.from, b.from); c != 0 {
			return c
		}
		return strings.Compare(a.to, b.to)
	})

	outgoing := make(map[string][]string, len(nodes))
	for _, e := range edges {
		outgoing[e.from] = append(outgoing[e.from], e.to)
	}

	sorted := make([]string, len(nodes))
	cursor := len(nodes)
	visited := NewSet()
	onPath := NewSet()
	var path []string

	var visit func(node string) error
	visit = func(node string) error {
		if onPath.Has(node) {
			start := slices.Index(path, node)
			cycle := append(slices.Clone(path[start:]), node)
			return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(cycle, " -> "))
		}
		if visited.Has(node) {
			return nil
		}
		visited.Add(node)

		onPath.Add(node)
		path = append(path, node)
		children := outgoing[node]
		for i := len(children) - 1; i >= 0; i-- {
			if err := visit(children[i]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, node)

		cursor--
		sorted[cursor] = node
		return nil
	}

	for i := len(nodes) - 1; i >= 0; i-- {
		if err := visit(nodes[i]); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
