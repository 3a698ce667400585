package snap

import "github.com/chazu/sketch/pkg/sketch"

// FindCoincidentCluster returns id and every joint transitively bound to
// it by coincident constraints, in breadth-first order starting with id.
// Constraints are treated as undirected edges.
func FindCoincidentCluster(s *sketch.Sketch, id sketch.JointID) []sketch.JointID {
	adj := make(map[sketch.JointID][]sketch.JointID)
	for _, c := range s.Constraints() {
		if co, ok := c.(sketch.Coincident); ok {
			adj[co.A] = append(adj[co.A], co.B)
			adj[co.B] = append(adj[co.B], co.A)
		}
	}

	seen := map[sketch.JointID]bool{id: true}
	cluster := []sketch.JointID{id}
	for i := 0; i < len(cluster); i++ {
		for _, next := range adj[cluster[i]] {
			if !seen[next] {
				seen[next] = true
				cluster = append(cluster, next)
			}
		}
	}
	return cluster
}
