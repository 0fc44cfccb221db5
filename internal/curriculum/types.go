// Package curriculum turns free-text lesson material into an ordered,
// prerequisite-linked module graph and serves the built-in sample curricula.
package curriculum

// Node is one teaching module derived from a delimited section of source text.
type Node struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Difficulty         float64  `json:"difficulty"`
	Prerequisites      []string `json:"prerequisites"`
	LearningObjectives []string `json:"learning_objectives"`
	Content            string   `json:"content,omitempty"`
}

// Curriculum is a subject plus an ordered sequence of modules forming a
// linear prerequisite chain.
type Curriculum struct {
	Subject string `json:"subject"`
	Nodes   []Node `json:"nodes"`
}

// Node returns the node with the given ID.
func (c Curriculum) Node(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Available returns the nodes whose prerequisites are all completed but
// which are not themselves completed yet, in teaching order.
func (c Curriculum) Available(completed []string) []Node {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	var available []Node
	for _, n := range c.Nodes {
		if done[n.ID] {
			continue
		}
		ready := true
		for _, p := range n.Prerequisites {
			if !done[p] {
				ready = false
				break
			}
		}
		if ready {
			available = append(available, n)
		}
	}
	return available
}

// IsEmpty reports whether the curriculum was never set at all. Open-ended
// sessions have a subject but zero nodes, which does not count as empty.
func (c Curriculum) IsEmpty() bool {
	return c.Subject == "" && len(c.Nodes) == 0
}
