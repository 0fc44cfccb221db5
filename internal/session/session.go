// Package session holds the local learning-session model and its stores.
// Demo sessions are created entirely on this side for zero-latency preview
// and live under a reserved id prefix until materialized on the backend.
package session

import (
	"crypto/rand"
	"time"

	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/emotion"
)

const (
	// demoPrefix is the reserved namespace for locally created sessions.
	// The demo/backend distinction is carried by the id alone so it
	// survives restarts without a side table.
	demoPrefix = "demo-"

	storageKeyPrefix = "mindhacker_demo_session"

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 8
)

// Message roles. Module-role messages are synthetic, inserted locally when
// the user opens a module's raw content; they never reach the backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModule    = "module"
)

// Message is one transcript entry.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Data is the full local snapshot of one learning session.
type Data struct {
	SessionID        string                `json:"session_id"`
	Curriculum       curriculum.Curriculum `json:"curriculum"`
	Messages         []Message             `json:"messages"`
	EmotionalHistory []emotion.State       `json:"emotional_history"`
	CompletedNodes   []string              `json:"completed_nodes"`
	CurrentNodeID    string                `json:"current_node_id"`
}

// New parses curriculum content and builds a fresh demo session around it:
// empty transcript, empty history, nothing completed, first node current.
func New(content, subject string) *Data {
	return fromCurriculum(curriculum.Parse(content, subject))
}

// NewEmpty builds a demo session with no curriculum nodes, used for the
// open-ended conversation mode.
func NewEmpty(subject string) *Data {
	return fromCurriculum(curriculum.Curriculum{Subject: subject, Nodes: []curriculum.Node{}})
}

func fromCurriculum(c curriculum.Curriculum) *Data {
	current := ""
	if len(c.Nodes) > 0 {
		current = c.Nodes[0].ID
	}
	return &Data{
		SessionID:        NewID(),
		Curriculum:       c,
		Messages:         []Message{},
		EmotionalHistory: []emotion.State{},
		CompletedNodes:   []string{},
		CurrentNodeID:    current,
	}
}

// NewID generates a fresh demo session id: the reserved prefix plus a
// random base-36 suffix. Collisions are treated as negligible.
func NewID() string {
	b := make([]byte, idLength)
	rand.Read(b)
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return demoPrefix + string(b)
}

// IsDemo reports whether id names a locally created session. Pure prefix
// test, no I/O.
func IsDemo(id string) bool {
	return len(id) >= len(demoPrefix) && id[:len(demoPrefix)] == demoPrefix
}

func storageKey(id string) string {
	return storageKeyPrefix + "_" + id
}

// AppendMessage adds a transcript entry, stamping it if unstamped.
func (d *Data) AppendMessage(m Message) {
	if m.Timestamp == "" {
		m.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	d.Messages = append(d.Messages, m)
}

// AppendEmotionalState records one emotional snapshot, tagged with the
// assistant turn it belongs to and with derived scores filled in.
func (d *Data) AppendEmotionalState(s emotion.State) {
	s = s.WithDerived()
	if s.MessageIndex == 0 {
		s.MessageIndex = len(d.Messages)
	}
	d.EmotionalHistory = append(d.EmotionalHistory, s)
}

// CompleteNode marks a node completed (duplicate-free) and advances
// CurrentNodeID to the next available node, if any.
func (d *Data) CompleteNode(nodeID string) {
	for _, id := range d.CompletedNodes {
		if id == nodeID {
			return
		}
	}
	d.CompletedNodes = append(d.CompletedNodes, nodeID)

	if next := d.Curriculum.Available(d.CompletedNodes); len(next) > 0 {
		d.CurrentNodeID = next[0].ID
	}
}

// ProgressPct returns completion as a percentage of total nodes.
func (d *Data) ProgressPct() float64 {
	if len(d.Curriculum.Nodes) == 0 {
		return 0
	}
	return float64(len(d.CompletedNodes)) / float64(len(d.Curriculum.Nodes)) * 100
}
