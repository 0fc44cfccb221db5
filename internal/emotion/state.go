// Package emotion models the five-dimension emotional state the tutor
// backend infers per assistant turn. This service stores and relays states
// without validating them; the derived metrics here fill in composite scores
// when the backend omits them.
package emotion

// State is one emotional-state snapshot. Dimensions are conceptually in
// [0, 1]. FlowScore and DropoutRisk may be supplied by the backend; they are
// pointers so an explicit zero (flow can even go negative) stays
// distinguishable from an omitted field.
type State struct {
	Engagement    float64  `json:"engagement"`
	Confidence    float64  `json:"confidence"`
	Frustration   float64  `json:"frustration"`
	Curiosity     float64  `json:"curiosity"`
	CognitiveLoad float64  `json:"cognitive_load"`
	FlowScore     *float64 `json:"flow_score,omitempty"`
	DropoutRisk   *float64 `json:"dropout_risk,omitempty"`
	MessageIndex  int      `json:"message_index,omitempty"`
}

// Flow scores how close the student is to flow state: high engagement,
// confidence, and curiosity with low frustration.
func (s State) Flow() float64 {
	return (s.Engagement + s.Confidence + s.Curiosity - s.Frustration - s.CognitiveLoad*0.5) / 3.5
}

// Dropout estimates the risk of the student disengaging.
func (s State) Dropout() float64 {
	return s.Frustration*0.4 + (1-s.Engagement)*0.3 + s.CognitiveLoad*0.3
}

// ReadinessForChallenge scores whether the student can take harder content.
func (s State) ReadinessForChallenge() float64 {
	return (s.Confidence*0.4 + s.Engagement*0.3 + s.Curiosity*0.3) * (1 - s.Frustration)
}

// WithDerived returns a copy with FlowScore and DropoutRisk filled in when
// the backend omitted them. Supplied values, including zero, are preserved.
func (s State) WithDerived() State {
	if s.FlowScore == nil {
		v := s.Flow()
		s.FlowScore = &v
	}
	if s.DropoutRisk == nil {
		v := s.Dropout()
		s.DropoutRisk = &v
	}
	return s
}

// Strategy is the decision matrix mapping an emotional state to teaching
// adjustments. Later rules overwrite earlier ones on key collision.
func (s State) Strategy() map[string]string {
	strategies := map[string]string{}

	if s.Frustration > 0.6 {
		strategies["tone"] = "encouraging"
		strategies["complexity"] = "simplified"
		strategies["approach"] = "break_into_steps"
	}
	if s.Engagement < 0.3 {
		strategies["tone"] = "enthusiastic"
		strategies["approach"] = "gamify"
		strategies["examples"] = "real_world"
	}
	if s.Curiosity > 0.7 {
		strategies["depth"] = "deep_dive"
		strategies["extras"] = "tangential_facts"
	}
	if s.CognitiveLoad > 0.7 {
		strategies["complexity"] = "scaffolded"
		strategies["pacing"] = "slower"
	}
	if s.Confidence > 0.8 && s.Frustration < 0.3 {
		strategies["complexity"] = "advanced"
		strategies["challenge"] = "increased"
	}

	return strategies
}
