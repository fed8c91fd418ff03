package model

// ReactionState is a user's current reaction to one answer
type ReactionState string

const (
	ReactionNone     ReactionState = "none"
	ReactionLiked    ReactionState = "liked"
	ReactionDisliked ReactionState = "disliked"
)

// ReactionAction is what the user asked for
type ReactionAction string

const (
	ActionLike    ReactionAction = "like"
	ActionDislike ReactionAction = "dislike"
)

// ReactionFromFlags maps the stored (liked, disliked) pair to a state.
// A row with both flags set violates the invariant and is treated as liked.
func ReactionFromFlags(liked, disliked bool) ReactionState {
	switch {
	case liked:
		return ReactionLiked
	case disliked:
		return ReactionDisliked
	default:
		return ReactionNone
	}
}

// Flags returns the (liked, disliked) pair persisted for the state.
func (s ReactionState) Flags() (liked, disliked bool) {
	return s == ReactionLiked, s == ReactionDisliked
}

// Apply returns the state reached by performing action from s.
// Repeating the current reaction clears it; the opposite reaction switches.
func (s ReactionState) Apply(action ReactionAction) ReactionState {
	target := ReactionLiked
	if action == ActionDislike {
		target = ReactionDisliked
	}
	if s == target {
		return ReactionNone
	}
	return target
}

// Valid reports whether the action is one of the supported reactions
func (a ReactionAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// ReactionResult is the outcome of a toggle, with recounted totals for the answer
type ReactionResult struct {
	AnswerID string        `json:"answer_id"`
	State    ReactionState `json:"state"`
	Likes    int64         `json:"num_likes"`
	Dislikes int64         `json:"num_dislikes"`
}
