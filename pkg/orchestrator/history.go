package orchestrator

// maxHistoryTurns caps the conversation history; older turns are
// dropped first.
const maxHistoryTurns = 10

// History holds the bounded conversation history of one thread.
type History struct {
	turns []Turn
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a completed exchange, evicting the oldest turn once
// the cap is exceeded.
func (h *History) Append(user, assistant string) {
	h.turns = append(h.turns, Turn{User: user, Assistant: assistant})
	if len(h.turns) > maxHistoryTurns {
		h.turns = h.turns[len(h.turns)-maxHistoryTurns:]
	}
}

// Recent returns the last n turns, oldest first.
func (h *History) Recent(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}

	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Clear drops all stored turns.
func (h *History) Clear() {
	h.turns = nil
}
