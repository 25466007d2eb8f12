package domain

type TurnRole string

const (
	TurnRolePlayer TurnRole = "player"
	TurnRoleNPC    TurnRole = "npc"
)

// Turn is one line of a player/NPC conversation.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

type DialogueRequest struct {
	NPC      NPC
	Username string
	History  []Turn
	Message  string
}

type ReflectionRequest struct {
	Username string
	Beliefs  BeliefVector
	Events   []string
}

// Reflection is the echo-chamber monologue and the two offered paths.
// ChoiceA maps to survival, ChoiceB to idealism.
type Reflection struct {
	Monologue string `json:"monologue"`
	ChoiceA   string `json:"choice_a"`
	ChoiceB   string `json:"choice_b"`
}
