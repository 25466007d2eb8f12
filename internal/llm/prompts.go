package llm

const dialogueSystemPrompt = `You are playing the game character %s.
%s
You are talking with the player '%s'. Stay in character at all times.
Your reply must be a JSON object with a single key "dialogue" (string) holding what you say.`

const dialogueUserPrompt = `Player: %s
Respond in JSON.`

const sentimentPrompt = `Analyze the belief leaning of the following player statement.
Player statement: '%s'
Decide whether it leans toward "survival" (pragmatic self-preservation) or "idealism" (acting on principles).
Return an assessment as a JSON object of the form {"survival": float, "idealism": float}.
Positive values strengthen a belief, negative values weaken it, and the two should sum to 0.
If very pragmatic, return {"survival": 0.1, "idealism": -0.1}.
If very idealistic, return {"survival": -0.1, "idealism": 0.1}.
If neutral, return {"survival": 0.0, "idealism": 0.0}.`

const reflectionPrompt = `You are a wise guide leading the player '%s' through self-reflection.
Their current core beliefs are: survival %.2f, idealism %.2f.
Yet these recent actions of theirs seem to reveal an inner conflict:
%s

Write a profound, first-person inner monologue that exposes this contradiction.
End the monologue with a clear either/or question asking them to choose between pragmatic survival and idealism.
Return the result as a JSON object: {"monologue": "...", "choice_a": "%s", "choice_b": "%s"}`

const noRecentEvents = "- (nothing yet; they have barely spoken to anyone)"

// Fallback values used when a completion is missing a field.
const (
	FallbackDialogue  = "..."
	FallbackMonologue = "The voices inside you fall quiet, waiting to hear who you will become."
	DefaultChoiceA    = "Become a pragmatic survivor"
	DefaultChoiceB    = "Become someone who pursues ideals"
)
