package domain

// NPC is a static character definition. CorePrompt describes how the
// character speaks and what it believes.
type NPC struct {
	ID         string `json:"id" yaml:"id,omitempty"`
	Name       string `json:"name" yaml:"name"`
	CorePrompt string `json:"core_prompt" yaml:"core_prompt"`
}
