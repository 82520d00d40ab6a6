package entities

// AuthPrompt is one step of a login dialogue: wait for a prompt, then answer it
type AuthPrompt struct {
	WaitFor string
	SendCmd string // empty means wait only
}
