package domain

// ChatMessage is one turn of conversation history sent by the game client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GameInfo describes the experience the bot is running in.
type GameInfo struct {
	Name    string `json:"name"`
	Creator string `json:"creator"`
}

// ChatRequest is the body of POST /api/chat and of relayed chat jobs.
type ChatRequest struct {
	Message     string        `json:"message"`
	Context     []ChatMessage `json:"context"`
	Personality string        `json:"personality"`
	GameInfo    *GameInfo     `json:"gameInfo"`
}

// ChatReply is what an answerer produces.
type ChatReply struct {
	Text     string
	Provider string
}

// ChatResponse is the body returned by the chat endpoints.
type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Chat response statuses understood by the game client.
const (
	ChatStatusSimple            = "simple"
	ChatStatusSuccess           = "success"
	ChatStatusFallback          = "fallback"
	ChatStatusLimited           = "limited"
	ChatStatusError             = "error"
	ChatStatusErrorWithFallback = "error_with_fallback"
	ChatStatusPollingSuccess    = "polling_success"
)

// PromptRequest is the body of POST /api/gemini.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// PromptResponse is returned by POST /api/gemini.
type PromptResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
