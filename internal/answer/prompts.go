package answer

import (
	"fmt"
	"strings"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

const defaultPersonality = "helpful assistant"

// BuildSystemPrompt describes the bot persona and the game it lives in.
func BuildSystemPrompt(personality string, game *domain.GameInfo) string {
	if strings.TrimSpace(personality) == "" {
		personality = defaultPersonality
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s in a Roblox game.\n", personality)
	if game != nil {
		fmt.Fprintf(&b, "You are in the game %q created by %s.\n", game.Name, game.Creator)
	}
	b.WriteString("Keep your responses concise and appropriate for all ages.\n")
	b.WriteString("Respond to the user's message in a natural, conversational way.")
	return b.String()
}

// BuildMessages returns the system prompt, the client's history and the new
// message as one conversation.
func BuildMessages(req *domain.ChatRequest) []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, 0, len(req.Context)+2)
	msgs = append(msgs, domain.ChatMessage{Role: "system", Content: BuildSystemPrompt(req.Personality, req.GameInfo)})

	for _, item := range req.Context {
		role := item.Role
		if role == "" {
			role = "user"
		}
		msgs = append(msgs, domain.ChatMessage{Role: role, Content: item.Content})
	}

	return append(msgs, domain.ChatMessage{Role: "user", Content: req.Message})
}
