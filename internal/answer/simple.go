package answer

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

type keywordReply struct {
	keywords []string
	reply    string
}

var simpleReplies = []keywordReply{
	{[]string{"hello", "hi"}, "Hello! I'm your AI assistant in this Roblox game. How can I help you today?"},
	{[]string{"help"}, "I'd be happy to help! I can answer questions, chat with you, or follow simple commands in the game."},
	{[]string{"follow"}, "Sure, I'll follow you around! Just lead the way and I'll stay close by."},
	{[]string{"stop", "stay"}, "Alright, I'll stay right here until you need me to move again."},
	{[]string{"dance"}, "Watch me dance! I've got some cool moves to show you!"},
	{[]string{"bye", "goodbye"}, "It was nice chatting with you! Goodbye, and have a great time in the game!"},
	{[]string{"name"}, "My name is AI Assistant! I'm an AI chatbot built to interact with players in Roblox games."},
	{[]string{"game", "play"}, "This game looks fun! I'm here to make your gaming experience more interactive and enjoyable."},
}

var genericReplies = []string{
	"That's an interesting point! What else would you like to talk about?",
	"I understand what you're saying. How can I assist you further?",
	"Thanks for sharing that with me. Is there anything specific you'd like to know?",
	"I'm processing what you said. Can you tell me more about what you're interested in?",
	"That's good to know! What else is on your mind?",
	"I appreciate you chatting with me. What would you like to do next in the game?",
}

// LimitedPrefix starts every reply produced while the AI features are degraded.
const LimitedPrefix = "I'm sorry, my AI features are currently limited. "

var limitedReplies = []keywordReply{
	{[]string{"hello", "hi"}, "Hello there! How can I help you today?"},
	{[]string{"help"}, "I wish I could help more, but my systems are operating in limited mode."},
	{[]string{"game"}, "I can see you're playing a game! I hope you're having fun."},
}

var fallbackReplies = []keywordReply{
	{[]string{"hello", "hi"}, "Hello there! How can I help you today?"},
	{[]string{"help"}, "I wish I could help more, but my systems are operating in limited mode."},
	{[]string{"game"}, "I can see you're trying to talk about a game. That sounds interesting!"},
}

const basicModeReply = "I understand you're trying to communicate with me, but I'm in basic mode right now."

func matchKeywords(table []keywordReply, message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, entry := range table {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.reply, true
			}
		}
	}
	return "", false
}

// Simple answers from a keyword table without calling any API.
type Simple struct {
	// Pick chooses one of n generic replies.
	Pick func(n int) int
}

// NewSimple creates a keyword responder with a random generic fallback.
func NewSimple() *Simple {
	return &Simple{Pick: rand.IntN}
}

func (s *Simple) Name() string { return ProviderSimple }

// Reply returns the canned reply for message.
func (s *Simple) Reply(message string) string {
	if reply, ok := matchKeywords(simpleReplies, message); ok {
		return reply
	}
	return genericReplies[s.Pick(len(genericReplies))]
}

func (s *Simple) Answer(_ context.Context, req *domain.ChatRequest) (*domain.ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrMissingMessage
	}
	return &domain.ChatReply{Text: s.Reply(req.Message), Provider: ProviderSimple}, nil
}

// LimitedReply is the reply of the simple-chat endpoint used while the main API is down.
func LimitedReply(message string) string {
	reply, ok := matchKeywords(limitedReplies, message)
	if !ok {
		reply = basicModeReply
	}
	return LimitedPrefix + reply
}

// FallbackReply is sent by the chat endpoint when its provider failed.
func FallbackReply(message string) string {
	reply, ok := matchKeywords(fallbackReplies, message)
	if !ok {
		reply = basicModeReply
	}
	return LimitedPrefix + reply
}
