package agent

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatContext is the in-progress conversation history the turn controller
// injects retrieved context into. One instance per active session; sessions
// share no mutable state.
type ChatContext struct {
	messages []ChatMessage
}

// NewChatContext creates an empty conversation.
func NewChatContext() *ChatContext {
	return &ChatContext{}
}

// AddMessage appends a message with the given role.
func (c *ChatContext) AddMessage(role, content string) {
	c.messages = append(c.messages, ChatMessage{Role: role, Content: content})
}

// Messages returns a copy of the conversation so far.
func (c *ChatContext) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the conversation.
func (c *ChatContext) Len() int {
	return len(c.messages)
}
