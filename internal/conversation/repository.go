package conversation

import "context"

type Page struct {
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, c *Conversation) error
	Get(ctx context.Context, id string) (*Conversation, error)
	// List returns the user's conversations, most recently active first.
	List(ctx context.Context, userID string, page Page) ([]*Conversation, error)
	// Delete removes the conversation together with its messages.
	Delete(ctx context.Context, id string) error

	// AddMessage stores m and moves the conversation's updated_at to
	// m.CreatedAt.
	AddMessage(ctx context.Context, m *Message) error
	// Messages returns messages oldest first.
	Messages(ctx context.Context, conversationID string, page Page) ([]*Message, error)
	// Recent returns the last n messages, oldest first.
	Recent(ctx context.Context, conversationID string, n int) ([]*Message, error)
}
