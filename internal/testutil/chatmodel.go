package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel replies with a canned answer and records every prompt it receives
type ChatModel struct {
	mu      sync.Mutex
	Reply   func(input []*schema.Message) (string, error)
	prompts [][]*schema.Message
}

var _ model.BaseChatModel = (*ChatModel)(nil)

// NewChatModel returns a model that always answers reply
func NewChatModel(reply string) *ChatModel {
	return &ChatModel{
		Reply: func([]*schema.Message) (string, error) { return reply, nil },
	}
}

func (c *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, input)
	c.mu.Unlock()

	content, err := c.Reply(input)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(content, nil), nil
}

func (c *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

// Prompts returns every message list passed to Generate
func (c *ChatModel) Prompts() [][]*schema.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]*schema.Message(nil), c.prompts...)
}
