package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/taskchat/internal/tool"
)

// TaskTools exposes the task tool adapter as MCP tools. Every result is the
// JSON {"success", "data" | "error"} envelope.
type TaskTools struct {
	client       *tool.Client
	defaultToken string
}

func NewTaskTools(client *tool.Client, defaultToken string) *TaskTools {
	return &TaskTools{client: client, defaultToken: defaultToken}
}

func (t *TaskTools) token(given string) string {
	if given != "" {
		return given
	}
	return t.defaultToken
}

func (t *TaskTools) ListTasksHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[ListTasksInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.List(ctx, t.token(in.Token), tool.ListParams{Completed: in.Completed, Keyword: in.Keyword}))
}

func (t *TaskTools) CreateTaskHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[CreateTaskInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.Create(ctx, t.token(in.Token), in.Title, in.Description))
}

func (t *TaskTools) GetTaskHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[TaskIDInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.Get(ctx, t.token(in.Token), in.TaskID))
}

func (t *TaskTools) DeleteTaskHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[TaskIDInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.Delete(ctx, t.token(in.Token), in.TaskID))
}

func (t *TaskTools) ToggleTaskHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[TaskIDInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.Toggle(ctx, t.token(in.Token), in.TaskID))
}

func (t *TaskTools) UpdateTaskHandler(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[UpdateTaskInput]) (*mcp.CallToolResultFor[any], error) {
	in := params.Arguments
	return toolResult(t.client.Update(ctx, t.token(in.Token), in.TaskID, tool.UpdateParams{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}))
}

func toolResult[T any](res tool.Result[T]) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: !res.OK(),
	}, nil
}
