package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/tool"
)

func main() {
	// stdout carries the protocol, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := NewConfig()
	if err != nil {
		logger.ErrorContext(ctx, "failed to create config", "error", err)
		os.Exit(1)
	}

	tools := NewTaskTools(tool.NewClient(cfg.APIBaseURL, cfg.ToolTimeout, auth.NewUnverifiedOwner()), cfg.Token)

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "todo-mcp",
			Title:   "Todo MCP Server",
			Version: "v1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "MCP server for the todo service. Every tool acts on the tasks of the token's owner and " +
				"returns {\"success\": true, \"data\": ...} or {\"success\": false, \"error\": \"...\"}. " +
				"Use list_tasks to find task ids before get_task, toggle_task, update_task or delete_task.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Title:       "List Tasks",
		Description: "List the user's tasks, optionally filtered by completion state and keyword.",
		InputSchema: ListTasksInputSchema,
	}, tools.ListTasksHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Title:       "Create Task",
		Description: "Create a task with a title and optional description.",
		InputSchema: CreateTaskInputSchema,
	}, tools.CreateTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task",
		Title:       "Get Task",
		Description: "Get a single task by id.",
		InputSchema: TaskIDInputSchema,
	}, tools.GetTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Title:       "Delete Task",
		Description: "Delete a task by id.",
		InputSchema: TaskIDInputSchema,
	}, tools.DeleteTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Title:       "Toggle Task",
		Description: "Flip a task between completed and not completed.",
		InputSchema: TaskIDInputSchema,
	}, tools.ToggleTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_task",
		Title:       "Update Task",
		Description: "Change the title, description or completion state of a task. Omitted fields keep their value.",
		InputSchema: UpdateTaskInputSchema,
	}, tools.UpdateTaskHandler)

	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		logger.ErrorContext(ctx, "failed to run server", "error", err)
		os.Exit(1)
	}
}
