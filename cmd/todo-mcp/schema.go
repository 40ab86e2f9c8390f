package main

import (
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// Every tool accepts a token; when omitted the TODO_MCP_TOKEN value is used.

type ListTasksInput struct {
	Token     string `json:"token,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
}

type CreateTaskInput struct {
	Token       string `json:"token,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type TaskIDInput struct {
	Token  string `json:"token,omitempty"`
	TaskID string `json:"task_id"`
}

type UpdateTaskInput struct {
	Token       string  `json:"token,omitempty"`
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

var tokenProperty = &jsonschema.Schema{
	Type:        "string",
	Description: "Bearer token of the task owner. Defaults to the server's configured token.",
}

var taskIDProperty = &jsonschema.Schema{
	Type:        "string",
	Description: "Task ID",
}

var ListTasksInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"token": tokenProperty,
		"completed": {
			Type:        "boolean",
			Description: "Only return tasks in this completion state",
		},
		"keyword": {
			Type:        "string",
			Description: "Case-insensitive text to look for in titles and descriptions",
		},
	},
	AdditionalProperties: boolSchema(false),
}

var CreateTaskInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"token": tokenProperty,
		"title": {
			Type:        "string",
			Description: "Task title, at most 255 characters",
		},
		"description": {
			Type:        "string",
			Description: "Optional task description",
		},
	},
	Required:             []string{"title"},
	AdditionalProperties: boolSchema(false),
}

var TaskIDInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"token":   tokenProperty,
		"task_id": taskIDProperty,
	},
	Required:             []string{"task_id"},
	AdditionalProperties: boolSchema(false),
}

var UpdateTaskInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"token":   tokenProperty,
		"task_id": taskIDProperty,
		"title": {
			Type:        "string",
			Description: "New title",
		},
		"description": {
			Type:        "string",
			Description: "New description",
		},
		"completed": {
			Type:        "boolean",
			Description: "New completion state",
		},
	},
	Required:             []string{"task_id"},
	AdditionalProperties: boolSchema(false),
}

func boolSchema(b bool) *jsonschema.Schema {
	if b {
		return &jsonschema.Schema{}
	}
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
