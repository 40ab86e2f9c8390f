package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/kazz187/taskchat/internal/assistant"
	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/config"
	"github.com/kazz187/taskchat/internal/todo"
	"github.com/kazz187/taskchat/internal/tool"
	"github.com/kazz187/taskchat/pkg/clog"
)

var (
	app = kingpin.New("todo", "Todo list manager and task chat assistant")

	menuCmd = app.Command("menu", "Run the in-memory todo list menu").Default()

	chatCmd   = app.Command("chat", "Chat with the task assistant of a running server")
	chatAPI   = chatCmd.Flag("api", "Base URL of the todo server (default: TODO_API_BASE_URL)").String()
	chatToken = chatCmd.Flag("token", "Bearer token from /auth/signin").Envar("TODO_TOKEN").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case menuCmd.FullCommand():
		if err := todo.NewMenu(todo.NewService(), os.Stdin, os.Stdout).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case chatCmd.FullCommand():
		if err := runChat(*chatAPI, *chatToken); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runChat(api, token string) error {
	env, err := config.LoadAssistantEnv()
	if err != nil {
		return err
	}
	if api == "" {
		api = env.APIBaseURL
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(clog.NewTextHandler(os.Stderr, clog.WithLevel(slog.LevelWarn)))))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The server checks the signature; the client only needs the owner id.
	chat := assistant.New(tool.NewClient(api, env.ToolTimeout, auth.NewUnverifiedOwner()))
	return chatLoop(ctx, chat, token, env.HistoryLimit, os.Stdin, os.Stdout)
}

func chatLoop(ctx context.Context, chat *assistant.Assistant, token string, historyLimit int, in io.Reader, out io.Writer) error {
	you := color.New(color.FgCyan, color.Bold).SprintFunc()
	bot := color.New(color.FgGreen, color.Bold).SprintFunc()

	fmt.Fprintln(out, "Type a message, or \"exit\" to quit.")
	scanner := bufio.NewScanner(in)
	var history []assistant.Turn
	for {
		fmt.Fprint(out, you("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			return nil
		}
		history = append(history, assistant.Turn{Role: "user", Content: msg})
		reply, err := chat.Respond(ctx, msg, history, token)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", bot("assistant>"), reply)
		history = append(history, assistant.Turn{Role: "assistant", Content: reply})
		if len(history) > historyLimit {
			history = history[len(history)-historyLimit:]
		}
	}
}
