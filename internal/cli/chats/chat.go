package chats

import (
	"bufio"
	"strings"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/models"
)

type ChatCmd struct {
	Message string `short:"m" help:"Send one message and print the reply."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	ex := svc.Chat

	if c.Message != "" {
		if ex.Submit(ctx.Context(), c.Message) {
			printReply(ctx, ex.Turns())
		}
		return nil
	}

	ctx.Println(cli.MutedStyle.Render("Chatting with Serene. Type /quit or press Ctrl+D to leave."))
	scanner := bufio.NewScanner(ctx.Stdin())
	for {
		ctx.Printf("you: ")
		if !scanner.Scan() {
			ctx.Println()
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}
		if !ex.Submit(ctx.Context(), line) {
			continue
		}
		printReply(ctx, ex.Turns())
		if ctx.Context().Err() != nil {
			return nil
		}
	}
}

func printReply(ctx *cli.Context, turns []models.ChatTurn) {
	if len(turns) == 0 {
		return
	}
	last := turns[len(turns)-1]
	if last.Sender == models.SenderAssistant {
		ctx.Println(cli.FormatTurn(last))
	}
}
