// Package terminal is a line-oriented presentation driver for the chat. It
// holds one session for the lifetime of the process.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/session"
)

// Prompter reads user input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	AppendHistory(item string)
}

type Driver struct {
	in   Prompter
	out  io.Writer
	chat *chat.Service
	sess *session.Session
}

func NewDriver(in Prompter, out io.Writer, chatService *chat.Service, sess *session.Session) *Driver {
	return &Driver{in: in, out: out, chat: chatService, sess: sess}
}

const help = `Commands:
  /new      start a new conversation
  /key      enter a different API key
  /history  print the conversation
  /help     show this help
  exit      quit`

// Run loops until EOF, Ctrl+C or "exit".
func (d *Driver) Run(ctx context.Context) error {
	fmt.Fprintln(d.out, "Hugging Face Chatbot")
	fmt.Fprintln(d.out, help)
	if err := d.readCredential(); err != nil {
		return ignoreQuit(err)
	}

	for {
		line, err := d.in.Prompt("you> ")
		if err != nil {
			return ignoreQuit(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d.in.AppendHistory(line)

		switch line {
		case "exit", "/quit":
			return nil
		case "/help":
			fmt.Fprintln(d.out, help)
		case "/new":
			d.chat.NewConversation(d.sess)
			fmt.Fprintln(d.out, "Started a new conversation.")
		case "/key":
			if err := d.readCredential(); err != nil {
				return ignoreQuit(err)
			}
		case "/history":
			d.printHistory()
		default:
			d.submit(ctx, line)
		}
	}
}

func (d *Driver) submit(ctx context.Context, text string) {
	fmt.Fprintln(d.out, "Thinking...")
	ex, err := d.chat.Submit(ctx, d.sess, text)
	if err != nil {
		fmt.Fprintln(d.out, chat.UserMessage(err, d.sess.Credential()))
		return
	}
	fmt.Fprintf(d.out, "assistant> %s\n", ex.Assistant.Content)
}

func (d *Driver) readCredential() error {
	key, err := d.in.PasswordPrompt("Enter your HuggingFace API key: ")
	if err != nil {
		return err
	}
	d.sess.SetCredential(key)
	if d.sess.Credential() == "" {
		fmt.Fprintln(d.out, "No API key set. Use /key to enter one.")
	}
	return nil
}

func (d *Driver) printHistory() {
	turns := d.sess.Turns()
	if len(turns) == 0 {
		fmt.Fprintln(d.out, "(no messages yet)")
		return
	}
	for _, t := range turns {
		fmt.Fprintf(d.out, "%s> %s\n", t.Role, t.Content)
	}
}

func ignoreQuit(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
		return nil
	}
	return err
}
