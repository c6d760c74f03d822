package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/completion"
	"github.com/ent0n29/hfchat/internal/session"
)

type scriptedPrompter struct {
	lines     []string
	passwords []string
	history   []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) PasswordPrompt(string) (string, error) {
	if len(p.passwords) == 0 {
		return "", liner.ErrPromptAborted
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

type echoCompleter struct {
	err error
}

func (e echoCompleter) Complete(_ context.Context, userText, _ string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return "echo: " + userText, nil
}

var _ Prompter = (*liner.State)(nil)

func TestDriverExchangeAndReset(t *testing.T) {
	in := &scriptedPrompter{
		passwords: []string{"k"},
		lines:     []string{"hello", "/history", "/new", "/history", "exit", "never read"},
	}
	var out bytes.Buffer
	sess := session.New("term")
	d := NewDriver(in, &out, chat.NewService(echoCompleter{}, nil), sess)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	text := out.String()
	for _, want := range []string{"assistant> echo: hello", "user> hello", "Started a new conversation.", "(no messages yet)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if len(sess.Turns()) != 0 || sess.Credential() != "k" {
		t.Fatalf("session after /new = %+v / %q", sess.Turns(), sess.Credential())
	}
	if len(in.lines) != 1 {
		t.Fatalf("driver kept reading after exit")
	}
}

func TestDriverWithoutCredential(t *testing.T) {
	in := &scriptedPrompter{passwords: []string{""}, lines: []string{"hello"}}
	var out bytes.Buffer
	sess := session.New("term")
	d := NewDriver(in, &out, chat.NewService(echoCompleter{}, nil), sess)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Please enter your HuggingFace API key") {
		t.Fatalf("output missing credential prompt:\n%s", out.String())
	}
	if len(sess.Turns()) != 0 {
		t.Fatalf("Turns() = %+v, want empty", sess.Turns())
	}
}

func TestDriverSurfacesUpstreamFailure(t *testing.T) {
	in := &scriptedPrompter{passwords: []string{"k"}, lines: []string{"hello"}}
	var out bytes.Buffer
	sess := session.New("term")
	failing := echoCompleter{err: &completion.HTTPStatusError{StatusCode: 503}}
	d := NewDriver(in, &out, chat.NewService(failing, nil), sess)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Error: API returned status code 503") {
		t.Fatalf("output missing status error:\n%s", out.String())
	}
	if turns := sess.Turns(); len(turns) != 1 || turns[0].Role != session.RoleUser {
		t.Fatalf("Turns() = %+v, want one user turn", turns)
	}
}

func TestDriverAbortOnKeyPromptIsNotAnError(t *testing.T) {
	in := &scriptedPrompter{}
	d := NewDriver(in, io.Discard, chat.NewService(echoCompleter{}, nil), session.New("term"))
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
}

func TestIgnoreQuit(t *testing.T) {
	if err := ignoreQuit(io.EOF); err != nil {
		t.Fatalf("ignoreQuit(EOF) = %v, want nil", err)
	}
	if err := ignoreQuit(liner.ErrPromptAborted); err != nil {
		t.Fatalf("ignoreQuit(aborted) = %v, want nil", err)
	}
	boom := errors.New("boom")
	if err := ignoreQuit(boom); !errors.Is(err, boom) {
		t.Fatalf("ignoreQuit(boom) = %v, want boom", err)
	}
}
