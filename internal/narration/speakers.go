package narration

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CaptionSpeaker keeps the latest utterance so the UI can show it as a
// caption.
type CaptionSpeaker struct {
	mu   sync.Mutex
	last Utterance
}

// Speak records u as the current caption.
func (c *CaptionSpeaker) Speak(_ context.Context, u Utterance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = u
	return nil
}

// Caption returns the text of the latest utterance.
func (c *CaptionSpeaker) Caption() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.Text
}

// ExecSpeaker runs an external text-to-speech command per utterance.
// Command is split on whitespace; the placeholders {lang} and {text} are
// replaced in each argument, and when {text} does not appear the text is
// appended as the last argument.
type ExecSpeaker struct {
	Command string
}

// Speak runs the command and waits for it, killing it if ctx is cancelled.
func (s *ExecSpeaker) Speak(ctx context.Context, u Utterance) error {
	name, args, err := s.argv(u)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("narrate with %s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("narrate with %s: %w", name, err)
	}
	return nil
}

func (s *ExecSpeaker) argv(u Utterance) (string, []string, error) {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return "", nil, errors.New("narration command is empty")
	}

	base, _ := u.Lang.Base()
	lang := base.String()

	var sawText bool
	args := make([]string, 0, len(fields))
	for _, f := range fields[1:] {
		if strings.Contains(f, "{text}") {
			sawText = true
		}
		f = strings.ReplaceAll(f, "{lang}", lang)
		f = strings.ReplaceAll(f, "{text}", u.Text)
		args = append(args, f)
	}
	if !sawText {
		args = append(args, u.Text)
	}
	return fields[0], args, nil
}

// MultiSpeaker speaks through each speaker in order and joins their errors.
type MultiSpeaker []Speaker

// Speak calls every speaker, stopping early only when ctx is cancelled.
func (m MultiSpeaker) Speak(ctx context.Context, u Utterance) error {
	var errs []error
	for _, s := range m {
		if err := s.Speak(ctx, u); err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errors.Join(errs...)
}
