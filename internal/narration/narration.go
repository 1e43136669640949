// Package narration speaks question prompts and compliments without blocking
// the game loop.
//
// Every request carries the generation token active when it was issued. A new
// question advances the token and cancels the previous question's speech.
// Question results are delivered only while their token is current, while
// compliments are allowed to finish one generation late.
package narration

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/text/language"
)

// Kind distinguishes question prompts from compliments.
type Kind int

const (
	KindQuestion Kind = iota
	KindCompliment
)

func (k Kind) String() string {
	if k == KindCompliment {
		return "compliment"
	}
	return "question"
}

// Utterance is one narration request.
type Utterance struct {
	Text  string
	Lang  language.Tag
	Kind  Kind
	Token uint64
}

// Speaker renders an utterance. Speak must return promptly once ctx is
// cancelled.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
}

// Result reports a finished utterance that was still current.
type Result struct {
	Utterance Utterance
	Err       error
}

const resultBuffer = 16

// Dispatcher runs utterances on a Speaker in the background.
type Dispatcher struct {
	speaker Speaker

	mu       sync.Mutex
	token    uint64
	lang     language.Tag
	question context.CancelFunc
	praise   map[uint64][]context.CancelFunc
	closed   bool

	wg   sync.WaitGroup
	done chan Result
}

// NewDispatcher returns a Dispatcher speaking through s in lang.
func NewDispatcher(s Speaker, lang language.Tag) *Dispatcher {
	return &Dispatcher{
		speaker: s,
		lang:    lang,
		praise:  make(map[uint64][]context.CancelFunc),
		done:    make(chan Result, resultBuffer),
	}
}

// SetLanguage changes the language tag attached to later utterances.
func (d *Dispatcher) SetLanguage(lang language.Tag) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lang = lang
}

// Done delivers results for utterances that were still current when they
// finished. Results are dropped when nobody drains the channel.
func (d *Dispatcher) Done() <-chan Result {
	return d.done
}

// Token returns the current generation.
func (d *Dispatcher) Token() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token
}

// Question starts a new generation and speaks text. In-flight question
// speech and compliments older than the previous generation are cancelled.
func (d *Dispatcher) Question(text string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.token
	}

	d.token++
	d.haltLocked()
	for tok, cancels := range d.praise {
		if tok+1 < d.token {
			for _, c := range cancels {
				c()
			}
			delete(d.praise, tok)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.question = cancel
	d.startLocked(ctx, Utterance{Text: text, Lang: d.lang, Kind: KindQuestion, Token: d.token})
	return d.token
}

// Compliment halts question speech and speaks text in the current
// generation.
func (d *Dispatcher) Compliment(text string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.token
	}

	d.haltLocked()
	ctx, cancel := context.WithCancel(context.Background())
	d.praise[d.token] = append(d.praise[d.token], cancel)
	d.startLocked(ctx, Utterance{Text: text, Lang: d.lang, Kind: KindCompliment, Token: d.token})
	return d.token
}

// Halt stops question speech. Compliments keep playing.
func (d *Dispatcher) Halt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haltLocked()
}

func (d *Dispatcher) haltLocked() {
	if d.question != nil {
		d.question()
		d.question = nil
	}
}

// Close cancels everything in flight and waits for the speaker goroutines.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.haltLocked()
	for tok, cancels := range d.praise {
		for _, c := range cancels {
			c()
		}
		delete(d.praise, tok)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) startLocked(ctx context.Context, u Utterance) {
	if u.Text == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := d.speaker.Speak(ctx, u)
		d.finish(u, err)
	}()
}

func (d *Dispatcher) finish(u Utterance, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.currentLocked(u) || errors.Is(err, context.Canceled) {
		return
	}
	select {
	case d.done <- Result{Utterance: u, Err: err}:
	default:
	}
}

// currentLocked applies the staleness rules: questions must match the
// current generation, compliments may trail it by one.
func (d *Dispatcher) currentLocked(u Utterance) bool {
	if u.Kind == KindCompliment {
		return u.Token+1 >= d.token
	}
	return u.Token == d.token
}
