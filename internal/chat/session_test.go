package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"beauty/advisor/internal/domain"
)

type fakeAssistant struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	received [][]domain.Message
}

func (f *fakeAssistant) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.received = append(f.received, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type recorder struct {
	frames []Frame
}

func (r *recorder) emit(f Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) kinds() []string {
	var out []string
	for _, f := range r.frames {
		if len(out) > 0 && out[len(out)-1] == string(f.Kind) {
			continue
		}
		out = append(out, string(f.Kind))
	}
	return out
}

func (r *recorder) last(kind FrameKind) string {
	text := ""
	for _, f := range r.frames {
		if f.Kind == kind {
			text = f.Text
		}
	}
	return text
}

func instant() Typewriter {
	return Typewriter{Instant: true}
}

func TestSession_StartsWithSystemTurn(t *testing.T) {
	s := NewSession("c1", &fakeAssistant{}, instant())
	transcript := s.Transcript()
	if len(transcript) != 1 || transcript[0].Role != domain.RoleSystem || transcript[0].Content != SystemPrompt {
		t.Fatalf("unexpected initial transcript %+v", transcript)
	}
}

func TestSession_SendSuccess(t *testing.T) {
	assistant := &fakeAssistant{reply: "Cleanse, then moisturize."}
	s := NewSession("c1", assistant, Typewriter{})
	rec := &recorder{}

	ex, err := s.Send(context.Background(), "  What first?  ", rec.emit)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !ex.Succeeded() || ex.Reply != "Cleanse, then moisturize." {
		t.Fatalf("unexpected exchange %+v", ex)
	}

	want := "user,thinking,clear_thinking,assistant,done"
	if got := strings.Join(rec.kinds(), ","); got != want {
		t.Fatalf("frames %s want %s", got, want)
	}
	if rec.frames[0].Text != "What first?" {
		t.Fatalf("expected trimmed user text, got %q", rec.frames[0].Text)
	}
	if rec.last(FrameAssistant) != "Cleanse, then moisturize." {
		t.Fatalf("unexpected final reveal %q", rec.last(FrameAssistant))
	}

	transcript := s.Transcript()
	if len(transcript) != 3 || transcript[1].Role != domain.RoleUser || transcript[2].Role != domain.RoleAssistant {
		t.Fatalf("unexpected transcript %+v", transcript)
	}

	if len(assistant.received[0]) != 2 {
		t.Fatalf("call must carry system and user turns, got %d", len(assistant.received[0]))
	}
}

func TestSession_SendFailureKeepsOnlyUserTurn(t *testing.T) {
	assistant := &fakeAssistant{err: errors.New("503")}
	s := NewSession("c1", assistant, Typewriter{DotSteps: 20})
	rec := &recorder{}

	before := len(s.Transcript())
	ex, err := s.Send(context.Background(), "hello", rec.emit)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ex.Succeeded() || ex.Err == nil {
		t.Fatalf("expected failed exchange")
	}
	after := s.Transcript()
	if len(after) != before+1 || after[len(after)-1].Role != domain.RoleUser {
		t.Fatalf("expected only the user turn appended, got %+v", after)
	}

	want := "user,thinking,clear_thinking,typing,assistant,done"
	if got := strings.Join(rec.kinds(), ","); got != want {
		t.Fatalf("frames %s want %s", got, want)
	}
	dots := 0
	for _, f := range rec.frames {
		if f.Kind == FrameTyping {
			dots++
		}
	}
	if dots != 20 {
		t.Fatalf("expected 20 typing frames, got %d", dots)
	}
	if rec.last(FrameAssistant) != ApologyMessage {
		t.Fatalf("expected apology, got %q", rec.last(FrameAssistant))
	}

	// Conversation stays usable
	assistant.err = nil
	assistant.reply = "Back online."
	ex, err = s.Send(context.Background(), "retry", Discard)
	if err != nil || !ex.Succeeded() {
		t.Fatalf("expected recovery, got %+v %v", ex, err)
	}
	if got := len(s.Transcript()); got != before+3 {
		t.Fatalf("expected %d turns, got %d", before+3, got)
	}
	if n := len(assistant.received[1]); n != 4 {
		t.Fatalf("second call should carry both user turns and the system turn, got %d", n)
	}
}

func TestSession_EmptyMessageIsIgnored(t *testing.T) {
	assistant := &fakeAssistant{reply: "x"}
	s := NewSession("c1", assistant, instant())
	rec := &recorder{}

	ex, err := s.Send(context.Background(), "   ", rec.emit)
	if err != nil || !ex.Skipped {
		t.Fatalf("expected skipped exchange, got %+v %v", ex, err)
	}
	if assistant.calls != 0 || len(rec.frames) != 0 || len(s.Transcript()) != 1 {
		t.Fatalf("empty message must not do anything")
	}
}

func TestSession_EmitFailureAborts(t *testing.T) {
	assistant := &fakeAssistant{reply: "x"}
	s := NewSession("c1", assistant, instant())
	gone := errors.New("client went away")

	_, err := s.Send(context.Background(), "hi", func(f Frame) error {
		if f.Kind == FrameThinking {
			return gone
		}
		return nil
	})
	if !errors.Is(err, gone) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if assistant.calls != 0 {
		t.Fatalf("call must not start after the page stopped listening")
	}
}

func TestSession_OverlappingSendsAreSerialized(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var inFlight, maxInFlight int
	var mu sync.Mutex

	assistant := completeFunc(func(ctx context.Context, messages []domain.Message) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		started <- struct{}{}
		<-release
		mu.Lock()
		inFlight--
		mu.Unlock()
		return "ok", nil
	})
	s := NewSession("c1", assistant, instant())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Send(context.Background(), "hi", Discard)
		}()
	}

	<-started
	select {
	case <-started:
		t.Fatalf("second exchange started while the first was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	release <- struct{}{}
	<-started
	release <- struct{}{}
	wg.Wait()

	if maxInFlight != 1 {
		t.Fatalf("expected serialized exchanges, max in flight %d", maxInFlight)
	}
	if got := len(s.Transcript()); got != 5 {
		t.Fatalf("expected 5 turns, got %d", got)
	}
}

type completeFunc func(ctx context.Context, messages []domain.Message) (string, error)

func (f completeFunc) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	return f(ctx, messages)
}
