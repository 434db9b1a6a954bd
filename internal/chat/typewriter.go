package chat

import (
	"context"
	"time"
)

var typingDots = []string{"", ".", "..", "..."}

// Typewriter reveals text one character at a time. Delays are
// presentation timing only; zero delays never sleep.
type Typewriter struct {
	CharDelay time.Duration
	DotDelay  time.Duration
	DotSteps  int
	Instant   bool // Emit only the final frame, no dots

	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultTypewriter() Typewriter {
	return Typewriter{
		CharDelay: 15 * time.Millisecond,
		DotDelay:  100 * time.Millisecond,
		DotSteps:  20,
	}
}

// Type emits FrameAssistant frames carrying a growing prefix of text
func (t Typewriter) Type(ctx context.Context, text string, emit Emit) error {
	if t.Instant || text == "" {
		return emit(Frame{Kind: FrameAssistant, Text: text})
	}

	runes := []rune(text)
	for i := range runes {
		if err := emit(Frame{Kind: FrameAssistant, Text: string(runes[:i+1])}); err != nil {
			return err
		}
		if err := t.sleep(ctx, t.CharDelay); err != nil {
			return err
		}
	}
	return nil
}

// Dots emits the looping "", ".", "..", "..." indicator
func (t Typewriter) Dots(ctx context.Context, emit Emit) error {
	if t.Instant {
		return nil
	}
	for i := 0; i < t.DotSteps; i++ {
		if err := emit(Frame{Kind: FrameTyping, Text: typingDots[i%len(typingDots)]}); err != nil {
			return err
		}
		if err := t.sleep(ctx, t.DotDelay); err != nil {
			return err
		}
	}
	return nil
}

func (t Typewriter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if t.Sleep != nil {
		return t.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
