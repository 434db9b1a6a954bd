package chat

import (
	"context"
	"strings"
	"sync"

	"beauty/advisor/internal/client"
	"beauty/advisor/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Exchange is the outcome of one send. Err is the completion failure, if
// any, which has already been shown to the user as the apology message.
type Exchange struct {
	Reply   string
	Err     error
	Skipped bool // No call was made
}

func (e *Exchange) Succeeded() bool {
	return e != nil && !e.Skipped && e.Err == nil
}

// Session is one page load's conversation with the assistant
type Session struct {
	id         string
	client     client.AssistantClient
	typewriter Typewriter

	// Held for a whole exchange so overlapping submissions queue up
	exchange sync.Mutex

	mu         sync.Mutex
	transcript []domain.Message
}

func NewSession(id string, assistant client.AssistantClient, typewriter Typewriter) *Session {
	return &Session{
		id:         id,
		client:     assistant,
		typewriter: typewriter,
		transcript: []domain.Message{{Role: domain.RoleSystem, Content: SystemPrompt}},
	}
}

func (s *Session) ID() string {
	return s.id
}

// Transcript returns a copy of the conversation so far
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.transcript...)
}

// Send records text as a user turn and runs one exchange with the assistant.
// The returned error is non-nil only when emit failed.
func (s *Session) Send(ctx context.Context, text string, emit Emit) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Exchange{Skipped: true}, nil
	}

	s.exchange.Lock()
	defer s.exchange.Unlock()

	return s.exchangeLocked(ctx, text, true, emit)
}

func (s *Session) exchangeLocked(ctx context.Context, userText string, echo bool, emit Emit) (*Exchange, error) {
	messages := s.appendTurn(domain.RoleUser, userText)

	if echo {
		if err := emit(Frame{Kind: FrameUser, Text: userText}); err != nil {
			return nil, err
		}
	}
	if err := emit(Frame{Kind: FrameThinking, Text: ThinkingMessage}); err != nil {
		return nil, err
	}

	reply, callErr := s.client.Complete(ctx, messages)

	if err := emit(Frame{Kind: FrameClearThinking}); err != nil {
		return nil, err
	}

	if callErr != nil {
		log.Errorf("❌ Assistant call failed for chat %s: %v", s.id, callErr)
		if err := s.typewriter.Dots(ctx, emit); err != nil {
			return nil, err
		}
		if err := s.typewriter.Type(ctx, ApologyMessage, emit); err != nil {
			return nil, err
		}
		if err := emit(Frame{Kind: FrameDone}); err != nil {
			return nil, err
		}
		return &Exchange{Err: callErr}, nil
	}

	s.appendTurn(domain.RoleAssistant, reply)
	if err := s.typewriter.Type(ctx, reply, emit); err != nil {
		return nil, err
	}
	if err := emit(Frame{Kind: FrameDone}); err != nil {
		return nil, err
	}
	return &Exchange{Reply: reply}, nil
}

// appendTurn records a turn and returns a snapshot of the transcript
func (s *Session) appendTurn(role domain.Role, content string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, domain.Message{Role: role, Content: content})
	return append([]domain.Message(nil), s.transcript...)
}
