package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"beauty/advisor/internal/domain"
)

type routineProduct struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RoutinePrompt serializes the selection into the routine instruction
func RoutinePrompt(selected []domain.Product) (string, error) {
	products := make([]routineProduct, 0, len(selected))
	for _, p := range selected {
		products = append(products, routineProduct{
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Description: p.Description,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return "", fmt.Errorf("failed to encode selected products: %w", err)
	}

	return fmt.Sprintf(routinePromptFormat, bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// GenerateRoutine asks the assistant for a routine built from selected.
// An empty selection only shows a notice and makes no call.
func (s *Session) GenerateRoutine(ctx context.Context, selected []domain.Product, emit Emit) (*Exchange, error) {
	s.exchange.Lock()
	defer s.exchange.Unlock()

	if len(selected) == 0 {
		if err := emit(Frame{Kind: FrameNotice, Text: EmptySelectionMessage}); err != nil {
			return nil, err
		}
		if err := emit(Frame{Kind: FrameDone}); err != nil {
			return nil, err
		}
		return &Exchange{Skipped: true}, nil
	}

	prompt, err := RoutinePrompt(selected)
	if err != nil {
		return nil, err
	}

	if err := emit(Frame{Kind: FrameNotice, Text: GeneratingRoutineNotice}); err != nil {
		return nil, err
	}
	return s.exchangeLocked(ctx, prompt, false, emit)
}
