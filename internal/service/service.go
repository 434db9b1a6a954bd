package service

import (
	"context"
	"fmt"
	"time"

	"beauty/advisor/internal/catalog"
	"beauty/advisor/internal/chat"
	"beauty/advisor/internal/domain"
	"beauty/advisor/internal/domain/event"
	"beauty/advisor/internal/queue"
	"beauty/advisor/internal/render"
	"beauty/advisor/internal/repository"
	"beauty/advisor/internal/selection"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	ExchangeKindMessage = "message"
	ExchangeKindRoutine = "routine"
)

type Service struct {
	store     *catalog.Store
	chats     *chat.Manager
	publisher queue.Publisher
	routines  repository.RoutineRepository
	visitors  *visitorLocks
	now       func() time.Time
}

func NewService(
	store *catalog.Store,
	chats *chat.Manager,
	publisher queue.Publisher,
	routines repository.RoutineRepository,
) *Service {
	return &Service{
		store:     store,
		chats:     chats,
		publisher: publisher,
		routines:  routines,
		visitors:  newVisitorLocks(),
		now:       time.Now,
	}
}

// View is the transient page state the browser sends back with each request
type View struct {
	Filter domain.Filter
	Open   []string // Expanded product descriptions
}

// Result is what the page swaps in after a request
type Result struct {
	State     selection.State
	Fragments render.Fragments
}

func (r *Result) Open() []string {
	return r.State.ExpandedNames()
}

func (s *Service) NewChat() *chat.Session {
	return s.chats.Create()
}

// Page loads the catalog, restores the visitor's selection and renders the
// full document with a fresh chat session
func (s *Service) Page(ctx context.Context, visitorID string, filter domain.Filter) ([]byte, error) {
	selected, err := s.store.RestoreSelection(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	products, err := s.store.Products(ctx) // Refreshed by the restore
	if err != nil {
		return nil, err
	}

	result, err := renderState(selection.State{Catalog: products, Filter: filter, Selected: selected})
	if err != nil {
		return nil, err
	}

	session := s.NewChat()
	log.Infof("📄 Rendering page for visitor %s (chat %s, %d selected)", visitorID, session.ID(), len(selected))

	return render.Page(render.PageData{
		ChatID:     session.ID(),
		Filter:     filter,
		Categories: render.CategoryOptions(filter.Category),
		Fragments:  result.Fragments,
	})
}

// Products renders the grid and selected list for the given view
func (s *Service) Products(ctx context.Context, visitorID string, view View) (*Result, error) {
	st, err := s.state(ctx, visitorID, view)
	if err != nil {
		return nil, err
	}
	return renderState(st)
}

// Dispatch applies one action. A changed selection is persisted before the
// result is rendered. Actions for the same visitor are applied one at a time.
func (s *Service) Dispatch(ctx context.Context, visitorID string, view View, action selection.Action) (*Result, error) {
	// Concurrent actions from one visitor must each see the previous write
	unlock := s.visitors.Lock(visitorID)
	defer unlock()

	st, err := s.state(ctx, visitorID, view)
	if err != nil {
		return nil, err
	}

	next, changed := selection.Reduce(st, action)
	if changed {
		s.store.PersistSelection(ctx, visitorID, next.Selected)
		s.publisher.Publish(ctx, selectionChanged(visitorID, action, next.Selected))
	}

	return renderState(next)
}

// SendMessage runs one chat exchange, streaming frames through emit
func (s *Service) SendMessage(ctx context.Context, chatID, text string, emit chat.Emit) error {
	session, err := s.chats.Get(chatID)
	if err != nil {
		return err
	}

	exchange, err := session.Send(ctx, text, emit)
	if err != nil {
		return err
	}
	if !exchange.Skipped {
		s.publisher.Publish(ctx, exchangeEvent(chatID, ExchangeKindMessage, exchange))
	}
	return nil
}

// GenerateRoutine asks for a routine built from the visitor's persisted
// selection and archives a successful reply
func (s *Service) GenerateRoutine(ctx context.Context, visitorID, chatID string, emit chat.Emit) error {
	session, err := s.chats.Get(chatID)
	if err != nil {
		return err
	}

	_, selected, err := s.store.CurrentSelection(ctx, visitorID)
	if err != nil {
		return err
	}

	exchange, err := session.GenerateRoutine(ctx, selected, emit)
	if err != nil {
		return err
	}
	if exchange.Skipped {
		return nil
	}

	s.publisher.Publish(ctx, exchangeEvent(chatID, ExchangeKindRoutine, exchange))

	if exchange.Succeeded() {
		routine := &domain.Routine{
			ID:        uuid.New(),
			VisitorID: visitorID,
			Products:  domain.ProductNames(selected),
			Content:   exchange.Reply,
			CreatedAt: s.now().UTC(),
		}
		if err := s.routines.SaveRoutine(ctx, routine); err != nil {
			log.Errorf("❌ Failed to archive routine for visitor %s: %v", visitorID, err)
		} else {
			log.Infof("✅ Archived routine %s with %d products", routine.ID, len(routine.Products))
		}
	}
	return nil
}

func (s *Service) state(ctx context.Context, visitorID string, view View) (selection.State, error) {
	products, selected, err := s.store.CurrentSelection(ctx, visitorID)
	if err != nil {
		return selection.State{}, err
	}

	expanded := make(map[string]bool, len(view.Open))
	for _, name := range view.Open {
		expanded[name] = true
	}

	return selection.State{
		Catalog:  products,
		Filter:   view.Filter,
		Selected: selected,
		Expanded: expanded,
	}, nil
}

func renderState(st selection.State) (*Result, error) {
	fragments, err := render.Render(st)
	if err != nil {
		return nil, fmt.Errorf("failed to render state: %w", err)
	}
	return &Result{State: st, Fragments: fragments}, nil
}

func selectionChanged(visitorID string, action selection.Action, selected []domain.Product) *event.SelectionChangedEvent {
	e := &event.SelectionChangedEvent{
		VisitorID: visitorID,
		Action:    action.ActionType(),
		Names:     domain.ProductNames(selected),
	}
	switch a := action.(type) {
	case selection.Toggle:
		e.Product = a.Name
	case selection.Remove:
		e.Product = a.Name
	}
	return e
}

func exchangeEvent(chatID, kind string, exchange *chat.Exchange) *event.ChatExchangeEvent {
	e := &event.ChatExchangeEvent{
		ChatID:    chatID,
		Kind:      kind,
		Succeeded: exchange.Succeeded(),
	}
	if exchange.Err != nil {
		e.Error = exchange.Err.Error()
	}
	return e
}
