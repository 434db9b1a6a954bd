package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"beauty/advisor/internal/chat"
	"beauty/advisor/internal/domain"
	"beauty/advisor/internal/selection"
	"beauty/advisor/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type server struct {
	svc *service.Service
}

// NewRouter wires the page, the fragment API and the chat streams
func NewRouter(svc *service.Service, logger logrus.FieldLogger) http.Handler {
	s := &server{svc: svc}

	r := mux.NewRouter()
	r.HandleFunc("/", s.homeHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", s.productsHandler).Methods(http.MethodGet)
	api.HandleFunc("/actions", s.actionHandler).Methods(http.MethodPost)
	api.HandleFunc("/chat/message", s.chatMessageHandler).Methods(http.MethodPost)
	api.HandleFunc("/chat/routine", s.chatRoutineHandler).Methods(http.MethodPost)

	var handler http.Handler = r
	handler = ensureVisitorID(handler)
	handler = &logHandler{log: logger, next: handler}
	return handler
}

type fragmentsResponse struct {
	Grid     template.HTML `json:"grid"`
	Selected template.HTML `json:"selected"`
	Open     []string      `json:"open"`
}

type actionRequest struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Category string   `json:"category"`
	Q        string   `json:"q"`
	Open     []string `json:"open"`
}

type chatRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) homeHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLog(r)
	filter := domain.Filter{
		Category: domain.Category(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("q"),
	}

	page, err := s.svc.Page(r.Context(), visitorID(r), filter)
	if err != nil {
		log.WithField("error", err).Error("failed to render page")
		http.Error(w, "Failed to load products. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *server) productsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := service.View{
		Filter: domain.Filter{Category: domain.Category(q.Get("category")), Search: q.Get("q")},
		Open:   q["open"],
	}

	result, err := s.svc.Products(r.Context(), visitorID(r), view)
	if err != nil {
		requestLog(r).WithField("error", err).Error("failed to render products")
		WriteAPIError(w, http.StatusInternalServerError, APIError{
			Code:    "CATALOG_UNAVAILABLE",
			Message: "Failed to load products.",
		})
		return
	}
	writeJSON(w, http.StatusOK, toFragmentsResponse(result))
}

func (s *server) actionHandler(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, APIError{
			Code:    "INVALID_JSON",
			Message: "Request body must be a JSON action.",
		})
		return
	}

	action, err := selection.ParseAction(req.Type, req.Name, req.Value)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, APIError{
			Code:    "UNKNOWN_ACTION",
			Message: err.Error(),
			Hint:    "Use toggle, remove, clear, toggle_description, set_category or set_search.",
		})
		return
	}

	view := service.View{
		Filter: domain.Filter{Category: domain.Category(req.Category), Search: req.Q},
		Open:   req.Open,
	}
	result, err := s.svc.Dispatch(r.Context(), visitorID(r), view, action)
	if err != nil {
		requestLog(r).WithField("error", err).Error("failed to apply action")
		WriteAPIError(w, http.StatusInternalServerError, APIError{
			Code:    "CATALOG_UNAVAILABLE",
			Message: "Failed to load products.",
		})
		return
	}

	requestLog(r).WithFields(logrus.Fields{
		"action":   action.ActionType(),
		"selected": len(result.State.Selected),
	}).Debug("action applied")
	writeJSON(w, http.StatusOK, toFragmentsResponse(result))
}

func (s *server) chatMessageHandler(w http.ResponseWriter, r *http.Request) {
	s.streamChat(w, r, func(ctx context.Context, req chatRequest, emit chat.Emit) error {
		return s.svc.SendMessage(ctx, req.ChatID, req.Message, emit)
	})
}

func (s *server) chatRoutineHandler(w http.ResponseWriter, r *http.Request) {
	visitor := visitorID(r)
	s.streamChat(w, r, func(ctx context.Context, req chatRequest, emit chat.Emit) error {
		return s.svc.GenerateRoutine(ctx, visitor, req.ChatID, emit)
	})
}

func (s *server) streamChat(w http.ResponseWriter, r *http.Request, run func(context.Context, chatRequest, chat.Emit) error) {
	log := requestLog(r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ChatID) == "" {
		WriteAPIError(w, http.StatusBadRequest, APIError{
			Code:    "INVALID_JSON",
			Message: "Request body must be JSON with a chatId.",
		})
		return
	}

	stream, ok := newFrameStream(w)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, APIError{
			Code:    "STREAM_UNSUPPORTED",
			Message: "Streaming is not supported by this server.",
		})
		return
	}

	err := run(r.Context(), req, stream.Emit)
	if err == nil {
		return
	}
	if stream.Started() {
		// Headers are gone; the page stops reading when the stream ends
		log.WithField("error", err).Warn("chat stream ended early")
		return
	}

	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		WriteAPIError(w, http.StatusNotFound, APIError{
			Code:    "CHAT_NOT_FOUND",
			Message: "Chat session not found or expired.",
			Hint:    "Reload the page to start a new chat.",
		})
	default:
		log.WithField("error", err).Error("chat request failed")
		WriteAPIError(w, http.StatusInternalServerError, APIError{
			Code:    "CHAT_FAILED",
			Message: "Chat request failed.",
		})
	}
}

func toFragmentsResponse(result *service.Result) fragmentsResponse {
	return fragmentsResponse{
		Grid:     result.Fragments.Grid,
		Selected: result.Fragments.Selected,
		Open:     result.Open(),
	}
}
