// Package server provides the HTTP server and handlers.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adityamenon/formulaace/internal/archive"
	"github.com/adityamenon/formulaace/internal/bookmarks"
	"github.com/adityamenon/formulaace/internal/llm"
	"github.com/adityamenon/formulaace/internal/model"
	"github.com/adityamenon/formulaace/internal/repository"
)

// askTimeout bounds a single gateway round trip, including retries.
const askTimeout = 90 * time.Second

var validate = validator.New()

// Server is the main HTTP server.
type Server struct {
	content *repository.Content
	chat    *repository.Chat
	todos   *repository.Todo

	// completer answers chat messages; asker answers one-shot questions.
	// Either may be nil when the provider is not configured.
	completer llm.Completer
	asker     llm.Completer

	bookmarks *bookmarks.Service
	router    chi.Router
	logger    *zap.Logger
}

// Options carries the collaborators the server exposes.
type Options struct {
	Content   *repository.Content
	Chat      *repository.Chat
	Todos     *repository.Todo
	Completer llm.Completer
	Asker     llm.Completer
	Bookmarks *bookmarks.Service
	Logger    *zap.Logger
}

// New creates a new server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		content:   opts.Content,
		chat:      opts.Chat,
		todos:     opts.Todos,
		completer: opts.Completer,
		asker:     opts.Asker,
		bookmarks: opts.Bookmarks,
		logger:    opts.Logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/chapters", s.handleListChapters)
		r.Post("/chapters", s.handleAddChapter)
		r.Put("/chapters/{chapterID}", s.handleUpdateChapter)
		r.Delete("/chapters/{chapterID}", s.handleDeleteChapter)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Get("/threads", s.handleListThreads)
		r.Post("/threads", s.handleCreateThread)
		r.Delete("/threads/{threadID}", s.handleDeleteThread)
		r.Post("/threads/{threadID}/messages", s.handleAppendMessage)
		r.Post("/threads/{threadID}/ask", s.handleThreadAsk)
		r.Get("/active-thread", s.handleGetActiveThread)
		r.Put("/active-thread", s.handleSetActiveThread)

		r.Get("/todos", s.handleListTodos)
		r.Post("/todos", s.handleAddTodo)
		r.Post("/todos/{todoID}/toggle", s.handleToggleTodo)
		r.Delete("/todos/{todoID}", s.handleDeleteTodo)

		r.Post("/chat-completion", s.handleChatCompletion)
		r.Post("/ask", s.handleAsk)

		r.Get("/bookmarks", s.handleListBookmarks)
		r.Post("/bookmarks/toggle", s.handleToggleBookmark)
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the server.
func (s *Server) Start(addr string) error {
	s.logger.Info("server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

// --- Chapter Handlers ---

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.content.All()
	if err != nil {
		s.internalError(w, "load chapters", err)
		return
	}
	s.respond(w, http.StatusOK, chapters)
}

func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var ch model.Chapter
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if ch.ID == "" {
		ch.ID = fmt.Sprintf("%s-%s", ch.Subject, uuid.NewString())
	}
	if err := s.content.Add(ch); err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, ch)
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	var ch model.Chapter
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if id := chi.URLParam(r, "chapterID"); ch.ID != id {
		s.respondError(w, http.StatusBadRequest, "id mismatch",
			fmt.Sprintf("body id %q does not match path id %q", ch.ID, id))
		return
	}
	if err := s.content.Update(ch); err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusOK, ch)
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	if err := s.content.Delete(chi.URLParam(r, "chapterID")); err != nil {
		s.internalError(w, "delete chapter", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.content.All()
	if err != nil {
		s.internalError(w, "load chapters", err)
		return
	}
	data, err := archive.Export("Formula Ace Catalog", chapters)
	if err != nil {
		s.internalError(w, "export catalog", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=formula-ace-catalog.json")
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	entries, err := archive.Parse(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid archive", err.Error())
		return
	}

	existing, err := s.content.All()
	if err != nil {
		s.internalError(w, "load chapters", err)
		return
	}
	known := make(map[string]bool, len(existing))
	for _, ch := range existing {
		known[ch.ID] = true
	}

	// Merge by id: known chapters are replaced, new ones appended.
	added, updated := 0, 0
	for _, ch := range entries {
		if known[ch.ID] {
			if err := s.content.Update(ch); err != nil {
				s.repoError(w, err)
				return
			}
			updated++
			continue
		}
		if err := s.content.Add(ch); err != nil {
			s.repoError(w, err)
			return
		}
		added++
	}
	s.respond(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"added":   added,
		"updated": updated,
		"total":   len(entries),
	})
}

// --- Thread Handlers ---

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.chat.All()
	if err != nil {
		s.internalError(w, "load threads", err)
		return
	}
	s.respond(w, http.StatusOK, threads)
}

type createThreadRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	id, err := s.chat.CreateThread(req.Title, req.Message)
	if err != nil {
		s.internalError(w, "create thread", err)
		return
	}
	s.respond(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.DeleteThread(chi.URLParam(r, "threadID")); err != nil {
		s.internalError(w, "delete thread", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

type appendMessageRequest struct {
	Content string `json:"content" validate:"required"`
	IsUser  bool   `json:"isUser"`
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req appendMessageRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	msg, err := s.chat.AppendMessage(chi.URLParam(r, "threadID"), req.Content, req.IsUser)
	if err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, msg)
}

type threadAskRequest struct {
	Message string `json:"message" validate:"required"`
}

// handleThreadAsk appends the user's message, asks the gateway for a
// reply, and appends the answer as an assistant message. The user's
// message is persisted before the gateway is called and is never rolled
// back: a gateway failure leaves the thread with the question intact.
func (s *Server) handleThreadAsk(w http.ResponseWriter, r *http.Request) {
	if s.completer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "chat completion is not configured", "")
		return
	}
	var req threadAskRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	threadID := chi.URLParam(r, "threadID")

	// History is captured before the new message so the question itself
	// is not duplicated into the context window.
	history, err := s.threadHistory(threadID)
	if err != nil {
		s.repoError(w, err)
		return
	}

	userMsg, err := s.chat.AppendMessage(threadID, req.Message, true)
	if err != nil {
		s.repoError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), askTimeout)
	defer cancel()
	answer, err := s.completer.Complete(ctx, req.Message, history)
	if err != nil {
		s.logger.Warn("chat completion failed",
			zap.String("thread_id", threadID), zap.Error(err))
		s.respondError(w, http.StatusBadGateway,
			"failed to fetch a response", err.Error())
		return
	}

	assistantMsg, err := s.chat.AppendMessage(threadID, answer, false)
	if err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"user":      userMsg,
		"assistant": assistantMsg,
	})
}

// threadHistory maps a thread's messages into gateway roles.
func (s *Server) threadHistory(threadID string) ([]llm.Message, error) {
	threads, err := s.chat.All()
	if err != nil {
		return nil, err
	}
	for _, t := range threads {
		if t.ID != threadID {
			continue
		}
		history := make([]llm.Message, 0, len(t.Messages))
		for _, m := range t.Messages {
			role := llm.RoleAssistant
			if m.IsUser {
				role = llm.RoleUser
			}
			history = append(history, llm.Message{Role: role, Content: m.Content})
		}
		return history, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Server) handleGetActiveThread(w http.ResponseWriter, r *http.Request) {
	id, err := s.chat.ActiveThreadID()
	if err != nil {
		s.internalError(w, "load active thread", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"id": id})
}

type setActiveThreadRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSetActiveThread(w http.ResponseWriter, r *http.Request) {
	var req setActiveThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := s.chat.SetActiveThreadID(req.ID); err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"id": req.ID})
}

// --- Todo Handlers ---

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	var (
		todos []model.TodoTask
		err   error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		todos, err = s.todos.ForDate(date)
	} else {
		todos, err = s.todos.All()
	}
	if err != nil {
		s.internalError(w, "load todos", err)
		return
	}
	if todos == nil {
		todos = []model.TodoTask{}
	}
	s.respond(w, http.StatusOK, todos)
}

type addTodoRequest struct {
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
	Date      string `json:"date" validate:"required"`
}

func (s *Server) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	task, err := s.todos.Add(req.Text, req.Completed, req.Date)
	if err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, task)
}

func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.ToggleCompletion(chi.URLParam(r, "todoID")); err != nil {
		s.repoError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.Delete(chi.URLParam(r, "todoID")); err != nil {
		s.internalError(w, "delete todo", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Gateway Handlers ---

type chatCompletionRequest struct {
	Message string        `json:"message" validate:"required"`
	Context []llm.Message `json:"context"`
}

// handleChatCompletion is the stateless forwarder: message plus optional
// rolling context in, answer text out. Nothing is persisted here.
func (s *Server) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	if s.completer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "chat completion is not configured", "")
		return
	}
	var req chatCompletionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), askTimeout)
	defer cancel()
	answer, err := s.completer.Complete(ctx, req.Message, req.Context)
	if err != nil {
		s.logger.Warn("chat completion failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "failed to fetch a response", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"response": answer})
}

type askRequest struct {
	Question string `json:"question" validate:"required"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.asker == nil {
		s.respondError(w, http.StatusServiceUnavailable, "ask is not configured", "")
		return
	}
	var req askRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), askTimeout)
	defer cancel()
	answer, err := s.asker.Complete(ctx, req.Question, nil)
	if err != nil {
		s.logger.Warn("ask failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "failed to fetch a response", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"answer": answer})
}

// --- Bookmark Handlers ---

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	if s.bookmarks == nil {
		s.respondError(w, http.StatusServiceUnavailable, "bookmarks are not configured", "")
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required", "")
		return
	}
	ids, err := s.bookmarks.List(r.Context(), userID)
	if err != nil {
		s.logger.Warn("list bookmarks failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "failed to load bookmarks", err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.respond(w, http.StatusOK, map[string]any{"item_ids": ids})
}

type toggleBookmarkRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	ItemID   string `json:"item_id" validate:"required"`
	ItemType string `json:"item_type" validate:"required,oneof=chapter formula"`
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	if s.bookmarks == nil {
		s.respondError(w, http.StatusServiceUnavailable, "bookmarks are not configured", "")
		return
	}
	var req toggleBookmarkRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	bookmarked, err := s.bookmarks.Toggle(r.Context(), req.UserID, req.ItemID, bookmarks.ItemType(req.ItemType))
	if err != nil {
		s.logger.Warn("toggle bookmark failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "failed to toggle bookmark", err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

// --- Helpers ---

// decodeAndValidate decodes the JSON body into dst and checks its
// validate tags, writing the error response itself on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request", err.Error())
		return false
	}
	return true
}

// repoError maps repository and validation failures to HTTP statuses.
func (s *Server) repoError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &verr):
		s.respondError(w, http.StatusUnprocessableEntity, "invalid record", verr.Error())
	default:
		s.internalError(w, "repository", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal error", err.Error())
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg, details string) {
	s.respond(w, status, map[string]string{"error": msg, "details": details})
}
