package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// Handler serves the REST surface: catalog, results and account flows.
type Handler struct {
	catalog *app.CatalogService
	results *app.ResultService
	users   *app.UserService
}

func NewHandler(catalog *app.CatalogService, results *app.ResultService, users *app.UserService) *Handler {
	return &Handler{catalog: catalog, results: results, users: users}
}

// Register wires the REST routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quizzes", h.createQuiz)
	mux.HandleFunc("GET /api/quizzes", h.listQuizzes)
	mux.HandleFunc("GET /api/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("GET /api/results", h.listResults)
	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
}

type errorResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var draft domain.QuizDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if draft.CreatedBy == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "please log in to create a quiz", Redirect: "/login"})
		return
	}
	quiz, err := h.catalog.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	var (
		quizzes []domain.Quiz
		err     error
	)
	switch {
	case r.URL.Query().Has("creator"):
		quizzes, err = h.catalog.ListByCreator(r.Context(), r.URL.Query().Get("creator"))
	default:
		quizzes, err = h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.catalog.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "missing user parameter"})
		return
	}
	results, err := h.results.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Results      []domain.QuizResult `json:"results"`
		AverageScore int                 `json:"averageScore"`
	}{Results: results, AverageScore: app.AverageScorePercent(results)})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// writeError maps domain errors onto status codes. A missing quiz carries a
// redirect hint so clients fall back to the browse view instead of erroring.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error(), Redirect: "/browse"})
	case errors.Is(err, domain.ErrAttemptNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrUserExists):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrAttemptCompleted), errors.Is(err, domain.ErrCurrentUnanswered):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
