package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizhub/internal/app"
	"quizhub/internal/domain"
	"quizhub/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewCollectionStore()
	catalog := app.NewCatalogService(memory.NewCatalogCache(store, time.Minute))
	results := app.NewResultService(store)
	users := app.NewUserService(store)

	mux := http.NewServeMux()
	NewHandler(catalog, results, users).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCreateListAndFetchQuiz(t *testing.T) {
	server := newTestServer(t)

	draft := domain.QuizDraft{
		Title:             "Capitals",
		Description:       "European capitals",
		CreatedBy:         "u1",
		CreatedByUsername: "Alice",
		Questions: []domain.QuestionDraft{
			{QuestionText: "Capital of France?", Options: []string{"London", "Paris"}, CorrectAnswerIndex: 1},
		},
	}

	resp := postJSON(t, server.URL+"/api/quizzes", draft)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[domain.Quiz](t, resp)
	if created.ID == "" || created.Title != "Capitals" {
		t.Fatalf("unexpected quiz: %+v", created)
	}

	listResp, err := http.Get(server.URL + "/api/quizzes")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	quizzes := decodeJSON[[]domain.Quiz](t, listResp)
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(quizzes))
	}

	searchResp, err := http.Get(server.URL + "/api/quizzes?q=EUROPEAN")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	matches := decodeJSON[[]domain.Quiz](t, searchResp)
	if len(matches) != 1 {
		t.Fatalf("expected case-insensitive match, got %d", len(matches))
	}

	getResp, err := http.Get(server.URL + "/api/quizzes/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	fetched := decodeJSON[domain.Quiz](t, getResp)
	if fetched.ID != created.ID {
		t.Fatalf("expected %s, got %+v", created.ID, fetched)
	}
}

func TestMissingQuizRedirectsToBrowse(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/quizzes/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	payload := decodeJSON[errorResponse](t, resp)
	if payload.Redirect != "/browse" {
		t.Fatalf("expected browse redirect hint, got %+v", payload)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	server := newTestServer(t)

	anonymous := domain.QuizDraft{Title: "x", Description: "y"}
	resp := postJSON(t, server.URL+"/api/quizzes", anonymous)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a user, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	invalid := domain.QuizDraft{
		Title:       "   ",
		Description: "y",
		CreatedBy:   "u1",
		Questions: []domain.QuestionDraft{
			{QuestionText: "Pick", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
		},
	}
	resp = postJSON(t, server.URL+"/api/quizzes", invalid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/register", registerRequest{Username: "Alice", Email: "alice@example.com", Password: "secret"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	user := decodeJSON[domain.User](t, resp)
	if user.ID == "" {
		t.Fatalf("expected user id, got %+v", user)
	}

	resp = postJSON(t, server.URL+"/api/register", registerRequest{Username: "Other", Email: "alice@example.com", Password: "x"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/login", loginRequest{Email: "alice@example.com", Password: "secret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/login", loginRequest{Email: "alice@example.com", Password: "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListResultsByUser(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/results?user=u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	payload := decodeJSON[struct {
		Results      []domain.QuizResult `json:"results"`
		AverageScore int                 `json:"averageScore"`
	}](t, resp)
	if len(payload.Results) != 0 || payload.AverageScore != 0 {
		t.Fatalf("expected empty results, got %+v", payload)
	}

	resp, err = http.Get(server.URL + "/api/results")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without user parameter, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
