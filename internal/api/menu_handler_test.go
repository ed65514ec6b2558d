package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/domain"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/service"

	"github.com/gin-gonic/gin"
)

// stubMenuService implements service.MenuService with canned behavior.
type stubMenuService struct {
	saveErr error
	savedID string
	doc     *domain.MenuDocument
	getErr  error
	history []domain.MenuHistoryEntry
}

func (s *stubMenuService) Save(_ context.Context, id string, _ *domain.MenuDocument) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.savedID = id
	return "mem://bucket/menus/" + id + ".json", nil
}

func (s *stubMenuService) GetByID(_ context.Context, _ string) (*domain.MenuDocument, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.doc, nil
}

func (s *stubMenuService) ListHistory(_ context.Context) []domain.MenuHistoryEntry {
	return s.history
}

// stubSearchService records the arguments it was called with.
type stubSearchService struct {
	query    string
	duration int
	results  []domain.SearchResult
}

func (s *stubSearchService) Search(_ context.Context, query string, targetDuration int) []domain.SearchResult {
	s.query = query
	s.duration = targetDuration
	return s.results
}

func newTestRouter(menus *stubMenuService, search *stubSearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, menus, search)
	return router
}

func TestSaveMenu(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		saveErr    error
		wantStatus int
		wantOwnID  string
	}{
		{
			name:       "id assigned by server",
			body:       `{"menu":{"title":"Sprint Set","totalTime":30}}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "client supplied id kept",
			body:       `{"id":"m1","menu":{"title":"Sprint Set","totalTime":30}}`,
			wantStatus: http.StatusCreated,
			wantOwnID:  "m1",
		},
		{
			name:       "malformed body",
			body:       `{"menu":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "save failure",
			body:       `{"id":"m1","menu":{"title":"x"}}`,
			saveErr:    errors.New("pointer store down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menus := &stubMenuService{saveErr: tt.saveErr}
			router := newTestRouter(menus, &stubSearchService{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/menus", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var resp SaveMenuResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response decode error = %v", err)
			}
			if resp.ID == "" || resp.URL == "" {
				t.Errorf("response = %+v, want id and url set", resp)
			}
			if tt.wantOwnID != "" && resp.ID != tt.wantOwnID {
				t.Errorf("id = %q, want %q", resp.ID, tt.wantOwnID)
			}
			if menus.savedID != resp.ID {
				t.Errorf("service saw id %q, response carries %q", menus.savedID, resp.ID)
			}
		})
	}
}

func TestGetMenu(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		menus := &stubMenuService{doc: &domain.MenuDocument{Title: "Sprint Set"}}
		router := newTestRouter(menus, &stubSearchService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/menus/m1", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var doc domain.MenuDocument
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("response decode error = %v", err)
		}
		if doc.Title != "Sprint Set" {
			t.Errorf("title = %q, want Sprint Set", doc.Title)
		}
	})

	t.Run("not found", func(t *testing.T) {
		menus := &stubMenuService{getErr: service.ErrMenuNotFound}
		router := newTestRouter(menus, &stubSearchService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/menus/zz", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestListHistory(t *testing.T) {
	menus := &stubMenuService{history: []domain.MenuHistoryEntry{
		{ID: "m2", CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "m1", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	router := newTestRouter(menus, &stubSearchService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/menus", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var history []domain.MenuHistoryEntry
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("response decode error = %v", err)
	}
	if len(history) != 2 || history[0].ID != "m2" {
		t.Errorf("history = %+v, want m2 first", history)
	}
}

func TestSearchMenus(t *testing.T) {
	t.Run("passes query and duration through", func(t *testing.T) {
		search := &stubSearchService{results: []domain.SearchResult{
			{Menu: &domain.MenuDocument{Title: "Sprint Set"}, Score: 7},
		}}
		router := newTestRouter(&stubMenuService{}, search)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=A+sprint&duration=30", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if search.query != "A sprint" || search.duration != 30 {
			t.Errorf("service saw (%q, %d), want (A sprint, 30)", search.query, search.duration)
		}
		var results []domain.SearchResult
		if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
			t.Fatalf("response decode error = %v", err)
		}
		if len(results) != 1 || results[0].Score != 7 {
			t.Errorf("results = %+v, want one score-7 result", results)
		}
	})

	t.Run("missing duration rejected", func(t *testing.T) {
		router := newTestRouter(&stubMenuService{}, &stubSearchService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=A", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
