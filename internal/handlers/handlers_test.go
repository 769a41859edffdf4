package handlers_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/handlers"
	"github.com/jasseurchibani/student-program-recommender/internal/repository"
	"github.com/jasseurchibani/student-program-recommender/internal/routes"
	"github.com/jasseurchibani/student-program-recommender/internal/services"
)

const handlerTestCatalog = `program_id,name,description,tags_text
p1,Software Engineering,Build modern software products,"technology, ux design"
p2,Culinary Arts,Cooking fundamentals and kitchen practice,cooking
p3,Applied Mathematics,Statistics and calculus for analysts,"mathematics, statistics"
`

func writeArtifacts(t *testing.T, cfg *config.Config, withTFIDF, withCF bool) {
	t.Helper()

	if err := os.WriteFile(cfg.ProgramsFile, []byte(handlerTestCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	h := math.Sqrt2 / 2
	if withTFIDF {
		bundle := map[string]interface{}{
			"vocabulary": map[string]int{"technology": 0, "design": 1, "cooking": 2, "mathematics": 3},
			"idf":        []float64{1, 1, 1, 1},
			"X": [][]float64{
				{h, h, 0, 0},
				{0, 0, 1, 0},
				{0, 0, 0, 1},
			},
		}
		data, _ := json.Marshal(bundle)
		if err := os.WriteFile(cfg.TFIDFArtifacts, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if withCF {
		model := map[string]interface{}{
			"U":          [][]float64{{1, 0}, {0, 1}},
			"sigma":      []float64{1, 1},
			"Vt":         [][]float64{{0.9, 0.1, 0.5}, {0.1, 0.8, 0.2}},
			"user_ids":   []string{"u1", "u2"},
			"course_ids": []string{"p1", "p2", "p3"},
		}
		data, _ := json.Marshal(model)
		if err := os.WriteFile(cfg.CFModel, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestRouter(t *testing.T, withTFIDF, withCF bool) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Env:            "test",
		TFIDFArtifacts: filepath.Join(dir, "tfidf_artifacts.json"),
		CFModel:        filepath.Join(dir, "svd_model.json"),
		ProgramsFile:   filepath.Join(dir, "programs.csv"),
		FeedbackLog:    filepath.Join(dir, "feedback_log.csv"),
		UIDir:          filepath.Join(dir, "no-ui"),

		DefaultK:            5,
		ContentWeight:       0.6,
		CollaborativeWeight: 0.4,
		RelevanceFloor:      0.01,
	}
	writeArtifacts(t, cfg, withTFIDF, withCF)

	log := zap.NewNop()
	store := artifacts.NewStore(cfg, log)
	if err := store.Load(); err != nil {
		t.Fatalf("store load: %v", err)
	}

	content := services.NewContentBasedService(store, cfg)
	collaborative := services.NewCollaborativeService(store, content, cfg)
	hybrid := services.NewHybridService(store, content, collaborative, cfg)
	engine := services.NewRecommendationEngine(store, content, collaborative, hybrid, cfg, log)

	router := routes.SetupRoutes(
		handlers.NewRecommendationHandler(engine, cfg, log),
		handlers.NewFeedbackHandler(repository.NewCSVFeedbackRepository(cfg.FeedbackLog), log),
		handlers.NewProgramHandler(store),
		store,
		cfg,
		log,
	)
	return router, cfg
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		UserID          string `json:"user_id"`
		Approach        string `json:"approach"`
		Count           int    `json:"count"`
		Recommendations []struct {
			ProgramID   string  `json:"program_id"`
			ProgramName string  `json:"program_name"`
			Score       float64 `json:"score"`
			Explanation string  `json:"explanation"`
		} `json:"recommendations"`
	} `json:"data"`
}

func TestRecommendHybrid(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/recommend?k=2&approach=hybrid",
		`{"interests":"technology, design","user_id":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Approach != "hybrid" {
		t.Fatalf("expected hybrid approach, got %s", resp.Data.Approach)
	}
	if resp.Data.Count == 0 || len(resp.Data.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if resp.Data.Recommendations[0].ProgramID != "p1" {
		t.Fatalf("expected p1 first, got %s", resp.Data.Recommendations[0].ProgramID)
	}
	if resp.Data.Recommendations[0].Explanation == "" {
		t.Fatal("expected explanation")
	}
}

func TestRecommendUnknownApproachRejected(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/recommend?approach=magic",
		`{"interests":"technology"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecommendMissingInterestsRejected(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/recommend", `{"user_id":"u1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecommendGradeValidation(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/recommend",
		`{"interests":"technology","math_grade":140}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range grade, got %d", w.Code)
	}
}

func TestRecommendCollaborativeUnknownUserFallsBack(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/recommend?approach=collaborative",
		`{"interests":"technology","user_id":"stranger"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected transparent fallback, got %d: %s", w.Code, w.Body.String())
	}

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Count == 0 {
		t.Fatal("expected fallback recommendations")
	}
}

func TestRecommendContentAssetsMissing(t *testing.T) {
	router, _ := newTestRouter(t, false, true)

	w := doJSON(t, router, http.MethodPost, "/recommend?approach=content",
		`{"interests":"technology"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "tfidf_artifacts") {
		t.Fatal("internal paths must not leak to the caller")
	}
}

func TestSubmitFeedback(t *testing.T) {
	router, cfg := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/feedback",
		`{"user_id":"u1","program_id":"p1","feedback_type":"clicked"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data, err := os.ReadFile(cfg.FeedbackLog)
	if err != nil {
		t.Fatalf("feedback log not written: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "timestamp,user_id,program_id,feedback_type,session_id") {
		t.Fatalf("missing header: %q", content)
	}
	if !strings.Contains(content, "u1,p1,clicked,") {
		t.Fatalf("feedback row not appended: %q", content)
	}
}

func TestSubmitFeedbackInvalidTypeRejected(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodPost, "/feedback",
		`{"program_id":"p1","feedback_type":"loved"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetAllPrograms(t *testing.T) {
	router, _ := newTestRouter(t, true, true)

	w := doJSON(t, router, http.MethodGet, "/programs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Count != 3 {
		t.Fatalf("expected 3 programs, got %d", resp.Data.Count)
	}
}

func TestHealthReportsCapabilities(t *testing.T) {
	router, _ := newTestRouter(t, true, false)

	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["models_loaded"] != true || resp["tfidf_available"] != true {
		t.Fatalf("unexpected health payload: %v", resp)
	}
	if resp["cf_model_available"] != false {
		t.Fatalf("cf model should be unavailable: %v", resp)
	}
}
