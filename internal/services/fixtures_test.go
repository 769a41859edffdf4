package services

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
)

const testCatalog = `program_id,name,description,tags_text,url,university,difficulty,rating
p1,Software Engineering,Build modern software products,"technology, ux design",https://example.com/se,Tech University,Beginner,4.6
p2,Culinary Arts,Cooking fundamentals and kitchen practice,cooking,,,,
p3,Applied Mathematics,Statistics and calculus for analysts,"mathematics, statistics",,,,
`

// Vocabulary columns: technology=0, design=1, cooking=2, mathematics=3.
// Matrix rows are L2-normalized, aligned with the catalog above.
func testTFIDFBundle() map[string]interface{} {
	h := math.Sqrt2 / 2
	return map[string]interface{}{
		"vocabulary": map[string]int{"technology": 0, "design": 1, "cooking": 2, "mathematics": 3},
		"idf":        []float64{1, 1, 1, 1},
		"X": [][]float64{
			{h, h, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
	}
}

// Rank-2 factorization over the same three programs. u1 strongly prefers p1,
// u2 prefers p2, u3 has an all-zero factor row.
func testFactorModel() map[string]interface{} {
	return map[string]interface{}{
		"U":          [][]float64{{1, 0}, {0, 1}, {0, 0}},
		"sigma":      []float64{1, 1},
		"Vt":         [][]float64{{0.9, 0.1, 0.5}, {0.1, 0.8, 0.2}},
		"user_ids":   []string{"u1", "u2", "u3"},
		"course_ids": []string{"p1", "p2", "p3"},
	}
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestStore(t *testing.T, withTFIDF, withCF bool) (*artifacts.Store, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		TFIDFArtifacts: filepath.Join(dir, "tfidf_artifacts.json"),
		CFModel:        filepath.Join(dir, "svd_model.json"),
		ProgramsFile:   filepath.Join(dir, "programs.csv"),

		DefaultK:            5,
		ContentWeight:       0.6,
		CollaborativeWeight: 0.4,
		RelevanceFloor:      0.01,
	}

	if err := os.WriteFile(cfg.ProgramsFile, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if withTFIDF {
		writeJSON(t, cfg.TFIDFArtifacts, testTFIDFBundle())
	}
	if withCF {
		writeJSON(t, cfg.CFModel, testFactorModel())
	}

	store := artifacts.NewStore(cfg, zap.NewNop())
	if err := store.Load(); err != nil {
		t.Fatalf("store load: %v", err)
	}

	return store, cfg
}
