package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

var ErrCatalogMissing = errors.New("program catalog is missing")

// tfidfBundle is the on-disk layout of the exported content-based artifacts:
// the fitted vectorizer plus the program-by-term matrix, row order aligned
// with the catalog.
type tfidfBundle struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Matrix     [][]float64    `json:"X"`
}

// Store holds all trained artifacts behind a one-time load. Everything is
// immutable after Load succeeds, so concurrent requests read without locking.
type Store struct {
	cfg *config.Config
	log *zap.Logger

	mu     sync.Mutex
	loaded bool

	vectorizer *Vectorizer
	matrix     [][]float64
	cf         *FactorModel
	programs   []models.Program
	byID       map[string]int
}

func NewStore(cfg *config.Config, log *zap.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

// Load reads all artifact files. Idempotent: a second call is a no-op. A
// missing TF-IDF bundle or CF model only degrades capability; a missing
// catalog is fatal because nothing can be returned without it.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	programs, err := readCatalog(s.cfg.ProgramsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrCatalogMissing, s.cfg.ProgramsFile)
		}
		return err
	}
	if len(programs) == 0 {
		return fmt.Errorf("%w: %s has no rows", ErrCatalogMissing, s.cfg.ProgramsFile)
	}

	byID := make(map[string]int, len(programs))
	for i, p := range programs {
		byID[p.ProgramID] = i
	}

	vectorizer, matrix, err := loadTFIDF(s.cfg.TFIDFArtifacts, len(programs))
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("TF-IDF artifacts not found, content-based scoring disabled",
				zap.String("path", s.cfg.TFIDFArtifacts))
		} else {
			return err
		}
	}

	cf, err := loadFactorModel(s.cfg.CFModel)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("CF model not found, collaborative scoring disabled",
				zap.String("path", s.cfg.CFModel))
		} else {
			return err
		}
	}

	s.programs = programs
	s.byID = byID
	s.vectorizer = vectorizer
	s.matrix = matrix
	s.cf = cf
	s.loaded = true

	s.log.Info("artifacts loaded",
		zap.Int("programs", len(programs)),
		zap.Bool("tfidf", s.vectorizer != nil),
		zap.Bool("cf_model", s.cf != nil))

	return nil
}

func loadTFIDF(path string, programCount int) (*Vectorizer, [][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var bundle tfidfBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if len(bundle.IDF) != len(bundle.Vocabulary) {
		return nil, nil, fmt.Errorf("tfidf bundle: %d idf weights for %d vocabulary terms", len(bundle.IDF), len(bundle.Vocabulary))
	}
	// Row order must match catalog order exactly; a silent mismatch would
	// corrupt every similarity score.
	if len(bundle.Matrix) != programCount {
		return nil, nil, fmt.Errorf("tfidf bundle: %d matrix rows for %d catalog programs", len(bundle.Matrix), programCount)
	}
	for i, row := range bundle.Matrix {
		if len(row) != len(bundle.IDF) {
			return nil, nil, fmt.Errorf("tfidf bundle: matrix row %d has %d terms, expected %d", i, len(row), len(bundle.IDF))
		}
	}

	return &Vectorizer{Vocabulary: bundle.Vocabulary, IDF: bundle.IDF}, bundle.Matrix, nil
}

func loadFactorModel(path string) (*FactorModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var model FactorModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := model.validate(); err != nil {
		return nil, err
	}

	return &model, nil
}

// Capability probes, used by the health endpoint.

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) TFIDFAvailable() bool {
	return s.Loaded() && s.vectorizer != nil && s.matrix != nil
}

func (s *Store) CFAvailable() bool {
	return s.Loaded() && s.cf != nil
}

func (s *Store) CatalogAvailable() bool {
	return s.Loaded() && len(s.programs) > 0
}

// Accessors are read-only views of immutable loaded state.

func (s *Store) Vectorizer() *Vectorizer {
	return s.vectorizer
}

func (s *Store) Matrix() [][]float64 {
	return s.matrix
}

func (s *Store) FactorModel() *FactorModel {
	return s.cf
}

func (s *Store) Programs() []models.Program {
	return s.programs
}

// ProgramAt returns the catalog entry at a matrix row index.
func (s *Store) ProgramAt(idx int) (*models.Program, bool) {
	if idx < 0 || idx >= len(s.programs) {
		return nil, false
	}
	return &s.programs[idx], true
}

// ProgramByID looks up full program detail.
func (s *Store) ProgramByID(id string) (*models.Program, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.programs[idx], true
}
