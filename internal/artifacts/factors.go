package artifacts

import (
	"fmt"
)

// FactorModel is the SVD-style factorization of the user-program interaction
// matrix, exported from offline training. JSON keys follow the exporter:
// U (n_users x rank), sigma (rank), Vt (rank x n_programs), plus the ordered
// identifier lists the matrices are aligned with.
type FactorModel struct {
	UserFactors    [][]float64 `json:"U"`
	SingularValues []float64   `json:"sigma"`
	ItemFactors    [][]float64 `json:"Vt"`
	UserIDs        []string    `json:"user_ids"`
	ProgramIDs     []string    `json:"course_ids"`

	userIndex map[string]int
	itemIndex map[string]int
}

// validate checks shape consistency once at load so that per-request scoring
// can index without bounds surprises. An absent sigma is treated as identity.
func (m *FactorModel) validate() error {
	if len(m.UserFactors) != len(m.UserIDs) {
		return fmt.Errorf("factor model: %d user factor rows for %d user ids", len(m.UserFactors), len(m.UserIDs))
	}
	if len(m.ItemFactors) == 0 {
		return fmt.Errorf("factor model: empty item factors")
	}

	rank := len(m.ItemFactors)
	for i, row := range m.ItemFactors {
		if len(row) != len(m.ProgramIDs) {
			return fmt.Errorf("factor model: item factor row %d has %d columns for %d program ids", i, len(row), len(m.ProgramIDs))
		}
	}
	for i, row := range m.UserFactors {
		if len(row) != rank {
			return fmt.Errorf("factor model: user factor row %d has rank %d, expected %d", i, len(row), rank)
		}
	}

	if m.SingularValues == nil {
		m.SingularValues = make([]float64, rank)
		for i := range m.SingularValues {
			m.SingularValues[i] = 1
		}
	}
	if len(m.SingularValues) != rank {
		return fmt.Errorf("factor model: %d singular values for rank %d", len(m.SingularValues), rank)
	}

	m.userIndex = make(map[string]int, len(m.UserIDs))
	for i, id := range m.UserIDs {
		m.userIndex[id] = i
	}
	m.itemIndex = make(map[string]int, len(m.ProgramIDs))
	for i, id := range m.ProgramIDs {
		m.itemIndex[id] = i
	}

	return nil
}

// UserIndex resolves an external user identifier to its factor row. Absence
// is an expected branch, not an error.
func (m *FactorModel) UserIndex(userID string) (int, bool) {
	idx, ok := m.userIndex[userID]
	return idx, ok
}

// ItemIndex resolves an external program identifier to its factor column.
func (m *FactorModel) ItemIndex(programID string) (int, bool) {
	idx, ok := m.itemIndex[programID]
	return idx, ok
}

// ItemColumn extracts one program's latent factor vector from Vt.
func (m *FactorModel) ItemColumn(idx int) []float64 {
	col := make([]float64, len(m.ItemFactors))
	for i, row := range m.ItemFactors {
		col[i] = row[idx]
	}
	return col
}

// Predict computes the predicted score for every program from a user factor
// vector: userFactors . diag(sigma) . itemFactors.
func (m *FactorModel) Predict(userFactors []float64) []float64 {
	scores := make([]float64, len(m.ProgramIDs))
	for i, row := range m.ItemFactors {
		if i >= len(userFactors) {
			break
		}
		weighted := userFactors[i] * m.SingularValues[i]
		for j, v := range row {
			scores[j] += weighted * v
		}
	}
	return scores
}
