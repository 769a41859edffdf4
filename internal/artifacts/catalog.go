package artifacts

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

// readCatalog loads the program catalog CSV. Column order is free; the header
// decides. Only program_id is mandatory per row.
func readCatalog(path string) ([]models.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols["program_id"]; !ok {
		return nil, fmt.Errorf("catalog %s has no program_id column", path)
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	programs := make([]models.Program, 0, len(records)-1)
	for _, row := range records[1:] {
		p := models.Program{
			ProgramID:   field(row, "program_id"),
			Name:        field(row, "name"),
			Description: field(row, "description"),
			TagsText:    field(row, "tags_text"),
			URL:         field(row, "url"),
			University:  field(row, "university"),
			Difficulty:  field(row, "difficulty"),
		}
		if p.ProgramID == "" {
			continue
		}
		if r := field(row, "rating"); r != "" {
			p.Rating, _ = strconv.ParseFloat(r, 64)
		}

		// Combined text field, same construction as the training pipeline.
		p.Text = strings.ToLower(p.Name + " " + p.Description + " " + p.TagsText)

		programs = append(programs, p)
	}

	return programs, nil
}
