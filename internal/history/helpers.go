package history

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

//go:embed schema.sql
var schemaFS embed.FS

// applySchema applies the SQLite schema to the database and sets pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// chunk represents a single change in a text diff.
type chunk struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// computeTextDiffJSON diffs two page-text captures and returns the changes as
// a JSON string. Equal spans are dropped; only added/removed chunks are kept.
func computeTextDiffJSON(base, head string) (string, error) {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(base, head, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]chunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, chunk{Type: chunkType, Content: d.Text})
		}
	}

	if len(chunks) == 0 {
		return "", nil
	}

	data, err := json.Marshal(struct {
		Chunks []chunk `json:"chunks"`
	}{Chunks: chunks})
	if err != nil {
		return "", fmt.Errorf("failed to marshal diff: %w", err)
	}
	return string(data), nil
}
