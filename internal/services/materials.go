package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"notes-generator/internal/models"
)

// ErrMaterialNotFound is returned when a material id has no row.
var ErrMaterialNotFound = errors.New("material not found")

// MaterialService tracks generated study materials for history listing and
// re-download.
type MaterialService struct {
	db *sql.DB
}

func NewMaterialService(db *sql.DB) *MaterialService {
	return &MaterialService{db: db}
}

// Insert records a freshly rendered material and fills in its id and
// creation time.
func (s *MaterialService) Insert(m *models.Material) error {
	m.CreatedAt = time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO materials (deck_id, material_type, difficulty, weak_spots, file_name, stored_path, page_count, word_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.DeckID, m.MaterialType, m.Difficulty, m.WeakSpots, m.FileName, m.StoredPath, m.PageCount, m.WordCount, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("material id: %w", err)
	}
	return nil
}

const materialColumns = `m.id, m.deck_id, m.material_type, m.difficulty, m.weak_spots,
	m.file_name, m.stored_path, m.page_count, m.word_count, m.created_at, d.original_name`

// List returns all materials, newest first, with the source deck name when
// the deck still exists.
func (s *MaterialService) List() ([]models.Material, error) {
	rows, err := s.db.Query(
		`SELECT ` + materialColumns + `
		 FROM materials m LEFT JOIN decks d ON d.id = m.deck_id
		 ORDER BY m.created_at DESC, m.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get loads one material by id.
func (s *MaterialService) Get(id int64) (*models.Material, error) {
	row := s.db.QueryRow(
		`SELECT `+materialColumns+`
		 FROM materials m LEFT JOIN decks d ON d.id = m.deck_id
		 WHERE m.id = ?`, id,
	)
	m, err := scanMaterial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (models.Material, error) {
	var m models.Material
	err := row.Scan(&m.ID, &m.DeckID, &m.MaterialType, &m.Difficulty, &m.WeakSpots,
		&m.FileName, &m.StoredPath, &m.PageCount, &m.WordCount, &m.CreatedAt, &m.DeckName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("scan material: %w", err)
	}
	m.WeakSpots = strings.TrimSpace(m.WeakSpots)
	return m, nil
}
