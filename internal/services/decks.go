package services

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"notes-generator/internal/models"
)

// DeckService stores uploaded presentations on disk and records them in the
// decks table. Stored files get random names, the original name lives in
// the database.
type DeckService struct {
	db        *sql.DB
	uploadDir string
}

func NewDeckService(db *sql.DB, uploadDir string) *DeckService {
	return &DeckService{db: db, uploadDir: uploadDir}
}

// SaveUpload copies the uploaded deck into the upload directory and returns
// the stored path.
func (s *DeckService) SaveUpload(src io.Reader) (string, error) {
	path := filepath.Join(s.uploadDir, uuid.NewString()+".pptx")
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// Record inserts the deck row after a successful extraction.
func (s *DeckService) Record(originalName, storedPath string, slideCount int) (*models.Deck, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO decks (original_name, stored_path, slide_count, uploaded_at) VALUES (?, ?, ?, ?)`,
		originalName, storedPath, slideCount, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert deck: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("deck id: %w", err)
	}
	return &models.Deck{
		ID:           id,
		OriginalName: originalName,
		StoredPath:   storedPath,
		SlideCount:   slideCount,
		UploadedAt:   now,
	}, nil
}
