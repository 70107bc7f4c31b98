package database

import (
	"github.com/pkg/errors"

	"github.com/example/vocabdiary/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// GetAll returns all words ordered by English text
func (r *WordRepository) GetAll() ([]models.Word, error) {
	var words []models.Word
	err := DB.Select(&words, "SELECT * FROM words ORDER BY text_english")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get words")
	}
	return words, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word, "SELECT * FROM words WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}

// GetByText returns a word by its English text
func (r *WordRepository) GetByText(text string) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word, "SELECT * FROM words WHERE text_english = $1", text)
	if err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}

// Create inserts a new word
func (r *WordRepository) Create(word *models.Word) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO words (text_english, text_portuguese, synonyms, complexity)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			word.TextEnglish,
			word.TextPortuguese,
			word.Synonyms,
			word.Complexity,
		).Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
	}

	// SQLite path without RETURNING
	result, err := DB.Exec(`
		INSERT INTO words (text_english, text_portuguese, synonyms, complexity)
		VALUES ($1, $2, $3, $4)
	`, word.TextEnglish, word.TextPortuguese, word.Synonyms, word.Complexity)
	if err != nil {
		return errors.Wrap(err, "failed to create word")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get last insert ID")
	}
	word.ID = int(id)
	return DB.QueryRow("SELECT created_at, updated_at FROM words WHERE id = $1", word.ID).
		Scan(&word.CreatedAt, &word.UpdatedAt)
}

// GetOrCreateByText returns the word with the given English text, creating it
// when absent. The boolean reports whether a new row was created.
func (r *WordRepository) GetOrCreateByText(word *models.Word) (bool, error) {
	existing, err := r.GetByText(word.TextEnglish)
	if err == nil {
		*word = *existing
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err := r.Create(word); err != nil {
		return false, err
	}
	return true, nil
}

// RandomUnseen returns a uniformly random word the user has no status for yet.
func (r *WordRepository) RandomUnseen(userID int64) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word, `
		SELECT * FROM words
		WHERE id NOT IN (SELECT word_id FROM word_statuses WHERE user_id = $1)
		ORDER BY RANDOM()
		LIMIT 1
	`, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}
