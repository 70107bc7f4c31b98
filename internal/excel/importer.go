// Package excel imports the word catalog from spreadsheet files. The expected
// layout matches the curated vocabulary sheet: column A English word, column B
// Portuguese translation, column C complexity score, first row a header.
package excel

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/pkg/models"
)

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Existing       int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file
func ImportWords(path string) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return importFromCSV(path)
	}
	return importFromExcel(path)
}

func importFromExcel(path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read rows")
	}

	result := &ImportResult{}
	wordRepo := database.NewWordRepository()
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		importRow(row, i+1, wordRepo, result)
	}
	return result, nil
}

func importFromCSV(path string) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	wordRepo := database.NewWordRepository()
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV")
		}
		rowNum++
		if rowNum == 1 {
			continue // header
		}
		importRow(row, rowNum, wordRepo, result)
	}
	return result, nil
}

func importRow(row []string, rowNum int, wordRepo *database.WordRepository, result *ImportResult) {
	result.TotalProcessed++

	if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
		result.Errors = append(result.Errors,
			"row "+strconv.Itoa(rowNum)+": missing word or translation")
		return
	}

	english := strings.TrimSpace(row[0])
	word := &models.Word{
		TextEnglish:    english,
		TextPortuguese: strings.TrimSpace(row[1]),
		Complexity:     complexityFrom(row, english),
	}

	created, err := wordRepo.GetOrCreateByText(word)
	if err != nil {
		result.Errors = append(result.Errors,
			"row "+strconv.Itoa(rowNum)+": "+err.Error())
		return
	}
	if created {
		result.Created++
	} else {
		result.Existing++
	}
}

// complexityFrom reads column C, falling back to the word length, which is
// what the score approximates anyway.
func complexityFrom(row []string, english string) int {
	if len(row) > 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil && n >= 0 {
			return n
		}
	}
	return len([]rune(english))
}
