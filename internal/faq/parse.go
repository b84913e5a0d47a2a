package faq

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"

	"github.com/xaenox/support-bot/internal/models"
)

var errNoHeader = errors.New("missing question/answer header")

// parseSource reads a FAQ CSV. The primary parse is strict: well-formed CSV
// with a header row naming question and answer columns. When it fails
// (malformed quoting, inconsistent columns, unexpected header) the source
// is re-read with a line-oriented parse that rejoins trailing columns into
// the answer, tolerating unescaped delimiters.
func parseSource(path string) ([]models.FAQEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := parseStrict(data)
	if err == nil {
		return entries, nil
	}
	return parseLenient(data), nil
}

func parseStrict(data []byte) ([]models.FAQEntry, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errNoHeader
	}
	qCol, aCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "question":
			qCol = i
		case "answer":
			aCol = i
		}
	}
	if qCol < 0 || aCol < 0 {
		return nil, errNoHeader
	}
	entries := make([]models.FAQEntry, 0, len(records)-1)
	for _, row := range records[1:] {
		entries = append(entries, models.FAQEntry{
			Question: row[qCol],
			Answer:   row[aCol],
		})
	}
	return entries, nil
}

// parseLenient parses line by line: the first column is the question and
// everything after it is rejoined with single spaces as the answer. Lines
// that defeat even lax CSV parsing are split on raw commas. The header line
// is skipped, empty lines are dropped.
func parseLenient(data []byte) []models.FAQEntry {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var entries []models.FAQEntry
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			first = false
			continue
		}
		row := splitRow(line)
		if len(row) == 0 {
			continue
		}
		answer := ""
		if len(row) > 1 {
			answer = strings.Join(row[1:], " ")
		}
		entries = append(entries, models.FAQEntry{Question: row[0], Answer: answer})
	}
	return entries
}

func splitRow(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	row, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return row
}
