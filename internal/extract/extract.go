// Package extract derives FAQ pairs from raw support-conversation logs.
// A customer message ending in "?" followed within a few rows by an agent
// reply is treated as one question/answer pair; pairs are ranked by how
// often they recur.
package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

// lookahead is how many rows after a question are scanned for the agent's
// reply.
const lookahead = 5

var (
	senderColumns = []string{"sender", "from", "role"}
	textColumns   = []string{"message", "text", "utterance"}

	customerMarkers = []string{"user", "customer", "client"}
	agentMarkers    = []string{"agent", "support", "staff"}
)

type pair struct {
	question string
	answer   string
}

// Extractor turns conversation CSVs into ranked FAQ sets.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Run extracts pairs from infile and writes the top-N ranked set to
// outfile. Returns how many pairs were written.
func (e *Extractor) Run(infile, outfile string, top int) (int, error) {
	pairs, err := e.extractPairs(infile)
	if err != nil {
		return 0, err
	}
	ranked := rank(pairs, top)
	if err := writeFAQs(outfile, ranked); err != nil {
		return 0, err
	}
	e.logger.Info("faq pairs extracted",
		zap.Int("pairs", len(ranked)),
		zap.String("out", outfile))
	return len(ranked), nil
}

func (e *Extractor) extractPairs(path string) ([]pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening conversation file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading conversation file: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	senderCol, textCol := detectColumns(records[0])
	if textCol < 0 {
		return nil, fmt.Errorf("no message column found in %s", path)
	}

	rows := records[1:]
	var pairs []pair
	for i := 0; i < len(rows)-1; i++ {
		sender := senderAt(rows[i], senderCol)
		text := textAt(rows[i], textCol)
		if text == "" || !strings.HasSuffix(text, "?") {
			continue
		}
		if sender != "" && !containsAny(sender, customerMarkers) {
			continue
		}
		for j := i + 1; j < len(rows) && j <= i+lookahead; j++ {
			if !containsAny(senderAt(rows[j], senderCol), agentMarkers) {
				continue
			}
			if answer := textAt(rows[j], textCol); answer != "" {
				pairs = append(pairs, pair{question: text, answer: answer})
			}
			break
		}
	}
	return pairs, nil
}

func detectColumns(header []string) (senderCol, textCol int) {
	senderCol, textCol = -1, -1
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(h)
	}
	for _, name := range senderColumns {
		if idx := indexOf(lower, name); idx >= 0 {
			senderCol = idx
			break
		}
	}
	for _, name := range textColumns {
		if idx := indexOf(lower, name); idx >= 0 {
			textCol = idx
			break
		}
	}
	return senderCol, textCol
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}

func senderAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.ToLower(row[col])
}

// textAt rejoins everything from the text column onward, tolerating rows
// split apart by unquoted commas in the message body.
func textAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(strings.Join(row[col:], " "))
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// rank orders pairs by frequency, first-seen order breaking ties, and
// keeps the top N.
func rank(pairs []pair, top int) []models.FAQEntry {
	counts := make(map[pair]int)
	firstSeen := make(map[pair]int)
	var order []pair
	for _, p := range pairs {
		if _, ok := counts[p]; !ok {
			firstSeen[p] = len(order)
			order = append(order, p)
		}
		counts[p]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})
	if top > 0 && len(order) > top {
		order = order[:top]
	}
	entries := make([]models.FAQEntry, len(order))
	for i, p := range order {
		entries[i] = models.FAQEntry{Question: p.question, Answer: p.answer}
	}
	return entries
}

func writeFAQs(path string, entries []models.FAQEntry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating faq file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"question", "answer"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Question, e.Answer}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
