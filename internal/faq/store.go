// Package faq loads question/answer pairs from CSV sources and serves
// similarity lookups over them.
package faq

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/xaenox/support-bot/internal/matcher"
	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

// DefaultSources are tried in priority order when no explicit source is
// configured: a derived set produced by the extractor first, then the
// bundled sample set.
var DefaultSources = []string{"data/derived_faqs.csv", "data/sample_faqs.csv"}

// Store holds the currently loaded FAQ set and its matcher. Load builds a
// complete new snapshot and publishes it atomically, so readers racing with
// a reload never observe a half-built index.
type Store struct {
	useIndex bool
	logger   *zap.Logger
	snap     atomic.Pointer[snapshot]
}

type snapshot struct {
	entries []models.FAQEntry
	matcher matcher.Matcher
	sources []string
}

// NewStore creates an empty store. useIndex=false forces the lexical
// matching strategy even when an index could be built.
func NewStore(useIndex bool, logger *zap.Logger) *Store {
	s := &Store{useIndex: useIndex, logger: logger}
	s.snap.Store(&snapshot{matcher: matcher.NewLexicalMatcher(nil)})
	return s
}

// Load reads a single FAQ source and replaces the current snapshot with its
// contents. A missing path is the caller's error.
func (s *Store) Load(path string) error {
	entries, err := parseSource(path)
	if err != nil {
		return fmt.Errorf("loading faq source %s: %w", path, err)
	}
	s.publish(entries, []string{path})
	return nil
}

// LoadAll loads each existing path in order, skipping missing entries
// silently. Each successful load replaces the snapshot, so the last
// existing source wins.
func (s *Store) LoadAll(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			s.logger.Debug("skipping missing faq source", zap.String("path", path))
			continue
		}
		if err := s.Load(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadDefaults scans DefaultSources and loads the first one that exists.
// Finding none leaves the store empty, which is not an error.
func (s *Store) LoadDefaults() error {
	for _, path := range DefaultSources {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return s.Load(path)
	}
	s.logger.Warn("no default faq source found, store is empty")
	return nil
}

// Retrieve returns the best-matching answer for the query together with a
// confidence score, via whichever matching strategy the current snapshot
// carries.
func (s *Store) Retrieve(query string) (string, float64, bool) {
	return s.snap.Load().matcher.Retrieve(query)
}

// Entries returns the currently loaded entries in load order. The returned
// slice belongs to the published snapshot and must not be mutated.
func (s *Store) Entries() []models.FAQEntry {
	return s.snap.Load().entries
}

// Sources returns the paths backing the current snapshot.
func (s *Store) Sources() []string {
	return s.snap.Load().sources
}

func (s *Store) publish(entries []models.FAQEntry, sources []string) {
	m := matcher.Build(entries, s.useIndex)
	s.snap.Store(&snapshot{entries: entries, matcher: m, sources: sources})
	if _, indexed := m.(*matcher.IndexedMatcher); indexed {
		s.logger.Info("faq snapshot published",
			zap.Int("entries", len(entries)),
			zap.Strings("sources", sources))
	} else {
		s.logger.Info("faq snapshot published without index, using lexical matching",
			zap.Int("entries", len(entries)),
			zap.Strings("sources", sources))
	}
}
