// Package session keeps per-browser working state in memory: recent
// translations, the saved vocabulary list and the last source/result pair.
// Nothing here survives a restart.
package session

import (
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// HistoryEntry is one completed translation, as shown in the history panel.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	Output    string `json:"output"`
}

// VocabEntry is one saved term.
type VocabEntry struct {
	Timestamp string `json:"timestamp"`
	Term      string `json:"term"`
	Meaning   string `json:"meaning"`
	Note      string `json:"note,omitempty"`
}

// Session is the state of a single browser session. All methods are safe
// for concurrent use.
type Session struct {
	ID string

	mu           sync.Mutex
	lastSeen     time.Time
	historyLimit int
	history      []HistoryEntry
	vocab        []VocabEntry
	lastSource   string
	lastOutput   string
}

func newSession(id string, historyLimit int) *Session {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Session{
		ID:           id,
		lastSeen:     time.Now(),
		historyLimit: historyLimit,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// RecordTranslation prepends a history entry and remembers the last
// source/output pair. The history is capped; the oldest entries fall off.
func (s *Session) RecordTranslation(summary, source, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	s.lastSource = source
	s.lastOutput = output

	entry := HistoryEntry{
		Timestamp: time.Now().Format(timestampLayout),
		Summary:   summary,
		Source:    source,
		Output:    output,
	}
	s.history = append([]HistoryEntry{entry}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

// History returns the entries newest first.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Last returns the most recent source and output texts.
func (s *Session) Last() (source, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSource, s.lastOutput
}

// AddVocab saves a term. Entries with an empty term are dropped silently,
// matching how the save button behaves with a blank input.
func (s *Session) AddVocab(term, meaning, note string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	s.vocab = append(s.vocab, VocabEntry{
		Timestamp: time.Now().Format(timestampLayout),
		Term:      term,
		Meaning:   strings.TrimSpace(meaning),
		Note:      strings.TrimSpace(note),
	})
	return true
}

// Vocab returns all saved terms in insertion order. When query is non-empty
// only entries whose term or meaning contains it (case-insensitive) are
// returned.
func (s *Session) Vocab(query string) []VocabEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]VocabEntry, 0, len(s.vocab))
	for _, v := range s.vocab {
		if query != "" &&
			!strings.Contains(strings.ToLower(v.Term), query) &&
			!strings.Contains(strings.ToLower(v.Meaning), query) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ClearVocab removes every saved term and reports how many were removed.
func (s *Session) ClearVocab() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.vocab)
	s.vocab = nil
	return n
}
