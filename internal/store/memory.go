package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

var (
	// ErrNotFound is returned when no probe results are available.
	ErrNotFound = errors.New("no probe results")
)

// ProbeResult is one scheduled check of the weather provider.
type ProbeResult struct {
	Timestamp   time.Time                  `json:"timestamp"`
	Location    string                     `json:"location"`
	OK          bool                       `json:"ok"`
	Temperature *weather.TemperatureResult `json:"temperature,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

// MemoryStore is a concurrency-safe, time-ordered probe history.
type MemoryStore struct {
	mu      sync.RWMutex
	results []ProbeResult

	// retention configuration
	maxHistory int           // max number of results kept
	maxAge     time.Duration // optional max age for results

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a result and enforces retention.
func (s *MemoryStore) Save(result ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)

	if s.maxHistory > 0 && len(s.results) > s.maxHistory {
		over := len(s.results) - s.maxHistory
		s.results = append([]ProbeResult(nil), s.results[over:]...)
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.results); i++ {
			if !s.results[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.results = append([]ProbeResult(nil), s.results[i:]...)
		}
	}
}

// Latest returns the most recent result.
func (s *MemoryStore) Latest() (ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.results) == 0 {
		return ProbeResult{}, ErrNotFound
	}
	return s.results[len(s.results)-1], nil
}

// Range returns all results between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []ProbeResult
	for _, r := range s.results {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
