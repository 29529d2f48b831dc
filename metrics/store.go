// Package metrics provides the Store organism for in-memory stage metrics.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Store is a thread-safe in-memory store of pipeline stage timings.
// It keeps a circular buffer of recent stage records plus per-stage
// aggregations, and produces a RunSummary for logging at shutdown.
//
// Usage:
//
//	store := NewStore(DefaultStoreConfig(), time.Now())
//	done := store.StartStage(StageCollect)
//	...
//	done(StageStatusSuccess, len(posts), nil)
//	summary := store.Summary()
type Store struct {
	mu sync.RWMutex

	history []StageRecord
	cap     int
	head    int
	size    int

	totalRuns   int64
	totalErrors int64
	byStage     map[string]*stageStats

	startTime time.Time
}

type stageStats struct {
	runs          int64
	successes     int64
	errors        int64
	items         int64
	totalDuration time.Duration
}

// StoreConfig configures the Store behavior.
type StoreConfig struct {
	// HistoryCapacity is the max number of stage records to retain
	HistoryCapacity int
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{HistoryCapacity: 100}
}

// NewStore creates a Store. The startTime is used to calculate uptime.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = 100
	}
	return &Store{
		history:   make([]StageRecord, capacity),
		cap:       capacity,
		byStage:   make(map[string]*stageStats),
		startTime: startTime,
	}
}

// Record logs a completed stage execution.
func (s *Store) Record(record StageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[s.head] = record
	s.head = (s.head + 1) % s.cap
	if s.size < s.cap {
		s.size++
	}

	s.totalRuns++
	if record.Status == StageStatusError {
		s.totalErrors++
	}

	stats, ok := s.byStage[record.Stage]
	if !ok {
		stats = &stageStats{}
		s.byStage[record.Stage] = stats
	}
	stats.runs++
	stats.items += int64(record.Items)
	stats.totalDuration += record.Duration
	switch record.Status {
	case StageStatusSuccess:
		stats.successes++
	case StageStatusError:
		stats.errors++
	}
}

// StartStage begins timing a stage and returns a completion callback.
// The callback records status, item count, and the elapsed duration;
// err may be nil.
func (s *Store) StartStage(stage string) func(status string, items int, err error) {
	start := time.Now()
	return func(status string, items int, err error) {
		record := StageRecord{
			Stage:     stage,
			Status:    status,
			StartTime: start,
			Duration:  time.Since(start),
			Items:     items,
		}
		if err != nil {
			record.ErrorMsg = err.Error()
		}
		s.Record(record)
	}
}

// RecentRecords returns up to limit records, newest first.
func (s *Store) RecentRecords(limit int) []StageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.size {
		limit = s.size
	}
	records := make([]StageRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (s.head - 1 - i + s.cap*2) % s.cap
		records = append(records, s.history[idx])
	}
	return records
}

// Summary produces the whole-run rollup, stages sorted by name.
func (s *Store) Summary() RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stages := make([]StageSummary, 0, len(s.byStage))
	for name, stats := range s.byStage {
		summary := StageSummary{
			Stage:         name,
			Runs:          stats.runs,
			Successes:     stats.successes,
			Errors:        stats.errors,
			Items:         stats.items,
			TotalDuration: stats.totalDuration,
		}
		if stats.runs > 0 {
			summary.AvgDuration = stats.totalDuration / time.Duration(stats.runs)
		}
		stages = append(stages, summary)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Stage < stages[j].Stage })

	return RunSummary{
		StartTime:  s.startTime,
		Uptime:     time.Since(s.startTime),
		TotalRuns:  s.totalRuns,
		TotalError: s.totalErrors,
		Stages:     stages,
	}
}
