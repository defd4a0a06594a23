package services

import (
  "sync"
  "time"
)

// QuotaCounter tracks hosted-model usage against per-minute and per-day
// windows. It is injected into the LLM client rather than living as a
// package-level singleton so callers own its reset lifecycle.
type QuotaCounter interface {
  Allow(now time.Time) bool
  Record(now time.Time)
  Stats(now time.Time) QuotaStats
  Reset()
}

type QuotaStats struct {
  RequestsPerMinute  int `json:"requests_per_minute"`
  RequestsPerDay     int `json:"requests_per_day"`
  UsedLastMinute     int `json:"requests_last_minute"`
  UsedToday          int `json:"daily_requests_used"`
  RemainingMinute    int `json:"requests_per_minute_remaining"`
  RemainingToday     int `json:"daily_requests_remaining"`
}

type quotaCounter struct {
  mu sync.Mutex

  perMinute int
  perDay    int

  minuteTimes []time.Time
  dayCount    int
  dayStart    time.Time
}

func NewQuotaCounter(perMinute, perDay int) QuotaCounter {
  return &quotaCounter{perMinute: perMinute, perDay: perDay}
}

func (q *quotaCounter) rollover(now time.Time) {
  if q.dayStart.IsZero() || now.YearDay() != q.dayStart.YearDay() || now.Year() != q.dayStart.Year() {
    q.dayStart = now
    q.dayCount = 0
  }
  cutoff := now.Add(-time.Minute)
  kept := q.minuteTimes[:0]
  for _, t := range q.minuteTimes {
    if t.After(cutoff) {
      kept = append(kept, t)
    }
  }
  q.minuteTimes = kept
}

func (q *quotaCounter) Allow(now time.Time) bool {
  q.mu.Lock()
  defer q.mu.Unlock()
  q.rollover(now)
  if q.perDay > 0 && q.dayCount >= q.perDay {
    return false
  }
  if q.perMinute > 0 && len(q.minuteTimes) >= q.perMinute {
    return false
  }
  return true
}

func (q *quotaCounter) Record(now time.Time) {
  q.mu.Lock()
  defer q.mu.Unlock()
  q.rollover(now)
  q.minuteTimes = append(q.minuteTimes, now)
  q.dayCount++
}

func (q *quotaCounter) Stats(now time.Time) QuotaStats {
  q.mu.Lock()
  defer q.mu.Unlock()
  q.rollover(now)
  remMin := q.perMinute - len(q.minuteTimes)
  if remMin < 0 {
    remMin = 0
  }
  remDay := q.perDay - q.dayCount
  if remDay < 0 {
    remDay = 0
  }
  return QuotaStats{
    RequestsPerMinute: q.perMinute,
    RequestsPerDay:    q.perDay,
    UsedLastMinute:    len(q.minuteTimes),
    UsedToday:         q.dayCount,
    RemainingMinute:   remMin,
    RemainingToday:    remDay,
  }
}

func (q *quotaCounter) Reset() {
  q.mu.Lock()
  defer q.mu.Unlock()
  q.minuteTimes = nil
  q.dayCount = 0
  q.dayStart = time.Time{}
}
