package services

import (
	"testing"
	"time"
)

func TestQuotaMinuteWindow(t *testing.T) {
	q := NewQuotaCounter(3, 100)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if !q.Allow(now) {
			t.Fatalf("request %d should be allowed", i)
		}
		q.Record(now)
	}
	if q.Allow(now) {
		t.Fatal("fourth request within the minute should be denied")
	}

	// The window slides: 61 seconds later everything drains.
	later := now.Add(61 * time.Second)
	if !q.Allow(later) {
		t.Fatal("request after the window should be allowed")
	}
}

func TestQuotaDailyLimitAndRollover(t *testing.T) {
	q := NewQuotaCounter(1000, 2)
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	q.Record(now)
	q.Record(now.Add(2 * time.Minute)) // still same-day bucket until rollover check

	if q.Allow(now.Add(3 * time.Minute)) {
		// Recording at 00:01 crossed midnight, so the day reset.
		st := q.Stats(now.Add(3 * time.Minute))
		if st.UsedToday >= 2 {
			t.Fatalf("daily limit not enforced: used=%d", st.UsedToday)
		}
	}

	fresh := NewQuotaCounter(1000, 2)
	day := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	fresh.Record(day)
	fresh.Record(day.Add(5 * time.Minute))
	if fresh.Allow(day.Add(10 * time.Minute)) {
		t.Fatal("third request of the day should be denied")
	}
	nextDay := day.Add(24 * time.Hour)
	if !fresh.Allow(nextDay) {
		t.Fatal("request on the next day should be allowed")
	}
}

func TestQuotaStatsAndReset(t *testing.T) {
	q := NewQuotaCounter(15, 1500)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	q.Record(now)
	q.Record(now.Add(time.Second))

	st := q.Stats(now.Add(2 * time.Second))
	if st.UsedLastMinute != 2 {
		t.Fatalf("UsedLastMinute=%d, want 2", st.UsedLastMinute)
	}
	if st.UsedToday != 2 {
		t.Fatalf("UsedToday=%d, want 2", st.UsedToday)
	}
	if st.RemainingMinute != 13 {
		t.Fatalf("RemainingMinute=%d, want 13", st.RemainingMinute)
	}
	if st.RemainingToday != 1498 {
		t.Fatalf("RemainingToday=%d, want 1498", st.RemainingToday)
	}

	q.Reset()
	st = q.Stats(now.Add(3 * time.Second))
	if st.UsedLastMinute != 0 || st.UsedToday != 0 {
		t.Fatalf("Reset did not clear counters: %+v", st)
	}
}
