package service

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 3, 31, 23, 59, 59, 999000000, time.UTC)
	if !w.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", w.From, wantFrom)
	}
	if !w.To.Equal(wantTo) {
		t.Errorf("To = %v, want %v", w.To, wantTo)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	if _, err := ParseWindow("03/01/2026", "2026-03-31"); err == nil {
		t.Error("expected error for bad from date")
	}
	if _, err := ParseWindow("2026-03-31", "2026-03-01"); err == nil {
		t.Error("expected error for to before from")
	}
}

func TestWindowContains(t *testing.T) {
	w, _ := ParseWindow("2026-03-01", "2026-03-31")

	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 3, 31, 23, 59, 59, 999000000, time.UTC), true},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, c := range cases {
		if got := w.Contains(c.at); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.at, got, c.want)
		}
	}

	if w.ContainsPtr(nil) {
		t.Error("nil time must be outside every window")
	}
}

// 月粒度按自然月切，首尾桶截断到窗口
func TestWindowBucketsMonth(t *testing.T) {
	w, _ := ParseWindow("2026-01-15", "2026-03-20")
	buckets := w.Buckets(GranularityMonth)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	if !buckets[0].From.Equal(w.From) {
		t.Errorf("first bucket From = %v, want %v", buckets[0].From, w.From)
	}
	if !buckets[2].To.Equal(w.To) {
		t.Errorf("last bucket To = %v, want %v", buckets[2].To, w.To)
	}
	if got := buckets[1].Label(GranularityMonth); got != "2026-02" {
		t.Errorf("middle label = %s, want 2026-02", got)
	}
}

// 周粒度以周一为界
func TestWindowBucketsWeek(t *testing.T) {
	// 2026-03-04 是周三，2026-03-17 是周二
	w, _ := ParseWindow("2026-03-04", "2026-03-17")
	buckets := w.Buckets(GranularityWeek)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	// 第二桶从下周一开始
	wantMonday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !buckets[1].From.Equal(wantMonday) {
		t.Errorf("second bucket From = %v, want %v", buckets[1].From, wantMonday)
	}
	if !buckets[2].To.Equal(w.To) {
		t.Errorf("last bucket To = %v, want %v", buckets[2].To, w.To)
	}
}

// 桶窗口首尾相接不重叠
func TestWindowBucketsDisjoint(t *testing.T) {
	w, _ := ParseWindow("2026-01-01", "2026-06-30")
	for _, g := range []string{GranularityWeek, GranularityMonth} {
		buckets := w.Buckets(g)
		for i := 1; i < len(buckets); i++ {
			if !buckets[i-1].To.Before(buckets[i].From) {
				t.Errorf("%s buckets %d and %d overlap: %v >= %v",
					g, i-1, i, buckets[i-1].To, buckets[i].From)
			}
		}
	}
}
