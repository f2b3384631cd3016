package entity

import "testing"

// 1~41的每个状态码都必须有唯一分类
func TestBucketForStatusCoversAllCodes(t *testing.T) {
	seen := make(map[int]StatusBucket)
	for bucket, codes := range bucketCodes {
		for _, code := range codes {
			if prev, ok := seen[code]; ok {
				t.Errorf("code %d mapped to both %s and %s", code, prev, bucket)
			}
			seen[code] = bucket
		}
	}
	for code := 1; code <= 41; code++ {
		if _, ok := seen[code]; !ok {
			t.Errorf("code %d not covered by bucket table", code)
		}
	}
}

func TestBucketForStatusDeterministic(t *testing.T) {
	for code := 1; code <= 41; code++ {
		first := BucketForStatus(code)
		for i := 0; i < 3; i++ {
			if got := BucketForStatus(code); got != first {
				t.Fatalf("code %d: got %s, want %s", code, got, first)
			}
		}
	}
}

// 表外状态码归入allocated，不报错
func TestBucketForStatusUnknownCode(t *testing.T) {
	for _, code := range []int{0, 42, 99, -1} {
		if got := BucketForStatus(code); got != BucketAllocated {
			t.Errorf("code %d: got %s, want %s", code, got, BucketAllocated)
		}
	}
}

func TestBucketForStatusBoundaries(t *testing.T) {
	cases := []struct {
		code int
		want StatusBucket
	}{
		{1, BucketPending},
		{2, BucketPending},
		{3, BucketAllocated},
		{6, BucketApproved},
		{9, BucketRejected},
		{11, BucketBid},
		{14, BucketBid},
		{15, BucketMissed},
		{17, BucketResultAwaited},
		{23, BucketResultAwaited},
		{24, BucketWon},
		{31, BucketWon},
		{32, BucketLost},
		{36, BucketLost},
		{37, BucketDisqualified},
		{41, BucketDisqualified},
	}
	for _, c := range cases {
		if got := BucketForStatus(c.code); got != c.want {
			t.Errorf("code %d: got %s, want %s", c.code, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[StatusBucket]bool{
		BucketWon: true, BucketLost: true, BucketDisqualified: true, BucketMissed: true,
	}
	for _, b := range BucketOrder {
		if got := b.IsTerminal(); got != terminal[b] {
			t.Errorf("%s: IsTerminal()=%v, want %v", b, got, terminal[b])
		}
	}
}

func TestImpliesBidPlaced(t *testing.T) {
	placed := map[StatusBucket]bool{
		BucketBid: true, BucketResultAwaited: true,
		BucketWon: true, BucketLost: true, BucketDisqualified: true,
	}
	for _, b := range BucketOrder {
		if got := b.ImpliesBidPlaced(); got != placed[b] {
			t.Errorf("%s: ImpliesBidPlaced()=%v, want %v", b, got, placed[b])
		}
	}
}

// 10档→5档投影：废标归入落标口径
func TestOutcomeForBucket(t *testing.T) {
	cases := map[StatusBucket]Outcome{
		BucketPending:       OutcomeNotBid,
		BucketAllocated:     OutcomeNotBid,
		BucketApproved:      OutcomeNotBid,
		BucketRejected:      OutcomeNotBid,
		BucketBid:           OutcomeResultAwaited,
		BucketMissed:        OutcomeMissed,
		BucketResultAwaited: OutcomeResultAwaited,
		BucketWon:           OutcomeWon,
		BucketLost:          OutcomeLost,
		BucketDisqualified:  OutcomeLost,
	}
	for b, want := range cases {
		if got := OutcomeForBucket(b); got != want {
			t.Errorf("%s: got %s, want %s", b, got, want)
		}
	}
}

func TestTenderBucket(t *testing.T) {
	tender := &Tender{StatusCode: 25}
	if got := tender.Bucket(); got != BucketWon {
		t.Errorf("got %s, want %s", got, BucketWon)
	}
}
