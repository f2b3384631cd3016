package entity

// StatusBucket 标书生命周期分类（KPI口径，10档）
type StatusBucket string

const (
	BucketPending       StatusBucket = "pending"
	BucketAllocated     StatusBucket = "allocated"
	BucketApproved      StatusBucket = "approved"
	BucketRejected      StatusBucket = "rejected"
	BucketBid           StatusBucket = "bid"
	BucketMissed        StatusBucket = "missed"
	BucketResultAwaited StatusBucket = "result_awaited"
	BucketWon           StatusBucket = "won"
	BucketLost          StatusBucket = "lost"
	BucketDisqualified  StatusBucket = "disqualified"
)

// Outcome 投标结果口径（5档），由10档分类投影得到
type Outcome string

const (
	OutcomeWon           Outcome = "won"
	OutcomeLost          Outcome = "lost"
	OutcomeResultAwaited Outcome = "result_awaited"
	OutcomeMissed        Outcome = "missed"
	OutcomeNotBid        Outcome = "not_bid"
)

// BucketOrder 固定展示顺序
var BucketOrder = []StatusBucket{
	BucketPending, BucketAllocated, BucketApproved, BucketRejected,
	BucketBid, BucketMissed, BucketResultAwaited,
	BucketWon, BucketLost, BucketDisqualified,
}

// bucketCodes 状态码→分类的唯一权威表，各集合互不相交，覆盖1~41
var bucketCodes = map[StatusBucket][]int{
	BucketPending:       {1, 2},
	BucketAllocated:     {3, 4, 5},
	BucketApproved:      {6, 7, 8},
	BucketRejected:      {9, 10},
	BucketBid:           {11, 12, 13, 14},
	BucketMissed:        {15, 16},
	BucketResultAwaited: {17, 18, 19, 20, 21, 22, 23},
	BucketWon:           {24, 25, 26, 27, 28, 29, 30, 31},
	BucketLost:          {32, 33, 34, 35, 36},
	BucketDisqualified:  {37, 38, 39, 40, 41},
}

var codeToBucket map[int]StatusBucket

func init() {
	codeToBucket = make(map[int]StatusBucket)
	for bucket, codes := range bucketCodes {
		for _, code := range codes {
			codeToBucket[code] = bucket
		}
	}
}

// BucketForStatus 状态码→分类，表外的码一律归入allocated
func BucketForStatus(code int) StatusBucket {
	if b, ok := codeToBucket[code]; ok {
		return b
	}
	return BucketAllocated
}

// Bucket 当前标书的生命周期分类
func (t *Tender) Bucket() StatusBucket {
	return BucketForStatus(t.StatusCode)
}

// IsTerminal 是否已进入终态（中标/落标/废标/错过）
func (b StatusBucket) IsTerminal() bool {
	switch b {
	case BucketWon, BucketLost, BucketDisqualified, BucketMissed:
		return true
	}
	return false
}

// ImpliesBidPlaced 该分类是否意味着已递交投标
func (b StatusBucket) ImpliesBidPlaced() bool {
	switch b {
	case BucketBid, BucketResultAwaited, BucketWon, BucketLost, BucketDisqualified:
		return true
	}
	return false
}

// OutcomeForBucket 10档分类→5档结果口径的纯投影
func OutcomeForBucket(b StatusBucket) Outcome {
	switch b {
	case BucketWon:
		return OutcomeWon
	case BucketLost, BucketDisqualified:
		return OutcomeLost
	case BucketBid, BucketResultAwaited:
		return OutcomeResultAwaited
	case BucketMissed:
		return OutcomeMissed
	default:
		return OutcomeNotBid
	}
}
