package entity

import "time"

// 付款用途
const (
	PaymentPurposeEMD       = "emd"
	PaymentPurposeTenderFee = "tender_fee"
)

// 保证金工具类型
const (
	InstrumentDD            = "dd"             // 汇票 Demand Draft
	InstrumentFDR           = "fdr"            // 定期存单
	InstrumentBG            = "bg"             // 银行保函
	InstrumentCheque        = "cheque"         // 支票
	InstrumentBankTransfer  = "bank_transfer"  // 银行转账
	InstrumentPortalPayment = "portal_payment" // 平台在线支付
)

// 工具动作码（action）：工具生命周期内的子事件
const (
	ActionRequested     = 1 // 发起申请
	ActionIssued        = 2 // 已出具/已支付
	ActionReturnInit    = 3 // 退回发起
	ActionReturnDone    = 4 // 退回到账（线上渠道）；纸质工具为退回在途
	ActionPhysicalBack  = 5 // 纸质工具收回
	ActionEncashed      = 6 // 兑付（纸质工具没收；保函为释放）
	ActionForfeited     = 7 // 没收入账
	ActionBGInvoked     = 8 // 保函索赔
	ActionBGExpired     = 9 // 保函到期核销
)

// FinancialState 保证金资金状态
type FinancialState string

const (
	StateLocked   FinancialState = "locked"   // 占用中
	StateReturned FinancialState = "returned" // 已退回
	StateSettled  FinancialState = "settled"  // 已没收/已兑付，资金不再回流
)

// instrumentReturned / instrumentSettled 工具类型→动作码集合
// 状态只由(工具类型, 动作码)决定，与时间无关
var instrumentReturned = map[string][]int{
	InstrumentPortalPayment: {3},
	InstrumentBankTransfer:  {3},
	InstrumentDD:            {3, 4, 5},
	InstrumentFDR:           {3, 4, 5},
	InstrumentCheque:        {3, 4, 5},
	InstrumentBG:            {6},
}

var instrumentSettled = map[string][]int{
	InstrumentPortalPayment: {4},
	InstrumentBankTransfer:  {4},
	InstrumentDD:            {6, 7},
	InstrumentFDR:           {6, 7},
	InstrumentCheque:        {6, 7},
	InstrumentBG:            {8, 9},
}

// ClassifyInstrument (工具类型, 动作码)→资金状态，其余情况一律视为占用中
func ClassifyInstrument(instrumentType string, action int) FinancialState {
	for _, a := range instrumentReturned[instrumentType] {
		if a == action {
			return StateReturned
		}
	}
	for _, a := range instrumentSettled[instrumentType] {
		if a == action {
			return StateSettled
		}
	}
	return StateLocked
}

// PaymentRequest 付款申请
type PaymentRequest struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	TenderID  string    `json:"tender_id" gorm:"size:32;not null;index"`
	Purpose   string    `json:"purpose" gorm:"size:20;not null;default:emd;index"`
	Amount    *float64  `json:"amount" gorm:"type:decimal(15,2)"`
	Status    string    `json:"status" gorm:"size:20;default:pending"`
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Instrument *PaymentInstrument `json:"instrument,omitempty" gorm:"foreignKey:RequestID"`
	Tender     *Tender            `json:"tender,omitempty" gorm:"foreignKey:TenderID"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

// PaymentInstrument 付款工具
// 与付款申请一一对应；action原地更新，最新动作即当前事实
type PaymentInstrument struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	RequestID      string     `json:"request_id" gorm:"size:32;not null;uniqueIndex"`
	InstrumentType string     `json:"instrument_type" gorm:"size:20;not null"`
	Action         int        `json:"action" gorm:"not null;default:1"`
	Status         string     `json:"status" gorm:"size:20;default:active"`
	Amount         *float64   `json:"amount" gorm:"type:decimal(15,2)"`
	InstrumentNo   string     `json:"instrument_no" gorm:"size:64"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"index"`
}

func (PaymentInstrument) TableName() string {
	return "payment_instruments"
}

// State 当前资金状态
func (p *PaymentInstrument) State() FinancialState {
	return ClassifyInstrument(p.InstrumentType, p.Action)
}
