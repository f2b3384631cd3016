package entity

import "testing"

// (工具类型, 动作码)→资金状态
// 同一个动作码在不同工具下含义不同：动作6对DD是兑付(settled)，对BG是释放(returned)
func TestClassifyInstrument(t *testing.T) {
	cases := []struct {
		instrumentType string
		action         int
		want           FinancialState
	}{
		// 在线渠道
		{InstrumentPortalPayment, 1, StateLocked},
		{InstrumentPortalPayment, 2, StateLocked},
		{InstrumentPortalPayment, 3, StateReturned},
		{InstrumentPortalPayment, 4, StateSettled},
		{InstrumentBankTransfer, 3, StateReturned},
		{InstrumentBankTransfer, 4, StateSettled},

		// 纸质工具
		{InstrumentDD, 1, StateLocked},
		{InstrumentDD, 2, StateLocked},
		{InstrumentDD, 3, StateReturned},
		{InstrumentDD, 4, StateReturned},
		{InstrumentDD, 5, StateReturned},
		{InstrumentDD, 6, StateSettled},
		{InstrumentDD, 7, StateSettled},
		{InstrumentFDR, 5, StateReturned},
		{InstrumentFDR, 6, StateSettled},
		{InstrumentCheque, 3, StateReturned},
		{InstrumentCheque, 7, StateSettled},

		// 保函：6是释放，8/9才是资金定局
		{InstrumentBG, 3, StateLocked},
		{InstrumentBG, 6, StateReturned},
		{InstrumentBG, 8, StateSettled},
		{InstrumentBG, 9, StateSettled},
	}
	for _, c := range cases {
		if got := ClassifyInstrument(c.instrumentType, c.action); got != c.want {
			t.Errorf("ClassifyInstrument(%s, %d) = %s, want %s", c.instrumentType, c.action, got, c.want)
		}
	}
}

// 未知组合一律视为占用中，绝不凭空"释放"资金
func TestClassifyInstrumentUnknownDefaultsToLocked(t *testing.T) {
	cases := []struct {
		instrumentType string
		action         int
	}{
		{InstrumentDD, 8},
		{InstrumentDD, 9},
		{InstrumentPortalPayment, 5},
		{"unknown_type", 3},
		{InstrumentBG, 0},
	}
	for _, c := range cases {
		if got := ClassifyInstrument(c.instrumentType, c.action); got != StateLocked {
			t.Errorf("ClassifyInstrument(%s, %d) = %s, want %s", c.instrumentType, c.action, got, StateLocked)
		}
	}
}

func TestInstrumentState(t *testing.T) {
	inst := &PaymentInstrument{InstrumentType: InstrumentDD, Action: ActionEncashed}
	if got := inst.State(); got != StateSettled {
		t.Errorf("got %s, want %s", got, StateSettled)
	}
}
