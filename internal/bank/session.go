// internal/bank/session.go
//
// Session 將已登入的帳戶與 Registry 綁定，是「呼叫端」的標準實作：
// 每次成功變更後立即 Registry.Save()，保存失敗則還原餘額，確保記憶體與檔案一致。

package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Receipt 為成功操作的結果：確認訊息與操作後的餘額。
type Receipt struct {
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
}

// Session 代表一位已登入使用者對其帳戶的操作。
type Session struct {
	reg  *Registry
	acct *Account
}

// NewSession 綁定 reg 與其中的帳戶 acct。
func NewSession(reg *Registry, acct *Account) *Session {
	return &Session{reg: reg, acct: acct}
}

// Open 以帳號密碼登入並開啟 Session。
func (r *Registry) Open(id, password string) (*Session, error) {
	a, err := r.Login(id, password)
	if err != nil {
		return nil, err
	}
	return NewSession(r, a), nil
}

// Account 回傳 Session 所屬帳戶。
func (s *Session) Account() *Account { return s.acct }

// Balance 回傳目前餘額，不做任何變更。
func (s *Session) Balance() (decimal.Decimal, error) {
	if err := s.live(); err != nil {
		return decimal.Zero, err
	}
	return s.acct.balance, nil
}

func (s *Session) Deposit(amount decimal.Decimal) (Receipt, error) {
	return s.commit(func() (string, error) { return s.acct.Deposit(amount) }, s.acct)
}

func (s *Session) Withdraw(amount decimal.Decimal) (Receipt, error) {
	return s.commit(func() (string, error) { return s.acct.Withdraw(amount) }, s.acct)
}

// Transfer 依帳號找出收款帳戶後轉帳；帳號不存在回傳 ErrInvalidRecipient。
func (s *Session) Transfer(recipientID string, amount decimal.Decimal) (Receipt, error) {
	to, ok := s.reg.accts[recipientID]
	if !ok {
		return Receipt{}, fmt.Errorf("recipient %q not found: %w", recipientID, ErrInvalidRecipient)
	}
	return s.commit(func() (string, error) { return s.acct.Transfer(amount, to) }, s.acct, to)
}

func (s *Session) TopUpMobile(phoneNumber string, amount decimal.Decimal) (Receipt, error) {
	return s.commit(func() (string, error) { return s.acct.TopUpMobile(phoneNumber, amount) }, s.acct)
}

// Close 刪除此帳戶（自 Registry 移除並保存）。
func (s *Session) Close() error {
	if err := s.live(); err != nil {
		return err
	}
	return s.reg.DeleteAccount(s.acct.id)
}

// commit 執行 op 並保存；保存失敗時將 touched 的餘額還原。
func (s *Session) commit(op func() (string, error), touched ...*Account) (Receipt, error) {
	if err := s.live(); err != nil {
		return Receipt{}, err
	}
	prev := make([]decimal.Decimal, len(touched))
	for i, a := range touched {
		prev[i] = a.balance
	}

	msg, err := op()
	if err != nil {
		return Receipt{}, err
	}
	if err := s.reg.Save(); err != nil {
		for i, a := range touched {
			a.balance = prev[i]
		}
		return Receipt{}, err
	}
	return Receipt{Message: msg, Balance: s.acct.balance}, nil
}

// live 確認帳戶仍屬於 Registry（未被刪除或因重新載入而失效）。
func (s *Session) live() error {
	if s.reg.accts[s.acct.id] != s.acct {
		return ErrNotFound
	}
	return nil
}
