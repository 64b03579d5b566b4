// internal/bank/ledger.go
//
// 單一帳戶的帳務操作。每個操作成功時回傳確認訊息，失敗時回傳領域錯誤且不變動餘額。
// 本檔不負責持久化；呼叫端須在成功後呼叫 Registry.Save（見 Session）。

package bank

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"toyledger/internal/storage"
)

var validate = validator.New()

// phoneRule：恰好 8 個 ASCII 數字。
const phoneRule = "len=8,number"

// Deposit 存款：金額需 > 0。
func (a *Account) Deposit(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return "Deposit successful.", nil
}

// Withdraw 提款：0 < amount <= balance。
func (a *Account) Withdraw(amount decimal.Decimal) (string, error) {
	if !a.covers(amount) {
		return "", ErrInvalidAmount
	}
	a.balance = a.balance.Sub(amount)
	return "Withdrawal successful.", nil
}

// Transfer 先自本帳戶提款，再存入 to。提款失敗時不會嘗試存款，錯誤原樣回傳。
// to 為本帳戶時照常執行，餘額不變。
func (a *Account) Transfer(amount decimal.Decimal, to *Account) (string, error) {
	if to == nil {
		return "", ErrInvalidRecipient
	}
	if _, err := a.Withdraw(amount); err != nil {
		return "", err
	}
	if _, err := to.Deposit(amount); err != nil {
		a.balance = a.balance.Add(amount)
		return "", err
	}
	return "Transfer successful.", nil
}

// TopUpMobile 為 8 位數電話號碼儲值；金額自餘額扣除，不入帳至任何帳戶。
// 電話號碼先於金額檢查。
func (a *Account) TopUpMobile(phoneNumber string, amount decimal.Decimal) (string, error) {
	if err := validate.Var(phoneNumber, phoneRule); err != nil {
		return "", ErrInvalidPhoneNumber
	}
	if !a.covers(amount) {
		return "", ErrInvalidAmount
	}
	a.balance = a.balance.Sub(amount)
	return fmt.Sprintf("Mobile top-up of %s to %s successful.", storage.FormatBalance(amount), phoneNumber), nil
}

func (a *Account) covers(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(a.balance)
}
