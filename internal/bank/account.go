// Package bank 定義核心領域模型與業務規則：帳戶、帳戶登錄簿 (Registry) 與操作工作階段 (Session)。
// 本檔定義 Account 與帳戶類型，不含任何 HTTP 或儲存細節。

package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind 為帳戶分類標籤；兩種類型的操作規則完全相同。
type Kind int

const (
	Personal Kind = iota + 1
	Business
)

func (k Kind) String() string {
	switch k {
	case Personal:
		return "Personal"
	case Business:
		return "Business"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid 回報 k 是否為已定義的類型。
func (k Kind) Valid() bool { return k == Personal || k == Business }

// ParseKind 解析持久化格式中的類型字串（大小寫需完全相符）。
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Personal":
		return Personal, nil
	case "Business":
		return Business, nil
	}
	return 0, ErrUnknownKind
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrUnknownKind
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Account represents one ledger holder.
// 欄位不對外公開：餘額只能經由 Deposit/Withdraw/Transfer/TopUpMobile 變動。
type Account struct {
	id       string
	password string
	kind     Kind
	balance  decimal.Decimal
}

// NewAccount 以既有資料建立帳戶；餘額不得為負，類型必須有效。
func NewAccount(id, password string, kind Kind, balance decimal.Decimal) (*Account, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	if balance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &Account{id: id, password: password, kind: kind, balance: balance}, nil
}

func (a *Account) ID() string { return a.id }
func (a *Account) Kind() Kind { return a.kind }
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Password 回傳明文密碼，僅供建立帳戶後顯示給使用者。
func (a *Account) Password() string { return a.password }
