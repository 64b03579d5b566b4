// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 所有錯誤皆為同步、不可重試的驗證失敗，由呼叫端以 errors.Is 判斷並轉換成使用者訊息。

package bank

import "errors"

// ErrInvalidInput 為所有輸入錯誤（金額、電話號碼、帳戶類型）的共同根錯誤。
var ErrInvalidInput = errors.New("invalid input")

// inputError 讓各項具體錯誤同時可被 errors.Is(err, ErrInvalidInput) 比對。
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

var (
	// ErrInvalidAmount 代表金額 <= 0，或提款/轉帳/儲值金額超過餘額。
	// 兩種原因刻意不區分。
	ErrInvalidAmount error = &inputError{"invalid amount or insufficient funds"}

	// ErrInvalidPhoneNumber 代表電話號碼不是 8 位數字。
	ErrInvalidPhoneNumber error = &inputError{"phone number must be 8 digits"}

	// ErrUnknownKind 代表帳戶類型不是 Personal 或 Business。
	ErrUnknownKind error = &inputError{"account kind must be Personal or Business"}

	// ErrInvalidRecipient 代表轉帳對象不是已登錄的帳戶（nil 或不存在）。
	ErrInvalidRecipient = errors.New("recipient account is invalid")

	// ErrAuthenticationFailed 不區分帳號不存在或密碼錯誤。
	ErrAuthenticationFailed = errors.New("invalid account ID or password")

	// ErrNotFound 代表依 ID 查詢的帳戶不存在。
	ErrNotFound = errors.New("account not found")

	// ErrIDSpaceExhausted 代表在重試上限內找不到未使用的帳號。
	ErrIDSpaceExhausted = errors.New("no unused account id available")
)
