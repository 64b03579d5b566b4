// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的資料模型。
// 檔案格式為每行一筆帳戶紀錄，欄位以逗號分隔，固定順序：
//
//	accountId,password,accountKind,balance
//
// 無標頭、無跳脫、無引號；欄位內不得含逗號或換行。
package storage

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Record 為單一帳戶在儲存層的序列化格式。
// Kind 以原始字串保存（"Personal" / "Business"），由 bank 層負責解析。
type Record struct {
	ID       string
	Password string
	Kind     string
	Balance  decimal.Decimal
}

// Store 為帳戶紀錄的持久化介面。
// Load 在資源不存在時回傳空集合與 nil 錯誤；Save 以整份覆寫。
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// ParseError 描述檔案中某一行無法解析的原因。
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
