// internal/bank/registry.go

package bank

import (
	"crypto/subtle"
	"fmt"
	"slices"
	"strconv"

	"toyledger/internal/storage"
)

const (
	// 帳號為 5 位數、密碼為 4 位數。
	idMin, idSpan             = 10000, 90000
	passwordMin, passwordSpan = 1000, 9000

	defaultMaxAttempts = 100
)

// RandSource 為帳號與密碼產生所用的亂數來源。
// *math/rand/v2.Rand 即滿足此介面；測試可注入固定序列。
type RandSource interface {
	IntN(n int) int
}

// Registry 為帳戶的唯一擁有者：負責載入/保存、查詢、建立、登入與刪除。
// 記憶體中的索引為工作階段期間的唯一事實來源，只在啟動時 Load 一次。
// Registry 不做任何同步控制；呼叫端須確保同一時間只有一個操作進行。
type Registry struct {
	store       storage.Store
	rng         RandSource
	maxAttempts int
	accts       map[string]*Account
}

// Option 調整 Registry 的設定。
type Option func(*Registry)

// WithMaxAttempts 設定建立帳戶時尋找未使用帳號的最大重試次數。
func WithMaxAttempts(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// NewRegistry 建立空白的 Registry；需呼叫 Load 才會讀入既有帳戶。
func NewRegistry(store storage.Store, rng RandSource, opts ...Option) *Registry {
	r := &Registry{
		store:       store,
		rng:         rng,
		maxAttempts: defaultMaxAttempts,
		accts:       make(map[string]*Account),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load 自儲存層重建索引。資源不存在時得到空的 Registry。
// 任何一筆紀錄無效都會回傳錯誤，且現有索引保持不變。
// Load 之後，先前取得的 *Account 不再屬於此 Registry。
func (r *Registry) Load() error {
	recs, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	accts := make(map[string]*Account, len(recs))
	for _, rec := range recs {
		kind, err := ParseKind(rec.Kind)
		if err != nil {
			return fmt.Errorf("load account %s: kind %q: %w", rec.ID, rec.Kind, err)
		}
		a, err := NewAccount(rec.ID, rec.Password, kind, rec.Balance)
		if err != nil {
			return fmt.Errorf("load account %s: %w", rec.ID, err)
		}
		if _, dup := accts[a.id]; dup {
			return fmt.Errorf("load account %s: duplicate id", a.id)
		}
		accts[a.id] = a
	}
	r.accts = accts
	return nil
}

// Save 將所有帳戶依 ID 排序後整份覆寫至儲存層。
func (r *Registry) Save() error {
	recs := make([]storage.Record, 0, len(r.accts))
	for _, id := range r.ids() {
		a := r.accts[id]
		recs = append(recs, storage.Record{
			ID:       a.id,
			Password: a.password,
			Kind:     a.kind.String(),
			Balance:  a.balance,
		})
	}
	if err := r.store.Save(recs); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// CreateAccount 產生新帳號與密碼、建立零餘額帳戶並立即保存。
// 保存失敗時帳戶不會留在索引中。
func (r *Registry) CreateAccount(kind Kind) (*Account, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	id, err := r.newID()
	if err != nil {
		return nil, err
	}
	pw := strconv.Itoa(passwordMin + r.rng.IntN(passwordSpan))

	a := &Account{id: id, password: pw, kind: kind}
	r.accts[id] = a
	if err := r.Save(); err != nil {
		delete(r.accts, id)
		return nil, err
	}
	return a, nil
}

// newID 重試直到找到未使用的 5 位數帳號，最多 maxAttempts 次。
func (r *Registry) newID() (string, error) {
	for range r.maxAttempts {
		id := strconv.Itoa(idMin + r.rng.IntN(idSpan))
		if _, taken := r.accts[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDSpaceExhausted, r.maxAttempts)
}

// Login 驗證帳號與密碼（大小寫完全相符）。
// 帳號不存在與密碼錯誤回傳同一個 ErrAuthenticationFailed。
func (r *Registry) Login(id, password string) (*Account, error) {
	a, ok := r.accts[id]
	if !ok || subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) != 1 {
		return nil, ErrAuthenticationFailed
	}
	return a, nil
}

// DeleteAccount 自索引移除帳戶並保存；不存在的帳號為 no-op。
// 保存失敗時帳戶會放回索引。
func (r *Registry) DeleteAccount(id string) error {
	a, ok := r.accts[id]
	if !ok {
		return nil
	}
	delete(r.accts, id)
	if err := r.Save(); err != nil {
		r.accts[id] = a
		return err
	}
	return nil
}

// Get 依 ID 取得帳戶；不存在回傳 ErrNotFound。
func (r *Registry) Get(id string) (*Account, error) {
	a, ok := r.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// List 回傳依 ID 排序的帳戶值拷貝，修改拷貝不影響索引。
func (r *Registry) List() []Account {
	out := make([]Account, 0, len(r.accts))
	for _, id := range r.ids() {
		out = append(out, *r.accts[id])
	}
	return out
}

// Len 回傳帳戶數量。
func (r *Registry) Len() int { return len(r.accts) }

func (r *Registry) ids() []string {
	ids := make([]string, 0, len(r.accts))
	for id := range r.accts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
