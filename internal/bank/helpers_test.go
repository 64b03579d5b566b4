package bank

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"toyledger/internal/storage"
)

// memStore 為測試用的記憶體儲存，可注入 Load/Save 錯誤並計算保存次數。
type memStore struct {
	recs    []storage.Record
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() ([]storage.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.recs), nil
}

func (m *memStore) Save(recs []storage.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.recs = slices.Clone(recs)
	return nil
}

// seqRand 依序回傳預先指定的值；用完後一律回傳最後一個值。
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v % n
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustAccount(t *testing.T, id, pw string, kind Kind, bal string) *Account {
	t.Helper()
	a, err := NewAccount(id, pw, kind, d(bal))
	if err != nil {
		t.Fatalf("NewAccount(%s) err=%v", id, err)
	}
	return a
}

func wantBalance(t *testing.T, a *Account, want string) {
	t.Helper()
	if !a.Balance().Equal(d(want)) {
		t.Fatalf("account %s balance=%s want=%s", a.ID(), a.Balance(), want)
	}
}
