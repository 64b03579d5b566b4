// internal/server/server_test.go
//
// server 層的整合測試：使用 gin TestMode + httptest.NewRecorder 模擬完整請求流程，
// 驗證路由、token 驗證、錯誤碼對應，以及每次成功變更都寫入檔案。
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"toyledger/internal/bank"
	"toyledger/internal/storage"
)

// fixedRand 依序回傳指定值，供建立帳戶時產生可預期的帳號與密碼。
type fixedRand struct {
	vals []int
	i    int
}

func (f *fixedRand) IntN(n int) int {
	v := f.vals[min(f.i, len(f.vals)-1)]
	f.i++
	return v % n
}

type testEnv struct {
	router *gin.Engine
	path   string
	reg    *bank.Registry
	tokens *TokenIssuer
}

// newTestEnv 以暫存檔建立 Registry，預載 Personal 10001 (500) 與 Business 20001 (1000)。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "accounts.txt")
	seed := "10001,1234,Personal,500.0\n20001,4321,Business,1000.0\n"
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}
	reg := bank.NewRegistry(storage.NewFileStore(path), &fixedRand{vals: []int{20000, 555}})
	if err := reg.Load(); err != nil {
		t.Fatal(err)
	}
	tokens := NewTokenIssuer([]byte("test-secret"), time.Hour)
	return &testEnv{router: NewServer(reg, tokens).Router(), path: path, reg: reg, tokens: tokens}
}

func (e *testEnv) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req, _ := http.NewRequest(method, url, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, id, pw string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/login", "", map[string]string{"accountId": id, "password": pw})
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func (e *testEnv) fileContent(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(e.path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func decodeReceipt(t *testing.T, w *httptest.ResponseRecorder) bank.Receipt {
	t.Helper()
	var rc bank.Receipt
	if err := json.Unmarshal(w.Body.Bytes(), &rc); err != nil {
		t.Fatalf("decode receipt: %v (%s)", err, w.Body.String())
	}
	return rc
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	for _, url := range []string{"/health", "/api/v1/health"} {
		if w := e.do(http.MethodGet, url, "", nil); w.Code != http.StatusOK {
			t.Fatalf("%s code=%d", url, w.Code)
		}
	}
}

func TestCreateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"success - business", map[string]string{"kind": "Business"}, http.StatusCreated},
		{"bad request - missing kind", map[string]string{}, http.StatusBadRequest},
		{"bad request - unknown kind", map[string]string{"kind": "Savings"}, http.StatusBadRequest},
		{"bad request - malformed json", "{bad json}", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			w := e.do(http.MethodPost, "/accounts", "", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateAccountPersists(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodPost, "/accounts", "", map[string]string{"kind": "Business"})
	if w.Code != http.StatusCreated {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		AccountID string          `json:"accountId"`
		Password  string          `json:"password"`
		Kind      string          `json:"kind"`
		Balance   decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.AccountID != "30000" || got.Password != "1555" || got.Kind != "Business" || !got.Balance.IsZero() {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(e.fileContent(t), "30000,1555,Business,0.0\n") {
		t.Fatalf("new account not persisted: %q", e.fileContent(t))
	}

	// 新帳戶可直接登入
	e.login(t, "30000", "1555")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"success", map[string]string{"accountId": "10001", "password": "1234"}, http.StatusOK},
		{"unauthorized - unknown id", map[string]string{"accountId": "unknown", "password": "wrong"}, http.StatusUnauthorized},
		{"unauthorized - wrong password", map[string]string{"accountId": "10001", "password": "0000"}, http.StatusUnauthorized},
		{"success - padded credentials", map[string]string{"accountId": " 10001 ", "password": "1234\t"}, http.StatusOK},
		{"bad request - missing password", map[string]string{"accountId": "10001"}, http.StatusBadRequest},
		{"bad request - blank password", map[string]string{"accountId": "10001", "password": "   "}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			w := e.do(http.MethodPost, "/api/v1/login", "", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

// 帳號不存在與密碼錯誤的回應必須完全相同。
func TestLoginDoesNotRevealCause(t *testing.T) {
	e := newTestEnv(t)
	a := e.do(http.MethodPost, "/login", "", map[string]string{"accountId": "99999", "password": "1234"})
	b := e.do(http.MethodPost, "/login", "", map[string]string{"accountId": "10001", "password": "9999"})
	if a.Code != b.Code || a.Body.String() != b.Body.String() {
		t.Fatalf("responses differ: %d %s vs %d %s", a.Code, a.Body, b.Code, b.Body)
	}
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t)
	expired := &TokenIssuer{secret: []byte("test-secret"), ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
	old, err := expired.Issue("10001")
	if err != nil {
		t.Fatal(err)
	}
	forged, err := NewTokenIssuer([]byte("other-secret"), time.Hour).Issue("10001")
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"no token":      "",
		"garbage token": "not-a-jwt",
		"expired token": old,
		"wrong secret":  forged,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			w := e.do(http.MethodPost, "/account/deposit", token, map[string]any{"amount": 10})
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("code=%d want 401", w.Code)
			}
		})
	}
	if !strings.Contains(e.fileContent(t), "10001,1234,Personal,500.0") {
		t.Fatal("unauthorized request mutated state")
	}
}

func TestHTTPFlowAndPersistence(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "10001", "1234")

	w := e.do(http.MethodPost, "/account/deposit", token, map[string]any{"amount": 200})
	if w.Code != http.StatusOK {
		t.Fatalf("deposit code=%d body=%s", w.Code, w.Body.String())
	}
	rc := decodeReceipt(t, w)
	if !strings.Contains(rc.Message, "Deposit successful.") || !rc.Balance.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("receipt=%+v", rc)
	}
	if !strings.Contains(e.fileContent(t), "10001,1234,Personal,700.0") {
		t.Fatalf("deposit not persisted: %q", e.fileContent(t))
	}

	w = e.do(http.MethodPost, "/account/withdraw", token, map[string]any{"amount": "100.50"})
	if w.Code != http.StatusOK {
		t.Fatalf("withdraw code=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodPost, "/account/transfer", token, map[string]any{"recipientId": "20001", "amount": 99.5})
	if w.Code != http.StatusOK {
		t.Fatalf("transfer code=%d body=%s", w.Code, w.Body.String())
	}
	if rc := decodeReceipt(t, w); !rc.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("after transfer balance=%s want 500", rc.Balance)
	}

	w = e.do(http.MethodPost, "/account/topup", token, map[string]any{"phoneNumber": "98765432", "amount": 50})
	if w.Code != http.StatusOK {
		t.Fatalf("topup code=%d body=%s", w.Code, w.Body.String())
	}
	if rc := decodeReceipt(t, w); !strings.Contains(rc.Message, "98765432") {
		t.Fatalf("topup message=%q", rc.Message)
	}

	want := "10001,1234,Personal,450.0\n20001,4321,Business,1099.5\n"
	if got := e.fileContent(t); got != want {
		t.Fatalf("file=%q want %q", got, want)
	}

	w = e.do(http.MethodGet, "/account", token, nil)
	var view struct {
		AccountID string          `json:"accountId"`
		Kind      string          `json:"kind"`
		Balance   decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.AccountID != "10001" || view.Kind != "Personal" || !view.Balance.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("view=%+v", view)
	}
}

func TestOperationErrors(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           any
		expectedStatus int
	}{
		{"withdraw too much", "/account/withdraw", map[string]any{"amount": 1000}, http.StatusBadRequest},
		{"deposit negative", "/account/deposit", map[string]any{"amount": -1}, http.StatusBadRequest},
		{"deposit not a number", "/account/deposit", map[string]any{"amount": "lots"}, http.StatusBadRequest},
		{"transfer unknown recipient", "/account/transfer", map[string]any{"recipientId": "99999", "amount": 1}, http.StatusBadRequest},
		{"transfer to self over balance", "/account/transfer", map[string]any{"recipientId": "10001", "amount": 1000}, http.StatusBadRequest},
		{"transfer missing recipient", "/account/transfer", map[string]any{"amount": 1}, http.StatusBadRequest},
		{"topup short phone", "/account/topup", map[string]any{"phoneNumber": "12345", "amount": 50}, http.StatusBadRequest},
		{"topup too much", "/account/topup", map[string]any{"phoneNumber": "12345678", "amount": 9999}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			token := e.login(t, "10001", "1234")
			w := e.do(http.MethodPost, tt.url, token, tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if !strings.Contains(e.fileContent(t), "10001,1234,Personal,500.0") {
				t.Fatal("rejected operation mutated persisted state")
			}
		})
	}
}

func TestTransferRecipient(t *testing.T) {
	tests := []struct {
		name        string
		recipientID string
		wantFile    string
	}{
		{"padded recipient id", "  20001 ", "10001,1234,Personal,400.0\n20001,4321,Business,1100.0\n"},
		{"self", "10001", "10001,1234,Personal,500.0\n20001,4321,Business,1000.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			token := e.login(t, "10001", "1234")
			w := e.do(http.MethodPost, "/account/transfer", token, map[string]any{"recipientId": tt.recipientID, "amount": 100})
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
			}
			if got := e.fileContent(t); got != tt.wantFile {
				t.Fatalf("file=%q want %q", got, tt.wantFile)
			}
		})
	}
}

func TestCloseAccount(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "10001", "1234")

	if w := e.do(http.MethodDelete, "/account", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete code=%d body=%s", w.Code, w.Body.String())
	}
	if got := e.fileContent(t); got != "20001,4321,Business,1000.0\n" {
		t.Fatalf("file=%q", got)
	}
	// token 仍有效但帳戶已不存在
	if w := e.do(http.MethodGet, "/account", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("get after delete code=%d want 401", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bank.ErrInvalidAmount, http.StatusBadRequest},
		{bank.ErrInvalidPhoneNumber, http.StatusBadRequest},
		{bank.ErrUnknownKind, http.StatusBadRequest},
		{bank.ErrInvalidRecipient, http.StatusBadRequest},
		{bank.ErrAuthenticationFailed, http.StatusUnauthorized},
		{bank.ErrNotFound, http.StatusNotFound},
		{bank.ErrIDSpaceExhausted, http.StatusServiceUnavailable},
		{os.ErrPermission, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v)=%d want %d", tt.err, got, tt.want)
		}
	}
}
