// internal/server/handler.go
//
// Package server 提供 HTTP/JSON 介面，作為 bank 模組的展示層 (presentation adapter)。
// 每個 handler 僅負責：
//  1. 解析與驗證請求內容
//  2. 呼叫 bank 層（Registry / Session）
//  3. 回傳 {message, balance} 或錯誤
//
// bank 層為單執行緒設計，所有 handler 皆在 s.mu 保護下呼叫。
package server

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"toyledger/internal/bank"
)

// Server 為 HTTP 層核心結構。
type Server struct {
	mu     sync.Mutex
	reg    *bank.Registry
	tokens *TokenIssuer
}

// NewServer 建立 HTTP 伺服器；reg 必須已完成 Load。
func NewServer(reg *bank.Registry, tokens *TokenIssuer) *Server {
	return &Server{reg: reg, tokens: tokens}
}

type accountView struct {
	AccountID string          `json:"accountId"`
	Kind      bank.Kind       `json:"kind"`
	Balance   decimal.Decimal `json:"balance"`
}

type createdAccount struct {
	accountView
	Password string `json:"password"`
}

type createAccountRequest struct {
	Kind string `json:"kind" validate:"required,oneof=Personal Business"`
}

type loginRequest struct {
	AccountID string `json:"accountId" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

func (r *loginRequest) trim() {
	r.AccountID = strings.TrimSpace(r.AccountID)
	r.Password = strings.TrimSpace(r.Password)
}

type loginResponse struct {
	Token   string      `json:"token"`
	Account accountView `json:"account"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	RecipientID string          `json:"recipientId" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r *transferRequest) trim() {
	r.RecipientID = strings.TrimSpace(r.RecipientID)
}

type topUpRequest struct {
	PhoneNumber string          `json:"phoneNumber"`
	Amount      decimal.Decimal `json:"amount"`
}

func viewOf(a *bank.Account) accountView {
	return accountView{AccountID: a.ID(), Kind: a.Kind(), Balance: a.Balance()}
}

// health: GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createAccount: POST /accounts {kind}
// 回傳新帳號與密碼；密碼只會在此時顯示一次。
func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	kind, err := bank.ParseKind(req.Kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	s.mu.Lock()
	a, err := s.reg.CreateAccount(kind)
	var out createdAccount
	if err == nil {
		out = createdAccount{accountView: viewOf(a), Password: a.Password()}
	}
	s.mu.Unlock()
	if err != nil {
		respondWithError(c, err)
		return
	}

	log.Printf("[bank] created %s account %s", kind, out.AccountID)
	c.JSON(http.StatusCreated, out)
}

// login: POST /login {accountId, password}
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	s.mu.Lock()
	a, err := s.reg.Login(req.AccountID, req.Password)
	var view accountView
	if err == nil {
		view = viewOf(a)
	}
	s.mu.Unlock()
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := s.tokens.Issue(view.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, Account: view})
}

// getAccount: GET /account
func (s *Server) getAccount(c *gin.Context) {
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		if _, err := sess.Balance(); err != nil {
			return nil, 0, err
		}
		return viewOf(sess.Account()), http.StatusOK, nil
	})
}

// deposit: POST /account/deposit {amount}
func (s *Server) deposit(c *gin.Context) {
	var req amountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		rc, err := sess.Deposit(req.Amount)
		return rc, http.StatusOK, err
	})
}

// withdraw: POST /account/withdraw {amount}
func (s *Server) withdraw(c *gin.Context) {
	var req amountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		rc, err := sess.Withdraw(req.Amount)
		return rc, http.StatusOK, err
	})
}

// transfer: POST /account/transfer {recipientId, amount}
func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		rc, err := sess.Transfer(req.RecipientID, req.Amount)
		return rc, http.StatusOK, err
	})
}

// topUp: POST /account/topup {phoneNumber, amount}
func (s *Server) topUp(c *gin.Context) {
	var req topUpRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		rc, err := sess.TopUpMobile(req.PhoneNumber, req.Amount)
		return rc, http.StatusOK, err
	})
}

// closeAccount: DELETE /account
func (s *Server) closeAccount(c *gin.Context) {
	s.withSession(c, func(sess *bank.Session) (any, int, error) {
		if err := sess.Close(); err != nil {
			return nil, 0, err
		}
		log.Printf("[bank] deleted account %s", sess.Account().ID())
		return nil, http.StatusNoContent, nil
	})
}

// withSession 以 token 中的帳號開啟 Session，並在鎖內執行 fn。
// 帳戶已不存在時回傳 401。
func (s *Server) withSession(c *gin.Context, fn func(*bank.Session) (any, int, error)) {
	id, _ := accountID(c)

	s.mu.Lock()
	var (
		body any
		code int
		err  error
	)
	a, lookupErr := s.reg.Get(id)
	if lookupErr == nil {
		body, code, err = fn(bank.NewSession(s.reg, a))
	}
	s.mu.Unlock()

	if lookupErr != nil {
		respondWithMessage(c, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}
	if body == nil {
		c.Status(code)
		return
	}
	c.JSON(code, body)
}
