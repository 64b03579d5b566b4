// cmd/server/main.go

// 本服務以 HTTP/JSON 提供帳戶建立、登入、存提款、轉帳與手機儲值。
// 此檔案負責讀取設定、於啟動時載入一次帳戶檔，並啟動 HTTP 伺服器。
// 每次成功變更都由 bank.Session 立即寫回檔案，結束時不需額外保存。

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"toyledger/internal/bank"
	"toyledger/internal/config"
	"toyledger/internal/server"
	"toyledger/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[startup] config: %v", err)
	}

	rng, err := bank.NewRandSource()
	if err != nil {
		log.Fatalf("[startup] %v", err)
	}

	store := storage.NewFileStore(cfg.DataFile)
	reg := bank.NewRegistry(store, rng, bank.WithMaxAttempts(cfg.MaxIDAttempts))

	// 檔案不存在時以空 Registry 啟動；格式錯誤則拒絕啟動，避免覆寫既有資料
	if err := reg.Load(); err != nil {
		log.Fatalf("[startup] %v", err)
	}
	log.Printf("[startup] loaded %d accounts from %s", reg.Len(), store.Path())
	for _, a := range reg.List() {
		log.Printf("[startup] account %s (%s)", a.ID(), a.Kind())
	}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("[startup] token secret: %v", err)
		}
		log.Println("[startup] BANK_TOKEN_SECRET not set; sessions end when the process exits")
	}

	gin.SetMode(gin.ReleaseMode)
	s := server.NewServer(reg, server.NewTokenIssuer(secret, cfg.TokenTTL))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		log.Println("[shutdown] signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[shutdown] %v", err)
		}
	}()

	log.Printf("Bank server running at %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	<-idle
	log.Println("[shutdown] done")
}
