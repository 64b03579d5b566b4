// internal/server/response.go
//
// 統一錯誤回應格式：{"message": "..."}。
// 領域錯誤依種類對應 HTTP 狀態碼；其他錯誤一律 500，詳細內容只寫入 log。
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"toyledger/internal/bank"
)

func respondWithMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// statusFor 將領域錯誤對應至 HTTP 狀態碼。
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrInvalidInput), errors.Is(err, bank.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, bank.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrIDSpaceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondWithMessage(c, code, "Internal error")
		return
	}
	respondWithMessage(c, code, err.Error())
}
