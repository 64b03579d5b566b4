// internal/server/validation.go
//
// 請求內容的解析與 struct tag 驗證；驗證失敗時回傳逐欄位的錯誤明細。

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError 為單一欄位的驗證錯誤。
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type BadRequestErrorResponse struct {
	Message string            `json:"message"`
	Details []ValidationError `json:"details"`
}

// validateRequest 執行 struct tag 驗證，並攤平成 ValidationError 清單。
func validateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Message: err.Error(), Type: "invalid"}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: errorMsg(fe), Type: fe.Tag()})
	}
	return out
}

func errorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Value must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// trimmer 由需要去除前後空白的請求實作；在驗證前呼叫。
type trimmer interface {
	trim()
}

// bindAndValidate 解析 JSON 並驗證；失敗時寫出 400 並回傳 false。
func bindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if t, ok := obj.(trimmer); ok {
		t.trim()
	}
	if verrs := validateRequest(obj); verrs != nil {
		c.JSON(http.StatusBadRequest, BadRequestErrorResponse{Message: "Invalid request data", Details: verrs})
		return false
	}
	return true
}
