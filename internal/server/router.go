// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊。同一組路由同時掛在根路徑與 /api/v1 之下。
package server

import "github.com/gin-gonic/gin"

// Router 建立並回傳整個 HTTP 處理鏈。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), loggingMiddleware())

	s.routes(r.Group("/"))
	s.routes(r.Group("/api/v1"))
	return r
}

func (s *Server) routes(g *gin.RouterGroup) {
	g.GET("/health", s.health)

	//   - POST /accounts → 建立帳戶
	//   - POST /login    → 登入並取得 token
	g.POST("/accounts", s.createAccount)
	g.POST("/login", s.login)

	// 已登入帳戶的操作
	acct := g.Group("/account", authMiddleware(s.tokens))
	{
		acct.GET("", s.getAccount)
		acct.DELETE("", s.closeAccount)
		acct.POST("/deposit", s.deposit)
		acct.POST("/withdraw", s.withdraw)
		acct.POST("/transfer", s.transfer)
		acct.POST("/topup", s.topUp)
	}
}
