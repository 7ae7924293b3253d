package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/auth"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/documents"
	sharedauth "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/auth"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/middleware"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/respond"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/signatures"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/users"
)

// RouterDeps carries the wired handlers and cross-cutting dependencies the
// router needs. Construction lives in the bootstrap package.
type RouterDeps struct {
	CORSAllowOrigin []string
	Tokens          *sharedauth.Manager
	Users           *users.Handler
	Documents       *documents.Handler
	Signatures      *signatures.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
		middleware.Auth(deps.Tokens),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.Users.RegisterRoutes(api)
	deps.Documents.RegisterRoutes(api)
	deps.Signatures.RegisterRoutes(api)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
