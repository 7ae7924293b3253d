package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/auth"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/middleware"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	Tokens *sharedauth.Manager
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, tokens *sharedauth.Manager) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterRoutes attaches account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/me", h.me)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Preencha todos os campos")
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Preencha todos os campos")
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "Email já cadastrado")
		default:
			respond.Error(c, http.StatusInternalServerError, "Erro ao criar usuário")
		}
		return
	}

	respond.Created(c, gin.H{"user": toResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Preencha todos os campos")
		return
	}

	user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Erro ao gerar o token")
		return
	}

	respond.OK(c, gin.H{
		"token": token,
		"user":  toResponse(user),
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Erro ao carregar usuário")
		return
	}
	respond.OK(c, toResponse(user))
}
