package signatures

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/documents"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/middleware"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/respond"
)

// Handler wires the sign endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the sign route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/sign", h.sign)
}

type signRequest struct {
	SignatureData string `json:"signatureData"`
}

func (h *Handler) sign(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Assinatura é obrigatória")
		return
	}

	_, err := h.Svc.Sign(c.Request.Context(), userID, documentID, req.SignatureData)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Assinatura é obrigatória")
		case errors.Is(err, ErrAlreadySigned):
			respond.Error(c, http.StatusBadRequest, "Este documento já está assinado")
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Documento não encontrado")
		case errors.Is(err, documents.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "Você não tem permissão para assinar este documento")
		default:
			respond.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"message": "Documento assinado com sucesso",
	})
}
