package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/middleware"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 30 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id/metadata", h.metadata)
	rg.GET("/documents/:id/view", h.view)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		// MaxBytesReader cuts the body off mid-parse when the wire limit
		// is hit, before the declared size check below can run.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, h.oversizeMessage())
			return
		}
		respond.Error(c, http.StatusBadRequest, "Nenhum arquivo enviado")
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, h.oversizeMessage())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Não foi possível ler o arquivo")
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	doc, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, mimeType, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidType):
			respond.Error(c, http.StatusBadRequest, "Tipo de arquivo não permitido. Apenas arquivos PDF são aceitos")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Nenhum arquivo enviado")
		default:
			respond.Error(c, http.StatusInternalServerError, "Erro ao enviar o documento")
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.OK(c, gin.H{"document": toResponse(doc)})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Erro ao listar os documentos")
		return
	}

	resp := make([]DocumentWithSignatureResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponseWithSignature(item))
	}
	respond.OK(c, resp)
}

func (h *Handler) metadata(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	item, err := h.Svc.Get(c.Request.Context(), userID, documentID)
	if err != nil {
		h.respondReadError(c, err, "Erro ao buscar o documento")
		return
	}

	respond.OK(c, toResponseWithSignature(item))
}

func (h *Handler) view(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	doc, reader, err := h.Svc.OpenFile(c.Request.Context(), userID, documentID)
	if err != nil {
		h.respondReadError(c, err, "Erro ao carregar o arquivo")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", doc.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	if doc.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), userID, documentID); err != nil {
		h.respondReadError(c, err, "Erro ao excluir o documento")
		return
	}

	respond.OK(c, gin.H{"message": "Documento excluído com sucesso"})
}

func (h *Handler) respondReadError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Documento não encontrado")
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "Você não tem permissão para acessar este documento")
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "Requisição inválida")
	default:
		respond.Error(c, http.StatusInternalServerError, internalMsg)
	}
}

func (h *Handler) oversizeMessage() string {
	return fmt.Sprintf("O arquivo excede o tamanho máximo de %dMB", h.MaxUploadBytes>>20)
}
