package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileKey   string    `json:"fileKey"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"size"`
	PageCount int       `json:"pageCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SignatureResponse is the outward-facing representation of a signature.
type SignatureResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	SignedAt time.Time `json:"signedAt"`
}

// DocumentWithSignatureResponse is a document with its signature or null.
type DocumentWithSignatureResponse struct {
	DocumentResponse
	Signature *SignatureResponse `json:"signature"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		FileKey:   doc.FileKey,
		UserID:    doc.UserID,
		Status:    doc.Status,
		MimeType:  doc.MimeType,
		SizeBytes: doc.SizeBytes,
		PageCount: doc.PageCount,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toResponseWithSignature(item DocumentWithSignature) DocumentWithSignatureResponse {
	out := DocumentWithSignatureResponse{DocumentResponse: toResponse(item.Document)}
	if item.Signature != nil {
		out.Signature = &SignatureResponse{
			ID:       item.Signature.ID,
			UserID:   item.Signature.UserID,
			SignedAt: item.Signature.SignedAt,
		}
	}
	return out
}
