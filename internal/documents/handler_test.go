package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/bootstrap"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/config"
)

func buildApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		AuthSecret:      "test-secret",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		MaxUploadMB:     30,
	}

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Engine
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email, password string) string {
	t.Helper()

	registerBody := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", resp.Code, resp.Body.String())
	}

	loginBody := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	reqLogin := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(loginBody))
	reqLogin.Header.Set("Content-Type", "application/json")
	respLogin := httptest.NewRecorder()
	router.ServeHTTP(respLogin, reqLogin)
	if respLogin.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", respLogin.Code, respLogin.Body.String())
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(respLogin.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token == "" {
		t.Fatalf("login: expected token, got empty")
	}
	return login.Token
}

func pdfUploadRequest(t *testing.T, fileName, contentType string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const samplePDF = "%PDF-1.4\nfake body for upload tests"

func uploadPDF(t *testing.T, router *gin.Engine, token, fileName string) string {
	t.Helper()

	req := pdfUploadRequest(t, fileName, "application/pdf", []byte(samplePDF))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	var uploaded struct {
		Document struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.Document.ID == "" {
		t.Fatalf("upload: expected document id, got empty")
	}
	if uploaded.Document.Status != "PENDING" {
		t.Fatalf("upload: expected status PENDING, got %s", uploaded.Document.Status)
	}
	return uploaded.Document.ID
}

func assertNoDocuments(t *testing.T, router *gin.Engine, token string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var listed []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no documents, got %d", len(listed))
	}
}

func TestDocumentLifecycle(t *testing.T) {
	router := buildApp(t)
	token := registerAndLogin(t, router, "Alice", "alice@example.com", "secret1")

	docID := uploadPDF(t, router, token, "contract.pdf")

	// The new document shows up in the list with no signature.
	reqList := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	reqList.Header.Set("Authorization", "Bearer "+token)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", respList.Code)
	}
	var listed []struct {
		ID        string          `json:"id"`
		Status    string          `json:"status"`
		Signature json.RawMessage `json:"signature"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != docID {
		t.Fatalf("list: expected the uploaded document, got %+v", listed)
	}
	if string(listed[0].Signature) != "null" && len(listed[0].Signature) != 0 {
		t.Fatalf("list: expected no signature, got %s", listed[0].Signature)
	}

	// Sign it.
	signBody := `{"signatureData":"data:image/png;base64,iVBORw0KGgo="}`
	reqSign := httptest.NewRequest(http.MethodPost, "/api/documents/"+docID+"/sign", strings.NewReader(signBody))
	reqSign.Header.Set("Content-Type", "application/json")
	reqSign.Header.Set("Authorization", "Bearer "+token)
	respSign := httptest.NewRecorder()
	router.ServeHTTP(respSign, reqSign)
	if respSign.Code != http.StatusOK {
		t.Fatalf("sign: expected 200, got %d (%s)", respSign.Code, respSign.Body.String())
	}

	// Metadata now reports SIGNED with the signature attached.
	reqMeta := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/metadata", nil)
	reqMeta.Header.Set("Authorization", "Bearer "+token)
	respMeta := httptest.NewRecorder()
	router.ServeHTTP(respMeta, reqMeta)
	if respMeta.Code != http.StatusOK {
		t.Fatalf("metadata: expected 200, got %d", respMeta.Code)
	}
	var meta struct {
		Name      string `json:"name"`
		MimeType  string `json:"mimeType"`
		SizeBytes int64  `json:"size"`
		Status    string `json:"status"`
		Signature *struct {
			ID string `json:"id"`
		} `json:"signature"`
	}
	if err := json.NewDecoder(respMeta.Body).Decode(&meta); err != nil {
		t.Fatalf("decode metadata response: %v", err)
	}
	if meta.Name != "contract.pdf" {
		t.Fatalf("metadata: expected name contract.pdf, got %s", meta.Name)
	}
	if meta.MimeType != "application/pdf" {
		t.Fatalf("metadata: expected mime type application/pdf, got %s", meta.MimeType)
	}
	if meta.SizeBytes != int64(len(samplePDF)) {
		t.Fatalf("metadata: expected size %d, got %d", len(samplePDF), meta.SizeBytes)
	}
	if meta.Status != "SIGNED" {
		t.Fatalf("metadata: expected status SIGNED, got %s", meta.Status)
	}
	if meta.Signature == nil || meta.Signature.ID == "" {
		t.Fatalf("metadata: expected signature, got %+v", meta.Signature)
	}

	// A second signature attempt is rejected.
	reqAgain := httptest.NewRequest(http.MethodPost, "/api/documents/"+docID+"/sign", strings.NewReader(signBody))
	reqAgain.Header.Set("Content-Type", "application/json")
	reqAgain.Header.Set("Authorization", "Bearer "+token)
	respAgain := httptest.NewRecorder()
	router.ServeHTTP(respAgain, reqAgain)
	if respAgain.Code != http.StatusBadRequest {
		t.Fatalf("re-sign: expected 400, got %d", respAgain.Code)
	}
	var signErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(respAgain.Body).Decode(&signErr); err != nil {
		t.Fatalf("decode re-sign response: %v", err)
	}
	if signErr.Error != "Este documento já está assinado" {
		t.Fatalf("re-sign: unexpected message %q", signErr.Error)
	}

	// The file streams back inline.
	reqView := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/view", nil)
	reqView.Header.Set("Authorization", "Bearer "+token)
	respView := httptest.NewRecorder()
	router.ServeHTTP(respView, reqView)
	if respView.Code != http.StatusOK {
		t.Fatalf("view: expected 200, got %d", respView.Code)
	}
	if ct := respView.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("view: expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(respView.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("view: expected PDF body, got %q", respView.Body.String())
	}

	// Delete and confirm it is gone.
	reqDelete := httptest.NewRequest(http.MethodDelete, "/api/documents/"+docID, nil)
	reqDelete.Header.Set("Authorization", "Bearer "+token)
	respDelete := httptest.NewRecorder()
	router.ServeHTTP(respDelete, reqDelete)
	if respDelete.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", respDelete.Code, respDelete.Body.String())
	}

	reqGone := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/metadata", nil)
	reqGone.Header.Set("Authorization", "Bearer "+token)
	respGone := httptest.NewRecorder()
	router.ServeHTTP(respGone, reqGone)
	if respGone.Code != http.StatusNotFound {
		t.Fatalf("metadata after delete: expected 404, got %d", respGone.Code)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router := buildApp(t)
	token := registerAndLogin(t, router, "Bruno", "bruno@example.com", "secret1")

	req := pdfUploadRequest(t, "notes.txt", "text/plain", []byte("plain text"))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "Tipo de arquivo não permitido. Apenas arquivos PDF são aceitos" {
		t.Fatalf("unexpected message %q", body.Error)
	}

	assertNoDocuments(t, router, token)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		AuthSecret:      "test-secret",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		MaxUploadMB:     1,
	}
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	router := app.Engine
	token := registerAndLogin(t, router, "Carla", "carla@example.com", "secret1")

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 2<<20)...)
	req := pdfUploadRequest(t, "big.pdf", "application/pdf", big)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "O arquivo excede o tamanho máximo de 1MB" {
		t.Fatalf("unexpected message %q", body.Error)
	}

	assertNoDocuments(t, router, token)
}

func TestDocumentAccessIsOwnerOnly(t *testing.T) {
	router := buildApp(t)
	owner := registerAndLogin(t, router, "Diego", "diego@example.com", "secret1")
	other := registerAndLogin(t, router, "Elisa", "elisa@example.com", "secret2")

	docID := uploadPDF(t, router, owner, "contract.pdf")

	reqMeta := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/metadata", nil)
	reqMeta.Header.Set("Authorization", "Bearer "+other)
	respMeta := httptest.NewRecorder()
	router.ServeHTTP(respMeta, reqMeta)
	if respMeta.Code != http.StatusForbidden {
		t.Fatalf("metadata: expected 403, got %d", respMeta.Code)
	}

	signBody := `{"signatureData":"data:image/png;base64,iVBORw0KGgo="}`
	reqSign := httptest.NewRequest(http.MethodPost, "/api/documents/"+docID+"/sign", strings.NewReader(signBody))
	reqSign.Header.Set("Content-Type", "application/json")
	reqSign.Header.Set("Authorization", "Bearer "+other)
	respSign := httptest.NewRecorder()
	router.ServeHTTP(respSign, reqSign)
	if respSign.Code != http.StatusForbidden {
		t.Fatalf("sign: expected 403, got %d", respSign.Code)
	}

	reqDelete := httptest.NewRequest(http.MethodDelete, "/api/documents/"+docID, nil)
	reqDelete.Header.Set("Authorization", "Bearer "+other)
	respDelete := httptest.NewRecorder()
	router.ServeHTTP(respDelete, reqDelete)
	if respDelete.Code != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", respDelete.Code)
	}

	// The owner still sees the document untouched.
	reqOwner := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/metadata", nil)
	reqOwner.Header.Set("Authorization", "Bearer "+owner)
	respOwner := httptest.NewRecorder()
	router.ServeHTTP(respOwner, reqOwner)
	if respOwner.Code != http.StatusOK {
		t.Fatalf("owner metadata: expected 200, got %d", respOwner.Code)
	}
}

func TestDocumentsRequireAuth(t *testing.T) {
	router := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "Não autorizado" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}
