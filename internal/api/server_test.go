package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chatapi "github.com/avolkhin/docchat-backend/internal/api/chat"
	documentapi "github.com/avolkhin/docchat-backend/internal/api/document"
	"github.com/avolkhin/docchat-backend/internal/api/modelconfig"
	"github.com/avolkhin/docchat-backend/internal/config"
	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/history"
	"github.com/avolkhin/docchat-backend/internal/integration/embedding"
	"github.com/avolkhin/docchat-backend/internal/integration/vectorstore"
	"github.com/avolkhin/docchat-backend/internal/pkg/validator"
	"github.com/avolkhin/docchat-backend/internal/repository"
	"github.com/avolkhin/docchat-backend/internal/settings"
	"github.com/avolkhin/docchat-backend/internal/storage"
	chatuc "github.com/avolkhin/docchat-backend/internal/usecase/chat"
	documentuc "github.com/avolkhin/docchat-backend/internal/usecase/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()

	fileStore, err := storage.NewLocalStore(t.TempDir(), logger)
	require.NoError(t, err)

	documentRepo := repository.NewDocumentCache()
	historyLog := history.NewLog()

	settingsSvc := settings.NewService(entity.ModelConfig{
		Embedding:  "http://localhost:8080/v1",
		Generation: "http://localhost:8081/v1",
		RAG: entity.RAGSettings{
			ChunkSize:        512,
			ChunkOverlap:     50,
			TopK:             5,
			HybridSearch:     true,
			RerankingEnabled: true,
		},
	})

	embedder := embedding.NewMockConnector(logger)
	store := vectorstore.NewMockStore(logger)

	fileValidator := validator.NewFileValidator(config.FileUploadConfig{
		MaxFileSize:   10 << 20,
		MaxUploadSize: 16 << 20,
	})

	documentUC := documentuc.NewUsecase(documentRepo, fileStore, embedder, store, settingsSvc, logger)
	chatUC := chatuc.NewUsecase(embedder, store, historyLog, settingsSvc, 0, 16, logger)

	router := SetupRouter(
		documentapi.NewHandler(documentUC, fileValidator, 16<<20),
		chatapi.NewHandler(chatUC, fileValidator),
		modelconfig.NewHandler(settingsSvc),
		logger,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func uploadFile(t *testing.T, srv *httptest.Server, name, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/documents/upload", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func waitUntilReady(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/documents/" + id + "/status")
		if err != nil {
			return false
		}
		var status entity.DocumentStatusResponse
		decodeJSON(t, resp, &status)
		return status.Status == string(entity.DocumentStatusReady)
	}, 5*time.Second, 10*time.Millisecond, "document %s never became ready", id)
}

func postMessage(t *testing.T, srv *httptest.Server, message string, stream bool) *http.Response {
	t.Helper()

	body, err := json.Marshal(entity.SendMessageRequest{Message: message, Stream: stream})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/chat/message", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadAndQueryFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv, "notes.md", "The sky is blue. Grass is green.")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded entity.UploadDocumentResponse
	decodeJSON(t, resp, &uploaded)
	assert.Equal(t, "File uploaded successfully", uploaded.Message)
	assert.Equal(t, "notes.md", uploaded.Document.Name)
	assert.Equal(t, string(entity.DocumentStatusProcessing), uploaded.Document.Status)

	waitUntilReady(t, srv, uploaded.Document.ID)

	resp = postMessage(t, srv, "what color is the sky", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answer entity.SendMessageResponse
	decodeJSON(t, resp, &answer)
	assert.True(t, answer.Success)
	require.NotNil(t, answer.Message)
	assert.Contains(t, answer.Message.Content, "The sky is blue.")
	assert.Contains(t, answer.Message.Sources, "notes.md")

	// Both turns are now in the history.
	resp, err := http.Get(srv.URL + "/api/chat/history")
	require.NoError(t, err)
	var hist entity.HistoryResponse
	decodeJSON(t, resp, &hist)
	assert.True(t, hist.Success)
	require.Len(t, hist.History, 2)
	assert.Equal(t, entity.RoleUser, hist.History[0].Role)
	assert.Equal(t, entity.RoleAssistant, hist.History[1].Role)
}

func TestQueryWithNoDocuments(t *testing.T) {
	srv := newTestServer(t)

	resp := postMessage(t, srv, "anything indexed yet?", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answer entity.SendMessageResponse
	decodeJSON(t, resp, &answer)
	require.NotNil(t, answer.Message)
	assert.Contains(t, answer.Message.Content, "No documents have been uploaded yet.")
}

func TestSendMessageRequiresText(t *testing.T) {
	srv := newTestServer(t)

	resp := postMessage(t, srv, "", false)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "Message is required", errResp.Error)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv, "report.pdf", "%PDF-1.4 fake")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "Only .txt and .md files are supported", errResp.Error)

	// Nothing was registered.
	listResp, err := http.Get(srv.URL + "/api/documents")
	require.NoError(t, err)
	var list entity.ListDocumentsResponse
	decodeJSON(t, listResp, &list)
	assert.Empty(t, list.Documents)
}

func TestUploadMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/documents/upload", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "No file uploaded", errResp.Error)
}

func TestDocumentStatusNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/documents/nope/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "Document not found", errResp.Error)
}

func TestDeleteDocument(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv, "notes.txt", "Deletable content here.")
	var uploaded entity.UploadDocumentResponse
	decodeJSON(t, resp, &uploaded)
	waitUntilReady(t, srv, uploaded.Document.ID)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/documents/"+uploaded.Document.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	var msg struct {
		Message string `json:"message"`
	}
	decodeJSON(t, delResp, &msg)
	assert.Equal(t, "Document deleted successfully", msg.Message)

	// A second delete hits a missing record.
	delResp2, err := http.DefaultClient.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	defer delResp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, delResp2.StatusCode)

	// Its content is no longer retrievable.
	chatResp := postMessage(t, srv, "what was in the deletable file", false)
	var answer entity.SendMessageResponse
	decodeJSON(t, chatResp, &answer)
	require.NotNil(t, answer.Message)
	assert.NotContains(t, answer.Message.Content, "Deletable content here.")
}

func TestClearHistory(t *testing.T) {
	srv := newTestServer(t)

	resp := postMessage(t, srv, "hello there", false)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/chat/clear", nil)
	require.NoError(t, err)
	clearResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, clearResp.StatusCode)

	var cleared entity.ClearHistoryResponse
	decodeJSON(t, clearResp, &cleared)
	assert.Equal(t, "Chat history cleared successfully", cleared.Message)
	assert.True(t, cleared.Success)

	histResp, err := http.Get(srv.URL + "/api/chat/history")
	require.NoError(t, err)
	var hist entity.HistoryResponse
	decodeJSON(t, histResp, &hist)
	assert.Empty(t, hist.History)
}

func TestModelConfigRoundtrip(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/config/model")
	require.NoError(t, err)
	var current entity.ModelConfigResponse
	decodeJSON(t, resp, &current)
	assert.True(t, current.Success)
	assert.Equal(t, 512, current.Config.RAG.ChunkSize)
	assert.Equal(t, 5, current.Config.RAG.TopK)

	update := strings.NewReader(`{"rag":{"topK":3,"chunkSize":256}}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/config/model", update)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	var updated entity.UpdateModelConfigResponse
	decodeJSON(t, putResp, &updated)
	assert.Equal(t, "Model configuration updated successfully", updated.Message)
	assert.Equal(t, 3, updated.Config.RAG.TopK)
	assert.Equal(t, 256, updated.Config.RAG.ChunkSize)
	assert.Equal(t, 50, updated.Config.RAG.ChunkOverlap)
}

func TestModelConfigRejectsInvalidUpdate(t *testing.T) {
	srv := newTestServer(t)

	// chunkOverlap 600 exceeds the current chunkSize 512.
	update := strings.NewReader(`{"rag":{"chunkOverlap":600}}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/config/model", update)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer putResp.Body.Close()
	require.Equal(t, http.StatusBadRequest, putResp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/config/model")
	require.NoError(t, err)
	var current entity.ModelConfigResponse
	decodeJSON(t, resp, &current)
	assert.Equal(t, 50, current.Config.RAG.ChunkOverlap)
	assert.Equal(t, 512, current.Config.RAG.ChunkSize)
}

func TestChatStream(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv, "facts.md", "Go was announced in 2009.")
	var uploaded entity.UploadDocumentResponse
	decodeJSON(t, resp, &uploaded)
	waitUntilReady(t, srv, uploaded.Document.ID)

	streamResp := postMessage(t, srv, "when was go announced", true)
	defer streamResp.Body.Close()
	require.Equal(t, http.StatusOK, streamResp.StatusCode)
	assert.Equal(t, "text/event-stream", streamResp.Header.Get("Content-Type"))

	var events []entity.StreamEvent
	scanner := bufio.NewScanner(streamResp.Body)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev entity.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	require.GreaterOrEqual(t, len(events), 3)

	assert.Equal(t, entity.EventStart, events[0].Type)

	end := events[len(events)-1]
	require.Equal(t, entity.EventEnd, end.Type)
	require.NotNil(t, end.Message)
	assert.Contains(t, end.Message.Content, "Go was announced in 2009.")

	var b strings.Builder
	for _, ev := range events[1 : len(events)-1] {
		require.Equal(t, entity.EventToken, ev.Type)
		b.WriteString(ev.Content)
	}
	assert.Equal(t, end.Message.Content, b.String())
}

func TestExportTranscript(t *testing.T) {
	srv := newTestServer(t)

	resp := postMessage(t, srv, "hello", false)
	resp.Body.Close()

	exportResp, err := http.Get(srv.URL + "/api/chat/export?format=markdown")
	require.NoError(t, err)
	defer exportResp.Body.Close()
	require.Equal(t, http.StatusOK, exportResp.StatusCode)

	assert.Contains(t, exportResp.Header.Get("Content-Type"), "text/markdown")
	assert.Contains(t, exportResp.Header.Get("Content-Disposition"), "chat-transcript.md")

	body, err := io.ReadAll(exportResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "hello")
}

func TestExportUnknownFormat(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/chat/export?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
