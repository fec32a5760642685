package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/integration/embedding"
	"github.com/avolkhin/docchat-backend/internal/integration/vectorstore"
	"github.com/avolkhin/docchat-backend/internal/repository"
	"github.com/avolkhin/docchat-backend/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memFileStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	failRead bool
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (s *memFileStore) Save(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "mem://" + name
	s.files[path] = data
	return path, nil
}

func (s *memFileStore) ReadAll(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead {
		return nil, entity.ErrContentUnavailable
	}
	data, ok := s.files[path]
	if !ok {
		return nil, entity.ErrContentUnavailable
	}
	return data, nil
}

func (s *memFileStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return entity.ErrContentUnavailable
	}
	delete(s.files, path)
	return nil
}

type failingVectorStore struct {
	err error
}

func (f *failingVectorStore) EnsureCollection(ctx context.Context, dimension int) error {
	return f.err
}

func (f *failingVectorStore) SubmitChunks(ctx context.Context, chunks []entity.EmbeddedChunk) error {
	return f.err
}

func (f *failingVectorStore) DeleteDocument(ctx context.Context, documentID string) error {
	return f.err
}

func testSettings() *settings.Service {
	return settings.NewService(entity.ModelConfig{
		RAG: entity.RAGSettings{ChunkSize: 512, ChunkOverlap: 50, TopK: 5},
	})
}

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func newTestUsecase(files FileStore, store VectorStoreConnector) (*Usecase, *repository.DocumentCache) {
	repo := repository.NewDocumentCache()
	uc := NewUsecase(
		repo,
		files,
		embedding.NewMockConnector(zap.NewNop()),
		store,
		testSettings(),
		zap.NewNop(),
	)
	return uc, repo
}

func waitForStatus(t *testing.T, repo *repository.DocumentCache, id string, want entity.DocumentStatus) {
	t.Helper()

	require.Eventually(t, func() bool {
		doc, err := repo.Get(id)
		return err == nil && doc.Status == want
	}, 5*time.Second, 10*time.Millisecond, "document never reached status %q", want)
}

func TestUploadIngestsDocument(t *testing.T) {
	files := newMemFileStore()
	store := vectorstore.NewMockStore(zap.NewNop())
	uc, repo := newTestUsecase(files, store)

	fh := fileHeader(t, "notes.md", "The sky is blue. Grass is green.")

	doc, err := uc.Upload(context.Background(), fh)
	require.NoError(t, err)

	assert.Equal(t, "notes.md", doc.Name)
	assert.Equal(t, ".md", doc.Extension)
	assert.Equal(t, entity.DocumentStatusProcessing, doc.Status)
	assert.NotEmpty(t, doc.ID)

	waitForStatus(t, repo, doc.ID, entity.DocumentStatusReady)

	count, err := store.CountPoints(context.Background())
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestUploadEmptyDocumentBecomesReady(t *testing.T) {
	files := newMemFileStore()
	store := vectorstore.NewMockStore(zap.NewNop())
	uc, repo := newTestUsecase(files, store)

	doc, err := uc.Upload(context.Background(), fileHeader(t, "empty.txt", ""))
	require.NoError(t, err)

	waitForStatus(t, repo, doc.ID, entity.DocumentStatusReady)

	count, err := store.CountPoints(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUploadReadFailureMarksError(t *testing.T) {
	files := newMemFileStore()
	files.failRead = true
	uc, repo := newTestUsecase(files, vectorstore.NewMockStore(zap.NewNop()))

	doc, err := uc.Upload(context.Background(), fileHeader(t, "notes.txt", "content"))
	require.NoError(t, err)

	waitForStatus(t, repo, doc.ID, entity.DocumentStatusError)
}

func TestUploadStoreFailureMarksError(t *testing.T) {
	files := newMemFileStore()
	store := &failingVectorStore{err: errors.New("qdrant unreachable")}
	uc, repo := newTestUsecase(files, store)

	doc, err := uc.Upload(context.Background(), fileHeader(t, "notes.txt", "some content"))
	require.NoError(t, err)

	// Staged commit: the failure leaves the record in error state and
	// nothing half-written.
	waitForStatus(t, repo, doc.ID, entity.DocumentStatusError)
}

func TestListOrderedByUploadTime(t *testing.T) {
	files := newMemFileStore()
	uc, _ := newTestUsecase(files, vectorstore.NewMockStore(zap.NewNop()))

	first, err := uc.Upload(context.Background(), fileHeader(t, "first.txt", "a"))
	require.NoError(t, err)
	second, err := uc.Upload(context.Background(), fileHeader(t, "second.txt", "b"))
	require.NoError(t, err)

	docs := uc.List(context.Background())
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}

func TestGetUnknownDocument(t *testing.T) {
	uc, _ := newTestUsecase(newMemFileStore(), vectorstore.NewMockStore(zap.NewNop()))

	_, err := uc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestDeleteRemovesEverything(t *testing.T) {
	files := newMemFileStore()
	store := vectorstore.NewMockStore(zap.NewNop())
	uc, repo := newTestUsecase(files, store)

	doc, err := uc.Upload(context.Background(), fileHeader(t, "notes.md", "The sky is blue."))
	require.NoError(t, err)
	waitForStatus(t, repo, doc.ID, entity.DocumentStatusReady)

	require.NoError(t, uc.Delete(context.Background(), doc.ID))

	_, err = uc.Get(context.Background(), doc.ID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)

	count, err := store.CountPoints(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Empty(t, files.files)
}

func TestDeleteUnknownDocument(t *testing.T) {
	uc, _ := newTestUsecase(newMemFileStore(), vectorstore.NewMockStore(zap.NewNop()))

	err := uc.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestDeleteSurvivesStoreFailure(t *testing.T) {
	files := newMemFileStore()
	uc, repo := newTestUsecase(files, &failingVectorStore{err: errors.New("down")})

	doc, err := uc.Upload(context.Background(), fileHeader(t, "notes.txt", "text"))
	require.NoError(t, err)
	waitForStatus(t, repo, doc.ID, entity.DocumentStatusError)

	// Vector store cleanup is best-effort; the record still goes away.
	require.NoError(t, uc.Delete(context.Background(), doc.ID))

	_, err = uc.Get(context.Background(), doc.ID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}
