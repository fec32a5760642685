package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockStore is an in-memory vector store with cosine scoring. It keeps the
// whole point set in a slice, which is plenty for tests and local runs
// without a Qdrant instance.
type MockStore struct {
	mu     sync.RWMutex
	points []mockPoint
	logger *zap.Logger
}

type mockPoint struct {
	vector []float64
	text   string
	meta   entity.ChunkMetadata
}

func NewMockStore(logger *zap.Logger) *MockStore {
	return &MockStore{
		logger: logger,
	}
}

func (m *MockStore) EnsureCollection(ctx context.Context, dimension int) error {
	ctxzap.Debug(ctx, "[MOCK] ensure collection", zap.Int("dimension", dimension))
	return nil
}

func (m *MockStore) SubmitChunks(ctx context.Context, chunks []entity.EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range chunks {
		m.points = append(m.points, mockPoint{
			vector: ch.Vector,
			text:   ch.Chunk.Text,
			meta:   ch.Meta,
		})
	}

	ctxzap.Info(ctx, "[MOCK] chunks stored",
		zap.Int("chunk_count", len(chunks)),
		zap.Int("total_points", len(m.points)),
	)
	return nil
}

func (m *MockStore) Search(ctx context.Context, vector []float64, topK int) ([]entity.RetrievedPassage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		passage entity.RetrievedPassage
		score   float64
	}

	results := make([]scored, 0, len(m.points))
	for _, p := range m.points {
		score := cosine(vector, p.vector)
		if score <= 0 {
			continue
		}
		results = append(results, scored{
			passage: entity.RetrievedPassage{
				Text:   p.text,
				Source: p.meta.FileName,
				Score:  clampScore(score),
				Scored: true,
			},
			score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	passages := make([]entity.RetrievedPassage, 0, len(results))
	for _, r := range results {
		passages = append(passages, r.passage)
	}

	ctxzap.Debug(ctx, "[MOCK] similarity search", zap.Int("result_count", len(passages)))

	return passages, nil
}

func (m *MockStore) CountPoints(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points), nil
}

func (m *MockStore) DeleteDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.points[:0]
	for _, p := range m.points {
		if p.meta.DocumentID != documentID {
			kept = append(kept, p)
		}
	}
	removed := len(m.points) - len(kept)
	m.points = kept

	ctxzap.Info(ctx, "[MOCK] document points deleted",
		zap.String("document_id", documentID),
		zap.Int("removed", removed),
	)
	return nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
