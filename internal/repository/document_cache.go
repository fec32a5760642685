// Package repository stores document records for the lifetime of the
// process. Records live in an in-memory cache; the uploaded bytes themselves
// are on disk and the derived chunks belong to the vector store.
package repository

import (
	"sort"
	"sync"

	"github.com/avolkhin/docchat-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// DocumentRepository is the registry of uploaded documents.
type DocumentRepository interface {
	Create(doc entity.Document)
	Get(id string) (*entity.Document, error)
	List() []entity.Document
	SetStatus(id string, status entity.DocumentStatus)
	Delete(id string) bool
}

// DocumentCache keeps records in a go-cache map. Mutating operations
// serialize on mu: SetStatus is a get-modify-set and must not interleave
// with a concurrent Delete, or a deleted record would be written back.
type DocumentCache struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *DocumentCache) Create(doc entity.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Set(doc.ID, doc, gocache.NoExpiration)
}

func (c *DocumentCache) Get(id string) (*entity.Document, error) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	doc := v.(entity.Document)
	return &doc, nil
}

// List returns all documents ordered by upload time, oldest first.
func (c *DocumentCache) List() []entity.Document {
	items := c.cache.Items()
	docs := make([]entity.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, item.Object.(entity.Document))
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})

	return docs
}

// SetStatus updates the document's lifecycle status. Unknown ids are a
// no-op, which covers an ingestion finishing after its document was deleted.
func (c *DocumentCache) SetStatus(id string, status entity.DocumentStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(id)
	if !ok {
		return
	}
	doc := v.(entity.Document)
	doc.Status = status
	c.cache.Set(id, doc, gocache.NoExpiration)
}

// Delete removes the record. Returns false if the id is unknown.
func (c *DocumentCache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache.Get(id); !ok {
		return false
	}
	c.cache.Delete(id)
	return true
}
