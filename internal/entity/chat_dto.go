package entity

type SendMessageRequest struct {
	Message string `json:"message"`
	Stream  bool   `json:"stream"`
}

type SendMessageResponse struct {
	Message *ChatMessage `json:"message"`
	Success bool         `json:"success"`
}

type HistoryResponse struct {
	History []ChatMessage `json:"history"`
	Success bool          `json:"success"`
}

type ClearHistoryResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RAGSettings are the retrieval knobs tunable at runtime.
type RAGSettings struct {
	ChunkSize        int  `json:"chunkSize"`
	ChunkOverlap     int  `json:"chunkOverlap"`
	TopK             int  `json:"topK"`
	HybridSearch     bool `json:"hybridSearch"`
	RerankingEnabled bool `json:"rerankingEnabled"`
}

// ModelConfig is the full runtime configuration snapshot exposed over the API.
type ModelConfig struct {
	Embedding  string      `json:"embedding"`
	Generation string      `json:"generation"`
	RAG        RAGSettings `json:"rag"`
}

// ModelConfigUpdate is a partial update; nil fields are left unchanged.
type ModelConfigUpdate struct {
	Embedding  *string            `json:"embedding,omitempty"`
	Generation *string            `json:"generation,omitempty"`
	RAG        *RAGSettingsUpdate `json:"rag,omitempty"`
}

type RAGSettingsUpdate struct {
	ChunkSize        *int  `json:"chunkSize,omitempty"`
	ChunkOverlap     *int  `json:"chunkOverlap,omitempty"`
	TopK             *int  `json:"topK,omitempty"`
	HybridSearch     *bool `json:"hybridSearch,omitempty"`
	RerankingEnabled *bool `json:"rerankingEnabled,omitempty"`
}

type ModelConfigResponse struct {
	Config  ModelConfig `json:"config"`
	Success bool        `json:"success"`
}

type UpdateModelConfigResponse struct {
	Message string      `json:"message"`
	Config  ModelConfig `json:"config"`
	Success bool        `json:"success"`
}
