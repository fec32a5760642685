package modelconfig

import "github.com/avolkhin/docchat-backend/internal/entity"

// SettingsService exposes and mutates the runtime model configuration.
type SettingsService interface {
	Snapshot() entity.ModelConfig
	Update(upd *entity.ModelConfigUpdate) (entity.ModelConfig, error)
}
