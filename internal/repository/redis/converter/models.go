package converter

import (
	"time"

	"github.com/google/uuid"
)

// CategoryInfoRedisModel — JSON-представление категории в кэше.
type CategoryInfoRedisModel struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
