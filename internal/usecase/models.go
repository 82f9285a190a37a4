package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/google/uuid"
)

// CATEGORY USECASE

// CreateCategoryReq — запрос на создание категории.
type CreateCategoryReq struct {
	Name        string
	Description string
	IsActive    *bool // nil: категория создаётся активной
}

// UpdateCategoryReq — запрос на изменение категории.
type UpdateCategoryReq struct {
	ID          uuid.UUID
	Name        string
	Description *string // nil: описание не меняется
}

// SortDirection — направление сортировки списка.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Поля, по которым разрешена сортировка.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByID        = "id"
)

// ListCategoriesReq — запрос страницы категорий.
type ListCategoriesReq struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir SortDirection
}

// ListCategoriesRes — страница категорий и общее количество найденных.
type ListCategoriesRes struct {
	Items   []CategoryInfo
	Total   int64
	Page    int
	PerPage int
}

// CategoryInfo — DTO с информацией о категории для внешнего использования.
type CategoryInfo struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// REPOSITORIES

// ListCategoriesFilter — параметры выборки для репозитория (уже проверенные).
type ListCategoriesFilter struct {
	Search  string
	SortBy  string
	SortDir SortDirection
	Limit   int
	Offset  int
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	Failed     OutboxStatus = "failed"
)

type OutboxEventType string

const (
	CategoryCreated     OutboxEventType = "category.created"
	CategoryUpdated     OutboxEventType = "category.updated"
	CategoryActivated   OutboxEventType = "category.activated"
	CategoryDeactivated OutboxEventType = "category.deactivated"
	CategoryDeleted     OutboxEventType = "category.deleted"
)

// OutboxEvent — запись таблицы outbox, ожидающая публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   OutboxEventType
	AggregateID uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// CategoryEvent — содержимое события об изменении категории.
type CategoryEvent struct {
	EventID     uuid.UUID
	Type        OutboxEventType
	CategoryID  uuid.UUID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	OccurredAt  time.Time
}

// INFRASTUCTURE

// WriteRawMessageReq — готовое к отправке сообщение.
type WriteRawMessageReq struct {
	Key       string
	EventType string
	Payload   []byte
}

// MAPPERS

func NewCategoryInfo(category *domain.Category) *CategoryInfo {
	return &CategoryInfo{
		ID:          category.ID(),
		Name:        category.Name(),
		Description: category.Description(),
		IsActive:    category.IsActive(),
		CreatedAt:   category.CreatedAt(),
	}
}

func NewCategoryEvent(eventType OutboxEventType, category *domain.Category, occurredAt time.Time) *CategoryEvent {
	return &CategoryEvent{
		EventID:     uuid.New(),
		Type:        eventType,
		CategoryID:  category.ID(),
		Name:        category.Name(),
		Description: category.Description(),
		IsActive:    category.IsActive(),
		CreatedAt:   category.CreatedAt(),
		OccurredAt:  occurredAt,
	}
}

func NewOutboxEvent(event *CategoryEvent, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     event.EventID,
		EventType:   event.Type,
		AggregateID: event.CategoryID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   event.OccurredAt,
	}
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateID.String(),
		EventType: string(event.EventType),
		Payload:   event.Payload,
	}
}

func NewListCategoriesRes(items []CategoryInfo, total int64, page, perPage int) *ListCategoriesRes {
	return &ListCategoriesRes{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
