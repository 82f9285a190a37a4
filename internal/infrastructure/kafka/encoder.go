package kafka

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEncoder сериализует события категорий в protobuf Struct.
type ProtoEncoder struct{}

func NewProtoEncoder() *ProtoEncoder {
	return &ProtoEncoder{}
}

func (p *ProtoEncoder) Encode(event *usecase.CategoryEvent) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"event_id":    event.EventID.String(),
		"event_type":  string(event.Type),
		"category_id": event.CategoryID.String(),
		"name":        event.Name,
		"description": event.Description,
		"is_active":   event.IsActive,
		"created_at":  event.CreatedAt.UTC().Format(time.RFC3339Nano),
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// Decode разбирает payload, записанный Encode.
func (p *ProtoEncoder) Decode(data []byte) (*usecase.CategoryEvent, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	fields := msg.GetFields()
	str := func(key string) string { return fields[key].GetStringValue() }

	eventID, err := uuid.Parse(str("event_id"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("invalid event_id: %w", err))
	}

	categoryID, err := uuid.Parse(str("category_id"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("invalid category_id: %w", err))
	}

	createdAt, err := time.Parse(time.RFC3339Nano, str("created_at"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("invalid created_at: %w", err))
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, str("occurred_at"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("invalid occurred_at: %w", err))
	}

	return &usecase.CategoryEvent{
		EventID:     eventID,
		Type:        usecase.OutboxEventType(str("event_type")),
		CategoryID:  categoryID,
		Name:        str("name"),
		Description: str("description"),
		IsActive:    fields["is_active"].GetBoolValue(),
		CreatedAt:   createdAt,
		OccurredAt:  occurredAt,
	}, nil
}
