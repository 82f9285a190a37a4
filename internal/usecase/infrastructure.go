package usecase

import "context"

// TxManager выполняет fn в одной транзакции БД.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventEncoder interface {
	Encode(event *CategoryEvent) ([]byte, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
