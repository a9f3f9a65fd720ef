package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"pos-terminal/internal/domain"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishSale(ctx context.Context, ev domain.SaleEvent) error {
	payload, _ := json.Marshal(ev)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(ev.TransactionID)),
		Value: payload,
	})
}
