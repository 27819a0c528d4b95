// Package kafka publica los eventos de integración de recepciones.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	segkafka "github.com/segmentio/kafka-go"

	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
)

// Writer abstrae el escritor de kafka-go para poder inyectar uno falso en pruebas.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...segkafka.Message) error
	Close() error
}

var _ apprecv.EventPublisher = (*Producer)(nil)

// Producer implementa receiving.EventPublisher sobre segmentio/kafka-go.
// La key del mensaje es el tipo de evento, para que los consumidores enruten
// sin deserializar el cuerpo.
type Producer struct {
	writer Writer
}

// NewProducer construye el productor contra los brokers y topic dados.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &segkafka.Writer{
		Addr:         segkafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &segkafka.LeastBytes{},
		RequiredAcks: segkafka.RequireOne,
	}}
}

// NewProducerWithWriter construye el productor con un Writer ya armado. Para pruebas.
func NewProducerWithWriter(w Writer) *Producer {
	return &Producer{writer: w}
}

// Publish serializa el evento como JSON y lo envía.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento %s: %w", key, err)
	}
	msg := segkafka.Message{
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar evento %s: %w", key, err)
	}
	return nil
}

// Close cierra el escritor subyacente.
func (p *Producer) Close() error {
	return p.writer.Close()
}
