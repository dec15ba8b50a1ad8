package events

import (
	"context"
	"encoding/json"
	"fmt"

	skafka "github.com/segmentio/kafka-go"

	"github.com/jhoicas/TalentoHR-api/pkg/logger"
)

// Writer subconjunto de kafka.Writer que usamos; permite inyectar un fake en tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// KafkaPublisher publica los eventos de ciclo de vida en un topic de Kafka.
// La clave del mensaje es el ID de la entidad: los eventos de una misma
// entidad caen en la misma partición y conservan su orden.
type KafkaPublisher struct {
	writer Writer
	log    *logger.Logger
}

// NewKafkaPublisher crea un publisher contra el broker y topic indicados.
func NewKafkaPublisher(brokerURL, topic string, log *logger.Logger) *KafkaPublisher {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: w, log: log}
}

// NewKafkaPublisherWithWriter permite inyectar un writer de prueba.
func NewKafkaPublisherWithWriter(w Writer, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log}
}

// Publish serializa el valor a JSON y lo escribe con la clave dada.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := skafka.Message{Key: []byte(key), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Str("key", key).Err(err).Msg("error publicando evento")
		return fmt.Errorf("publicar evento: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
