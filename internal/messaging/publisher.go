package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// StockAdjustedEvent is emitted after a successful stock adjustment.
type StockAdjustedEvent struct {
	Type        string `json:"type"`
	MedicineID  int64  `json:"medicine_id"`
	Adjustment  string `json:"adjustment"`
	Quantity    int64  `json:"quantity"`
	NewQuantity int64  `json:"new_quantity"`
	AdjustedBy  int64  `json:"adjusted_by"`
	Timestamp   int64  `json:"timestamp"`
}

// OrderStatusEvent is emitted after an order lifecycle transition.
type OrderStatusEvent struct {
	Type      string `json:"type"`
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy int64  `json:"changed_by"`
	Timestamp int64  `json:"timestamp"`
}

// CustodyEvent is emitted after a shipment custody transfer.
type CustodyEvent struct {
	Type       string `json:"type"`
	ShipmentID string `json:"shipment_id"`
	DrugID     string `json:"drug_id"`
	HolderID   int64  `json:"holder_id"`
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
}

// Publisher emits domain events. Publish failures must never fail the
// request that triggered them; callers log and move on.
type Publisher interface {
	PublishStockAdjusted(ctx context.Context, event *StockAdjustedEvent) error
	PublishOrderStatus(ctx context.Context, event *OrderStatusEvent) error
	PublishCustodyTransfer(ctx context.Context, event *CustodyEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a Publisher backed by a Kafka topic.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	})
}

func (p *kafkaPublisher) PublishStockAdjusted(ctx context.Context, event *StockAdjustedEvent) error {
	event.Type = "stock.adjusted"
	return p.publish(ctx, fmt.Sprintf("medicine-%d", event.MedicineID), event)
}

func (p *kafkaPublisher) PublishOrderStatus(ctx context.Context, event *OrderStatusEvent) error {
	event.Type = "order.status_changed"
	return p.publish(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

func (p *kafkaPublisher) PublishCustodyTransfer(ctx context.Context, event *CustodyEvent) error {
	event.Type = "shipment.custody_transferred"
	return p.publish(ctx, "shipment-"+event.ShipmentID, event)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event. Used when no
// broker is configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishStockAdjusted(context.Context, *StockAdjustedEvent) error { return nil }
func (noopPublisher) PublishOrderStatus(context.Context, *OrderStatusEvent) error     { return nil }
func (noopPublisher) PublishCustodyTransfer(context.Context, *CustodyEvent) error     { return nil }
func (noopPublisher) Close() error                                                    { return nil }
