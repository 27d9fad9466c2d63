package orders

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderPlaced = "order.placed"

	EventOrderPlaced = "OrderPlaced"
)

// Envelope wraps every published event. Partition key = order_id so events
// for one order keep their order.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID       string       `json:"order_id"`
	UserID        int64        `json:"user_id"`
	Items         []PlacedItem `json:"items"`
	TotalPrice    int          `json:"total_price"`
	TotalProducts int          `json:"total_products"`
}

func PartitionKey(orderID string) []byte { return []byte(orderID) }
