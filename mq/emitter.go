package mq

import (
	"context"
	"encoding/json"
	"log"

	"mapmeet/rdx"
)

// Index describes an entity change published for downstream consumers.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
}

const eventsChannel = "entity-events"

// Emit publishes an entity change to Redis. Publishing is best effort;
// a missing Redis connection or publish failure is logged and dropped.
func Emit(ctx context.Context, eventName string, content Index) {
	if rdx.Conn == nil {
		return
	}

	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s: %v", eventName, err)
		return
	}

	if err := rdx.Conn.Publish(ctx, eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s: %v", eventName, err)
	}
}
