package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StrikeScope/internal/domain/models"
	domrepo "StrikeScope/internal/domain/repository"
	pkgkafka "StrikeScope/pkg/kafka"
)

// KafkaSpotHandler consumes spot ticks from Kafka and writes them to storage.
type KafkaSpotHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaSpotHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaSpotHandler {
	return &KafkaSpotHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaSpotHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, p, v}
func (h *KafkaSpotHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		P      float64 `json:"p"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.SpotTick{
		Symbol:    m.Symbol,
		Timestamp: m.T,
		Price:     m.P,
		Volume:    m.V,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordTickRouted("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSpotHandler)(nil)
