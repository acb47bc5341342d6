package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

// GormSink writes events to the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		EventID:   ev.ID,
		UserID:    ev.UserID,
		Username:  ev.Username,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metadataJSON(ev.Metadata),
		CreatedAt: ev.At,
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// streamAdder is the part of redis.Cmdable the sink uses.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends events to a capped Redis stream.
type RedisSink struct {
	client streamAdder
	stream string
	maxLen int64
}

func NewRedisSink(client streamAdder, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream, maxLen: 10000}
}

func (s *RedisSink) Write(ctx context.Context, ev Event) error {
	values := map[string]interface{}{
		"event_id": ev.ID,
		"action":   ev.Action,
		"entity":   ev.Entity,
		"username": ev.Username,
		"at":       ev.At.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if ev.UserID != nil {
		values["user_id"] = strconv.FormatUint(uint64(*ev.UserID), 10)
	}
	if ev.EntityID != nil {
		values["entity_id"] = strconv.FormatUint(uint64(*ev.EntityID), 10)
	}
	if meta := metadataJSON(ev.Metadata); meta != "" {
		values["metadata"] = meta
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err()
}

// LogSink writes events as structured log records.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "audit")}
}

func (s *LogSink) Write(ctx context.Context, ev Event) error {
	attrs := []any{
		"event_id", ev.ID,
		"action", ev.Action,
		"entity", ev.Entity,
		"username", ev.Username,
	}
	if ev.EntityID != nil {
		attrs = append(attrs, "entity_id", *ev.EntityID)
	}
	if ev.Metadata != nil {
		attrs = append(attrs, "metadata", ev.Metadata)
	}
	s.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
