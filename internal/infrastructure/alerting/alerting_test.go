package alerting

import (
	"testing"

	"hdrcommit/internal/config"
	"hdrcommit/internal/infrastructure/kafka"
)

func TestNotifiersNoneConfigured(t *testing.T) {
	notifiers, closeAll := Notifiers(config.Config{})
	defer closeAll()
	if len(notifiers) != 0 {
		t.Fatalf("expected no notifiers, got %d", len(notifiers))
	}
}

func TestNotifiersKafka(t *testing.T) {
	notifiers, closeAll := Notifiers(config.Config{KafkaBrokers: []string{"localhost:9092"}})
	defer closeAll()
	if len(notifiers) != 1 {
		t.Fatalf("expected one notifier, got %d", len(notifiers))
	}
	if _, ok := notifiers[0].(*kafka.Publisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", notifiers[0])
	}
}

func TestNotifiersSkipsUnreachableRedis(t *testing.T) {
	notifiers, closeAll := Notifiers(config.Config{RedisAddr: "127.0.0.1:1"})
	defer closeAll()
	if len(notifiers) != 0 {
		t.Fatalf("unreachable redis should be skipped, got %d notifiers", len(notifiers))
	}
}
