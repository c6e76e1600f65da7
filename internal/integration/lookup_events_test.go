//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/weather-mcp-server/internal/adapter/kafka"
	"github.com/couchcryptid/weather-mcp-server/internal/config"
	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/observability"
	"github.com/couchcryptid/weather-mcp-server/internal/pipeline"
)

const testLookupTopic = "test-location-lookups"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("weather-mcp-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestLookupEventsReachKafka runs the publisher against a real broker and
// reads the events back off the topic.
func TestLookupEventsReachKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testLookupTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaLookupTopic: testLookupTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	publisher := pipeline.NewPublisher(writer, discardLogger(), metrics, 2, 100*time.Millisecond, nil)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, publisher.Run(runCtx))
	}()

	resolved := domain.NewLookupEvent("resolve_location", "Springfield, IL",
		domain.LocationResult{Latitude: 39.7817, Longitude: -89.6501, LocationName: "Springfield, Illinois, United States"}, nil)
	ambiguous := domain.NewLookupEvent("resolve_location", "Springfield",
		domain.LocationResult{}, domain.NewError(domain.CodeLocationAmbiguous, "ambiguous"))
	publisher.Publish(resolved)
	publisher.Publish(ambiguous)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testLookupTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = reader.Close() })

	got := map[string]domain.LookupEvent{}
	keys := map[string]string{}
	for len(got) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := reader.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read lookup event")

		var ev domain.LookupEvent
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		got[ev.ID] = ev
		keys[ev.ID] = string(msg.Key)
	}

	stop()
	<-done

	require.Contains(t, got, resolved.ID)
	require.Contains(t, got, ambiguous.ID)
	assert.Equal(t, domain.OutcomeResolved, got[resolved.ID].Outcome)
	assert.Equal(t, "Springfield, Illinois, United States", got[resolved.ID].LocationName)
	assert.NotEqual(t, resolved.ID, keys[resolved.ID], "resolved events are keyed by cell")
	assert.Equal(t, domain.OutcomeAmbiguous, got[ambiguous.ID].Outcome)
	assert.Equal(t, domain.CodeLocationAmbiguous, got[ambiguous.ID].ErrorCode)
	assert.Equal(t, ambiguous.ID, keys[ambiguous.ID])
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.LookupEventsPublished), 0)
}
