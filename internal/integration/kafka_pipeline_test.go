//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/shelter-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/shelter-data-etl/internal/config"
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/couchcryptid/shelter-data-etl/internal/observability"
	"github.com/couchcryptid/shelter-data-etl/internal/parser"
	"github.com/couchcryptid/shelter-data-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-shelters"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// publishedShelter holds a deserialized message read from the shelter topic.
type publishedShelter struct {
	Shelter domain.Shelter
	Key     string
	Headers map[string]string
}

func readShelters(ctx context.Context, t *testing.T, broker string, n int) []publishedShelter {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]publishedShelter, 0, n)
	for len(out) < n {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read from shelter topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		var s domain.Shelter
		require.NoError(t, json.Unmarshal(msg.Value, &s), "unmarshal shelter message")
		out = append(out, publishedShelter{Shelter: s, Key: string(msg.Key), Headers: headers})
	}
	return out
}

// TestPipelineToKafka runs the pipeline over a source directory and publishes
// the result through kafka.Writer, then reads every record back.
func TestPipelineToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "earthquake_seoul.csv"), []byte(
		"대피소명,주소,위도,경도,수용인원\n"+
			"A센터,서울특별시 종로구 1,37.57,126.98,120\n"+
			"B센터,서울특별시 중구 2,37.56,126.99,\n"+
			"C센터,경기도 수원시 3,37.28,127.01,\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flood_seoul.csv"), []byte(
		"대피소명,주소,위도,경도\n"+
			"A센터,서울특별시 종로구 1,37.57,126.98\n"), 0o600))

	logger := discardLogger()
	p := pipeline.New(parser.New(logger), domain.NewNormalizer(nil, logger), nil, logger, observability.NewMetricsForTesting(), 2)
	res, err := p.Run(ctx, dir)
	require.NoError(t, err)
	require.Len(t, res.Shelters, 3)

	// A batch size smaller than the record count exercises chunked publishing.
	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
		BatchSize:    2,
	}
	writer := kafka.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.Save(ctx, res.Shelters))

	got := readShelters(ctx, t, broker, len(res.Shelters))

	byKey := make(map[string]publishedShelter, len(got))
	for _, m := range got {
		byKey[m.Key] = m
	}
	for _, want := range res.Shelters {
		key, ok := domain.DedupKey(want)
		require.True(t, ok)
		m, ok := byKey[key]
		require.True(t, ok, "shelter %s not published", key)
		assert.Equal(t, want.ID, m.Headers["shelter_id"])
		assert.Equal(t, want.Name, m.Shelter.Name)
		assert.Equal(t, want.Address, m.Shelter.Address)
		assert.Equal(t, want.Location, m.Shelter.Location)
		assert.Equal(t, string(want.Type), m.Headers["shelter_type"])
		assert.Equal(t, want.Source.Region, m.Headers["region"])
		assert.NotEmpty(t, m.Headers["published_at"])
	}

	aKey, _ := domain.DedupKey(res.Shelters[0])
	a := byKey[aKey].Shelter
	assert.Equal(t, domain.TypeEarthquake, a.Type, "earlier file wins deduplication")
	require.NotNil(t, a.Details.Capacity)
	assert.Equal(t, 120, *a.Details.Capacity)
}
