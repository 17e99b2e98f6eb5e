package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func contentKey(content string) string {
	return fmt.Sprintf("verdict:%x", sha256.Sum256([]byte(content)))
}

func TestVerdictCache_SetAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewVerdictCacheWithClient(client, time.Minute, testLogger())

	v := &verdict.Verdict{Safe: false, Title: "Violent Content", Category: "violence", Confidence: 80}
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	mock.ExpectSet(contentKey("page text"), string(raw), time.Minute).SetVal("OK")
	c.Set(context.Background(), "page text", v)

	mock.ExpectGet(contentKey("page text")).SetVal(string(raw))
	got, ok := c.Get(context.Background(), "page text")
	require.True(t, ok)
	assert.Equal(t, v.Category, got.Category)
	assert.Equal(t, v.Confidence, got.Confidence)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerdictCache_MissOnAbsentKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewVerdictCacheWithClient(client, time.Minute, testLogger())

	mock.ExpectGet(contentKey("unseen")).RedisNil()
	_, ok := c.Get(context.Background(), "unseen")
	assert.False(t, ok)
}

func TestVerdictCache_UndecodableEntryIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewVerdictCacheWithClient(client, time.Minute, testLogger())

	mock.ExpectGet(contentKey("corrupt")).SetVal("{not json")
	_, ok := c.Get(context.Background(), "corrupt")
	assert.False(t, ok)
}

func TestVerdictCache_NilReceiverIsAMiss(t *testing.T) {
	var c *VerdictCache

	_, ok := c.Get(context.Background(), "anything")
	assert.False(t, ok)

	// Set on a nil cache is a no-op, not a panic.
	c.Set(context.Background(), "anything", &verdict.Verdict{Safe: true})
}
