package gameserver

import (
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestIdempotencyManager_CheckAndStore(t *testing.T) {
	im := NewIdempotencyManager(clock.NewMock())
	resp, err := structpb.NewStruct(map[string]interface{}{"outcome": "revealed"})
	require.NoError(t, err)

	assert.Nil(t, im.Check(revealMethod, "key-1"))

	im.Store(revealMethod, "key-1", resp)
	cached := im.Check(revealMethod, "key-1")
	require.NotNil(t, cached)
	assert.True(t, proto.Equal(resp, cached))
	assert.NotSame(t, resp, cached, "callers get their own copy")

	// Same key on another method is a different request
	assert.Nil(t, im.Check(toggleFlagMethod, "key-1"))
}

func TestIdempotencyManager_EmptyKeyIsNeverCached(t *testing.T) {
	im := NewIdempotencyManager(clock.NewMock())
	im.Store(revealMethod, "", &structpb.Struct{})

	assert.Equal(t, 0, im.Len())
	assert.Nil(t, im.Check(revealMethod, ""))
}

func TestIdempotencyManager_Expiry(t *testing.T) {
	mock := clock.NewMock()
	im := NewIdempotencyManager(mock)
	im.Store(revealMethod, "key-1", &structpb.Struct{})

	mock.Add(idempotencyTTL - time.Second)
	assert.NotNil(t, im.Check(revealMethod, "key-1"))

	mock.Add(2 * time.Second)
	assert.Nil(t, im.Check(revealMethod, "key-1"))
}

func TestIdempotencyManager_EvictsExpiredWhenFull(t *testing.T) {
	mock := clock.NewMock()
	im := NewIdempotencyManager(mock)

	for i := 0; i < idempotencyCacheSize; i++ {
		im.Store(revealMethod, fmt.Sprintf("key-%d", i), &structpb.Struct{})
	}
	require.Equal(t, idempotencyCacheSize, im.Len())

	mock.Add(idempotencyTTL + time.Minute)
	im.Store(revealMethod, "fresh", &structpb.Struct{})

	assert.Equal(t, 1, im.Len())
	assert.NotNil(t, im.Check(revealMethod, "fresh"))
}

func TestIdempotencyManager_Clear(t *testing.T) {
	im := NewIdempotencyManager(nil)
	im.Store(revealMethod, "key-1", &structpb.Struct{})
	im.Store(toggleFlagMethod, "key-2", &structpb.Struct{})
	require.Equal(t, 2, im.Len())

	im.Clear()
	assert.Equal(t, 0, im.Len())
	assert.Nil(t, im.Check(revealMethod, "key-1"))
}
