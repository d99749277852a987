package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRemote_IgnoresOwnMessages(t *testing.T) {
	orig := localID
	t.Cleanup(func() { localID = orig })
	localID = "node-a"

	own, _ := json.Marshal(BroadcastMessage{Code: CodeCacheStats, SenderID: "node-a"})
	_, ok := decodeRemote(string(own))
	assert.False(t, ok)

	other, _ := json.Marshal(BroadcastMessage{Code: CodeCacheStats, SenderID: "node-b"})
	msg, ok := decodeRemote(string(other))
	require.True(t, ok)
	assert.Equal(t, "node-b", msg.SenderID)

	_, ok = decodeRemote("not json")
	assert.False(t, ok)
}

func TestPublishStats_NeverBlocks(t *testing.T) {
	for i := 0; i < cap(Broadcast)+5; i++ {
		PublishStats(cacheDomain.ServerStats{ServerID: "node-a"})
	}
	assert.Equal(t, cap(Broadcast), len(Broadcast))

	msg := <-Broadcast
	assert.Equal(t, CodeCacheStats, msg.Code)
	for len(Broadcast) > 0 {
		<-Broadcast
	}
}

func TestRunHub_SendsAfterStopDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	RunHub(ctx)

	done := make(chan [2]bool, 1)
	go func() {
		var conn *websocket.Conn
		done <- [2]bool{toHub(Register, conn), toHub(Unregister, conn)}
	}()

	select {
	case res := <-done:
		assert.False(t, res[0])
		assert.False(t, res[1])
	case <-time.After(time.Second):
		t.Fatal("hub channel send blocked after the hub stopped")
	}

	// a second run after stop must not panic on the closed done channel
	assert.NotPanics(t, func() { RunHub(ctx) })
}
