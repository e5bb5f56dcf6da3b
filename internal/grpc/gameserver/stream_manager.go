package gameserver

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"
)

const streamBufferSize = 16

// streamClient is one WatchGame subscriber
type streamClient struct {
	id         string
	updateChan chan *structpb.Struct
}

// Updates is closed when the client is unregistered or the game goes away
func (c *streamClient) Updates() <-chan *structpb.Struct {
	return c.updateChan
}

// StreamManager fans game updates out to every watcher of one game
type StreamManager struct {
	clients   map[string]*streamClient
	clientsMu sync.RWMutex
	logger    zerolog.Logger
}

// NewStreamManager creates a new stream manager
func NewStreamManager(logger zerolog.Logger) *StreamManager {
	return &StreamManager{
		clients: make(map[string]*streamClient),
		logger:  logger,
	}
}

// RegisterClient adds a watcher and returns it
func (sm *StreamManager) RegisterClient() *streamClient {
	client := &streamClient{
		id:         uuid.NewString(),
		updateChan: make(chan *structpb.Struct, streamBufferSize),
	}

	sm.clientsMu.Lock()
	sm.clients[client.id] = client
	total := len(sm.clients)
	sm.clientsMu.Unlock()

	sm.logger.Debug().
		Str("stream_id", client.id).
		Int("total_streams", total).
		Msg("Stream client registered")
	return client
}

// UnregisterClient removes a watcher and closes its channel
func (sm *StreamManager) UnregisterClient(id string) {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	if client, exists := sm.clients[id]; exists {
		close(client.updateChan)
		delete(sm.clients, id)

		sm.logger.Debug().
			Str("stream_id", id).
			Int("remaining_streams", len(sm.clients)).
			Msg("Stream client unregistered")
	}
}

// BroadcastToAll queues update for every watcher. A watcher whose buffer is
// full misses the update rather than blocking the game.
func (sm *StreamManager) BroadcastToAll(update *structpb.Struct) {
	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()

	for id, client := range sm.clients {
		select {
		case client.updateChan <- update:
		default:
			sm.logger.Warn().
				Str("stream_id", id).
				Msg("Stream update channel full, dropping update")
		}
	}
}

// GetClientCount returns the number of connected stream clients
func (sm *StreamManager) GetClientCount() int {
	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()
	return len(sm.clients)
}

// CloseAll closes all stream clients
func (sm *StreamManager) CloseAll() {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	for id, client := range sm.clients {
		close(client.updateChan)
		delete(sm.clients, id)
	}
}
