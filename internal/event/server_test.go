package event_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskchat/internal/event"
	"github.com/kazz187/taskchat/internal/eventbus"
)

func newStream(t *testing.T, bus *eventbus.Bus, query string) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api/users/{user_id}", event.NewServer(bus, time.Hour).Register)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/users/alice/events"+query, nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readLine(t, reader))
	assert.Equal(t, "", readLine(t, reader))
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)
	return reader, cancel
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

// readEvent reads one "id / event / data" frame.
func readEvent(t *testing.T, r *bufio.Reader) eventbus.Event {
	t.Helper()
	id := strings.TrimPrefix(readLine(t, r), "id: ")
	typ := strings.TrimPrefix(readLine(t, r), "event: ")
	data := strings.TrimPrefix(readLine(t, r), "data: ")
	assert.Equal(t, "", readLine(t, r))

	var e eventbus.Event
	require.NoError(t, json.Unmarshal([]byte(data), &e))
	assert.Equal(t, id, e.ID)
	assert.Equal(t, typ, string(e.Type))
	return e
}

func TestStreamEvents_OnlyOwnerEvents(t *testing.T) {
	bus := eventbus.New()
	reader, cancel := newStream(t, bus, "")

	bus.PublishNew(eventbus.TaskCreated, "bob", "t0", nil)
	bus.PublishNew(eventbus.TaskCreated, "alice", "t1", map[string]string{"title": "Buy milk"})
	bus.PublishNew(eventbus.TaskDeleted, "alice", "t1", nil)

	e := readEvent(t, reader)
	assert.Equal(t, eventbus.TaskCreated, e.Type)
	assert.Equal(t, "t1", e.ResourceID)
	assert.Equal(t, "Buy milk", e.Metadata["title"])
	assert.Equal(t, eventbus.TaskDeleted, readEvent(t, reader).Type)

	cancel()
	assert.Eventually(t, func() bool { return bus.SubscriberCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStreamEvents_TypeFilter(t *testing.T) {
	bus := eventbus.New()
	reader, _ := newStream(t, bus, "?types=task.toggled,task.deleted")

	bus.PublishNew(eventbus.TaskCreated, "alice", "t1", nil)
	bus.PublishNew(eventbus.TaskToggled, "alice", "t1", map[string]string{"completed": "true"})

	e := readEvent(t, reader)
	assert.Equal(t, eventbus.TaskToggled, e.Type)
	assert.Equal(t, "true", e.Metadata["completed"])
}
