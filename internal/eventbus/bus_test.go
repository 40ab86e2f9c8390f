package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBus_FanOut(t *testing.T) {
	b := New()
	id1, ch1 := b.Subscribe(4)
	id2, ch2 := b.Subscribe(4)
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	b.PublishNew(TaskCreated, "user-1", "task-1", map[string]string{"title": "milk"})

	for _, ch := range []<-chan *Event{ch1, ch2} {
		ev := <-ch
		assert.Equal(t, TaskCreated, ev.Type)
		assert.Equal(t, "user-1", ev.UserID)
		assert.Equal(t, "task-1", ev.ResourceID)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)

	b.PublishNew(TaskCreated, "u", "a", nil)
	b.PublishNew(TaskDeleted, "u", "b", nil)

	ev := <-ch
	assert.Equal(t, "a", ev.ResourceID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	require.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(id)
	b.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBus_ConcurrentPublish(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(100)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				b.PublishNew(TaskUpdated, "u", "t", nil)
			}
		}()
	}
	wg.Wait()
	b.Unsubscribe(id)

	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, 100, n)
}
