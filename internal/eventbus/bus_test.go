package eventbus

import (
	"sync"
	"testing"
)

func TestPublishReachesSubscribersInOrder(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(TopicToolCall, func(e Event) { got = append(got, "first") })
	b.Subscribe(TopicToolCall, func(e Event) { got = append(got, "second") })

	b.Publish(TopicToolCall, "payload")

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("handlers ran out of order: %v", got)
	}
}

func TestPublishCarriesPayloadAndTopic(t *testing.T) {
	b := New()

	var event Event
	b.Subscribe(TopicError, func(e Event) { event = e })

	b.Publish(TopicError, "boom")

	if event.Topic != TopicError {
		t.Errorf("topic = %q", event.Topic)
	}
	if event.Payload != "boom" {
		t.Errorf("payload = %v", event.Payload)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	// Must not panic.
	b.Publish(TopicLLMRequest, nil)
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()

	called := false
	b.Subscribe(TopicToolResult, func(Event) { called = true })

	b.Publish(TopicToolCall, nil)
	if called {
		t.Error("handler fired for the wrong topic")
	}
}

func TestConcurrentPublish(t *testing.T) {
	b := New()

	var mu sync.Mutex
	count := 0
	b.Subscribe(TopicToolCall, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(TopicToolCall, nil)
		}()
	}
	wg.Wait()

	if count != 20 {
		t.Errorf("expected 20 deliveries, got %d", count)
	}
}
