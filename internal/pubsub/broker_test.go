package pubsub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroker_PublishSubscribe(t *testing.T) {
	t.Run("should deliver to every subscriber of the topic", func(t *testing.T) {
		req := require.New(t)
		broker := NewBroker()

		first := broker.Subscribe("conversation:1:7")
		second := broker.Subscribe("conversation:1:7")
		other := broker.Subscribe("conversation:1:8")
		defer first.Close()
		defer second.Close()
		defer other.Close()

		broker.Publish("conversation:1:7", "hello")

		req.Equal("hello", (<-first.Events()).Payload)
		req.Equal("hello", (<-second.Events()).Payload)

		select {
		case <-other.Events():
			t.Fatal("event leaked to an unrelated topic")
		default:
		}
	})

	t.Run("should not deliver after close", func(t *testing.T) {
		req := require.New(t)
		broker := NewBroker()

		sub := broker.Subscribe("roster")
		sub.Close()

		broker.Publish("roster", "late")

		_, open := <-sub.Events()
		req.False(open)
	})

	t.Run("should tolerate closing twice", func(t *testing.T) {
		broker := NewBroker()

		sub := broker.Subscribe("roster")
		sub.Close()
		sub.Close()
	})

	t.Run("should keep other subscribers when one closes", func(t *testing.T) {
		req := require.New(t)
		broker := NewBroker()

		closing := broker.Subscribe("roster")
		staying := broker.Subscribe("roster")
		defer staying.Close()

		closing.Close()
		broker.Publish("roster", "still here")

		req.Equal("still here", (<-staying.Events()).Payload)
	})

	t.Run("should drop a subscriber whose buffer is full", func(t *testing.T) {
		req := require.New(t)
		broker := NewBroker()

		slow := broker.Subscribe("roster")
		for i := 0; i < subscriptionBuffer+1; i++ {
			broker.Publish("roster", i)
		}

		drained := 0
		for range slow.Events() {
			drained++
		}
		req.Equal(subscriptionBuffer, drained)
	})

	t.Run("should survive concurrent publish and close", func(t *testing.T) {
		broker := NewBroker()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			sub := broker.Subscribe("roster")

			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					broker.Publish("roster", j)
				}
			}()
			go func() {
				defer wg.Done()
				sub.Close()
			}()
		}
		wg.Wait()
	})
}
