package control

import (
	"github.com/google/uuid"
)

// ChangedHandler is called with the control that changed
type ChangedHandler func(c *Control)

// Subscription identifies a registered ChangedHandler
type Subscription uuid.UUID

type observer struct {
	subscription Subscription
	handler      ChangedHandler
}

// observers is an ordered list of change handlers, not safe for concurrent use
type observers struct {
	entries []observer
}

func (o *observers) subscribe(handler ChangedHandler) Subscription {
	subscription := Subscription(uuid.New())
	o.entries = append(o.entries, observer{
		subscription: subscription,
		handler:      handler,
	})
	return subscription
}

func (o *observers) unsubscribe(subscription Subscription) bool {
	for i, entry := range o.entries {
		if entry.subscription == subscription {
			o.entries = append(o.entries[:i:i], o.entries[i+1:]...)
			return true
		}
	}
	return false
}

// notifyAll calls every handler in registration order
func (o *observers) notifyAll(c *Control) {
	entries := make([]observer, len(o.entries))
	copy(entries, o.entries)
	for _, entry := range entries {
		entry.handler(c)
	}
}

func (o *observers) count() int {
	return len(o.entries)
}
