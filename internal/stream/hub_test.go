package stream

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
)

func testTrade(accountID string) models.Trade {
	return models.NewBuyTrade("t1", accountID, "AAPL", "Apple", models.AssetStock,
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, time.Now())
}

func waitForEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubDeliversToAccountSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	alice := hub.Subscribe("account-alice")
	bob := hub.Subscribe("account-bob")

	hub.Publish(NewTradeEvent("account-alice", testTrade("account-alice")))

	ev := waitForEvent(t, alice)
	if ev.Kind != EventTrade {
		t.Errorf("kind = %s, want trade", ev.Kind)
	}
	if ev.AccountID != "account-alice" {
		t.Errorf("account = %s, want account-alice", ev.AccountID)
	}
	if ev.Trade == nil || ev.Trade.Symbol != "AAPL" {
		t.Error("trade payload missing")
	}

	select {
	case ev := <-bob:
		t.Errorf("bob received alice's event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubMultipleSubscribersSameAccount(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	a := hub.Subscribe("account-alice")
	b := hub.Subscribe("account-alice")

	hub.Publish(NewResetEvent("account-alice", models.Account{ID: "account-alice"}))

	for _, ch := range []<-chan Event{a, b} {
		ev := waitForEvent(t, ch)
		if ev.Kind != EventReset {
			t.Errorf("kind = %s, want reset", ev.Kind)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	ch := hub.Subscribe("account-alice")
	if hub.SubscriberCount("account-alice") != 1 {
		t.Fatalf("subscriber count = %d, want 1", hub.SubscriberCount("account-alice"))
	}

	hub.Unsubscribe("account-alice", ch)
	if hub.SubscriberCount("account-alice") != 0 {
		t.Errorf("subscriber count = %d after unsubscribe, want 0", hub.SubscriberCount("account-alice"))
	}

	// The channel is closed so consumers can tell the stream ended.
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after unsubscribe")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after unsubscribe")
	}
}

func TestHubPublishBeforeStartDoesNotBlock(t *testing.T) {
	hub := NewHubWithConfig(HubConfig{BufferSize: 1, SubscriberBufferSize: 1})

	// Publishing with a full buffer and no broadcast loop must drop,
	// never block the trading path.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.Publish(NewTradeEvent("account-alice", testTrade("account-alice")))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full hub")
	}

	if hub.Metrics().EventsDropped == 0 {
		t.Error("expected dropped events to be counted")
	}
}

func TestHubStopClosesSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)

	ch := hub.Subscribe("account-alice")
	hub.Stop()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after Stop")
	}

	if hub.IsStarted() {
		t.Error("hub still reports started after Stop")
	}
}
