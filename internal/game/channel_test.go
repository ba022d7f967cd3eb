package game

import "testing"

func TestChannel_DeliversInCallOrder(t *testing.T) {
	ch := NewStimulusChannel()
	var got []float64
	ch.Subscribe(func(v float64) { got = append(got, v) })
	ch.Publish(1)
	ch.Publish(2)
	ch.Publish(3)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestChannel_FanOutToAllSubscribers(t *testing.T) {
	ch := NewStimulusChannel()
	a, b := 0.0, 0.0
	ch.Subscribe(func(v float64) { a += v })
	ch.Subscribe(func(v float64) { b += v })
	ch.Publish(5)
	if a != 5 || b != 5 {
		t.Fatalf("expected both subscribers to receive 5, got a=%.1f b=%.1f", a, b)
	}
}

func TestChannel_PublishWithNoSubscribersIsDropped(t *testing.T) {
	ch := NewStimulusChannel()
	ch.Publish(10) // must not panic
	got := 0.0
	ch.Subscribe(func(v float64) { got += v })
	if got != 0 {
		t.Fatalf("late subscriber must not see earlier values, got %.1f", got)
	}
}

func TestChannel_Unsubscribe(t *testing.T) {
	ch := NewStimulusChannel()
	calls := 0
	id := ch.Subscribe(func(float64) { calls++ })
	ch.Unsubscribe(id)
	ch.Unsubscribe(id) // repeated removal is a no-op
	ch.Unsubscribe(999)
	ch.Publish(1)
	if calls != 0 {
		t.Fatalf("unsubscribed callback ran %d times", calls)
	}
	if ch.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", ch.Len())
	}
}

func TestChannel_SelfUnsubscribeDuringDispatch(t *testing.T) {
	ch := NewStimulusChannel()
	var first Subscription
	firstCalls, secondCalls := 0, 0
	first = ch.Subscribe(func(float64) {
		firstCalls++
		ch.Unsubscribe(first)
	})
	ch.Subscribe(func(float64) { secondCalls++ })

	ch.Publish(1)
	if firstCalls != 1 || secondCalls != 1 {
		t.Fatalf("first dispatch: expected 1/1 calls, got %d/%d", firstCalls, secondCalls)
	}
	ch.Publish(1)
	if firstCalls != 1 || secondCalls != 2 {
		t.Fatalf("second dispatch: expected 1/2 calls, got %d/%d", firstCalls, secondCalls)
	}
}

func TestChannel_RemoveOtherDuringDispatch(t *testing.T) {
	ch := NewStimulusChannel()
	var second Subscription
	secondCalls := 0
	ch.Subscribe(func(float64) { ch.Unsubscribe(second) })
	second = ch.Subscribe(func(float64) { secondCalls++ })

	// The set was captured before dispatch, so the removed subscriber
	// still receives this value but none after it.
	ch.Publish(1)
	ch.Publish(1)
	if secondCalls != 1 {
		t.Fatalf("expected removed subscriber to be called once, got %d", secondCalls)
	}
}

func TestChannel_SubscribeDuringDispatchWaitsForNextPublish(t *testing.T) {
	ch := NewStimulusChannel()
	lateCalls := 0
	added := false
	ch.Subscribe(func(float64) {
		if !added {
			added = true
			ch.Subscribe(func(float64) { lateCalls++ })
		}
	})
	ch.Publish(1)
	if lateCalls != 0 {
		t.Fatalf("subscriber added mid-dispatch must not see the current value")
	}
	ch.Publish(1)
	if lateCalls != 1 {
		t.Fatalf("expected late subscriber to see the next value, got %d", lateCalls)
	}
}

func TestChannel_NilCallbackIgnored(t *testing.T) {
	ch := NewStimulusChannel()
	if id := ch.Subscribe(nil); id != 0 {
		t.Fatalf("expected zero handle for nil callback, got %d", id)
	}
	ch.Publish(1)
}
