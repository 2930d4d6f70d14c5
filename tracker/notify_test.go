package tracker

import (
	"testing"
	"time"
)

func TestPublishKeepsFIFOOrder(t *testing.T) {
	n := NewNotifier(time.Minute)
	n.Publish(KindSuccess, "first")
	n.Publish(KindError, "second")
	n.Publish(KindInfo, "third")

	active := n.Active()
	if len(active) != 3 {
		t.Fatalf("want 3 active, got %d", len(active))
	}
	if active[0].Message != "first" || active[2].Message != "third" {
		t.Fatalf("queue order incorrect: %v", active)
	}
	if active[0].ID == active[1].ID {
		t.Fatalf("ids must be unique")
	}
}

func TestDismissRemovesAnyPosition(t *testing.T) {
	n := NewNotifier(time.Minute)
	n.Publish(KindInfo, "a")
	id := n.Publish(KindInfo, "b")
	n.Publish(KindInfo, "c")

	n.Dismiss(id)
	active := n.Active()
	if len(active) != 2 {
		t.Fatalf("want 2 active, got %d", len(active))
	}
	if active[0].Message != "a" || active[1].Message != "c" {
		t.Fatalf("wrong survivors: %v", active)
	}

	// Unknown id is ignored.
	n.Dismiss("nope")
	if len(n.Active()) != 2 {
		t.Fatalf("dismissing unknown id changed the queue")
	}
}

func TestEntriesExpireAfterWindow(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	n.Publish(KindSuccess, "short-lived")
	n.Publish(KindSuccess, "also short-lived")

	deadline := time.After(2 * time.Second)
	for len(n.Active()) > 0 {
		select {
		case <-deadline:
			t.Fatalf("entries did not expire, %d left", len(n.Active()))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDrainEmptiesQueue(t *testing.T) {
	n := NewNotifier(time.Minute)
	n.Publish(KindSuccess, "one")
	n.Publish(KindInfo, "two")

	drained := n.Drain()
	if len(drained) != 2 || drained[0].Message != "one" {
		t.Fatalf("drain returned %v", drained)
	}
	if len(n.Active()) != 0 {
		t.Fatalf("queue should be empty after drain")
	}
}
