package workflow

import (
	"sync"
	"testing"
)

func TestMailboxSendReceive(t *testing.T) {
	mb := NewMailbox[string]()

	mb.Send("payload", "validator", "reporter")

	msg, ok := mb.Receive("reporter")
	if !ok {
		t.Fatal("Receive returned false for an addressed message")
	}
	if msg.Data != "payload" || msg.Source != "validator" || msg.Target != "reporter" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, ok := mb.Receive("reporter"); ok {
		t.Error("second Receive succeeded; the slot must empty on consume")
	}
}

func TestMailboxWrongTarget(t *testing.T) {
	mb := NewMailbox[int]()
	mb.Send(42, "a", "b")

	if _, ok := mb.Receive("c"); ok {
		t.Error("Receive succeeded for a stage the message is not addressed to")
	}
	// The message stays for the intended stage.
	if msg, ok := mb.Receive("b"); !ok || msg.Data != 42 {
		t.Errorf("intended stage could not receive: ok=%v msg=%+v", ok, msg)
	}
}

func TestMailboxOverwrite(t *testing.T) {
	mb := NewMailbox[int]()
	mb.Send(1, "a", "b")
	mb.Send(2, "a", "b")

	msg, ok := mb.Receive("b")
	if !ok || msg.Data != 2 {
		t.Errorf("Receive = (%+v, %v), want the later payload", msg, ok)
	}
}

func TestMailboxClear(t *testing.T) {
	mb := NewMailbox[int]()
	mb.Send(1, "a", "b")
	mb.Clear()

	if _, ok := mb.Receive("b"); ok {
		t.Error("Receive succeeded after Clear")
	}
}

func TestMailboxConcurrent(t *testing.T) {
	mb := NewMailbox[int]()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			mb.Send(n, "a", "b")
		}(i)
		go func() {
			defer wg.Done()
			mb.Receive("b")
		}()
	}
	wg.Wait()
}
