package notifications

import (
	"encoding/json"
	"testing"
)

func captureClient(t *testing.T, id string) *[][]byte {
	t.Helper()
	received := &[][]byte{}
	client := AddClient(id, func(data []byte) bool {
		*received = append(*received, data)
		return true
	})
	t.Cleanup(func() { RemoveClient(id, client) })
	return received
}

func TestQueueFlush(t *testing.T) {
	received := captureClient(t, "flush-test")

	q := NewQueue()
	q.Publish(Notification{Type: TypeAlbumCreated, Entity: "album", EntityID: 1})
	q.Publish(Notification{Type: TypeImagesUploaded, Entity: "album", EntityID: 1})
	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}
	if len(*received) != 0 {
		t.Fatal("notifications delivered before flush")
	}

	q.Flush()
	if q.Len() != 0 {
		t.Errorf("len after flush = %d", q.Len())
	}
	if len(*received) != 2 {
		t.Fatalf("delivered = %d, want 2", len(*received))
	}
	var n Notification
	if err := json.Unmarshal((*received)[0], &n); err != nil {
		t.Fatal(err)
	}
	if n.Type != TypeAlbumCreated {
		t.Errorf("type = %q", n.Type)
	}
	if n.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}

	// Flushing again must not re-deliver.
	q.Flush()
	if len(*received) != 2 {
		t.Errorf("delivered after second flush = %d", len(*received))
	}
}

func TestQueueDiscard(t *testing.T) {
	received := captureClient(t, "discard-test")

	q := NewQueue()
	q.Publish(Notification{Type: TypeAlbumDeleted, Entity: "album", EntityID: 1})
	q.Discard()
	q.Flush()
	if len(*received) != 0 {
		t.Fatalf("delivered = %d after discard", len(*received))
	}
}

func TestBroadcastSkipsRemovedClient(t *testing.T) {
	received := [][]byte{}
	client := AddClient("removed-test", func(data []byte) bool {
		received = append(received, data)
		return true
	})
	RemoveClient("removed-test", client)

	Broadcast(Notification{Type: TypeCoverChanged, Entity: "imagem", EntityID: 1})
	if len(received) != 0 {
		t.Fatalf("removed client received %d notifications", len(received))
	}
}

// One user connected twice receives every notification on both connections.
func TestBroadcastMultipleConnections(t *testing.T) {
	first := captureClient(t, "multi-test")
	second := captureClient(t, "multi-test")

	Broadcast(Notification{Type: TypeRegionalsSynced, Entity: "regional"})
	if len(*first) != 1 || len(*second) != 1 {
		t.Fatalf("delivered = %d/%d, want 1/1", len(*first), len(*second))
	}
}
