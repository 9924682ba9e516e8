package notifications

import (
	"encoding/json"
	"log"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

type ConnectedClient struct {
	fun SendSocketFunc
}

// ConnectedClients is needed as a user may be connected more than once
type ConnectedClients []*ConnectedClient

var (
	ConnectedUsers = cmap.New[ConnectedClients]()
)

func AddClient(id string, fun SendSocketFunc) *ConnectedClient {
	c := &ConnectedClient{fun: fun}
	ConnectedUsers.Upsert(id, ConnectedClients{c}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if exist {
			return append(valueInMap, c)
		}
		return newValue
	})
	return c
}

func RemoveClient(id string, c *ConnectedClient) {
	ConnectedUsers.Upsert(id, ConnectedClients{}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if !exist {
			return newValue
		}
		for _, oc := range valueInMap {
			if oc == c {
				continue
			}
			newValue = append(newValue, oc)
		}
		return newValue
	})
}

// Broadcast sends the notification to every connected client.
func Broadcast(n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification marshal: %v", err)
		return
	}
	for item := range ConnectedUsers.IterBuffered() {
		for _, client := range item.Val {
			client.fun(data)
		}
	}
}
