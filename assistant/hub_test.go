package assistant

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &WsClient{
		Send:           make(chan []byte, 10),
		ConversationID: "convo1",
	}

	hub.register <- client

	msg := outboundPayload{Action: "chat", Content: "hello test"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{ConversationID: "convo1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubUnregisterAfterDroppedClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// unbuffered Send with no reader forces the broadcast drop path
	slow := &WsClient{Send: make(chan []byte), ConversationID: "convo1"}
	hub.register <- slow

	data, _ := json.Marshal(outboundPayload{Action: "chat", Content: "drop me"})
	hub.broadcast <- broadcastMsg{ConversationID: "convo1", Data: data}

	// the client's read loop still unregisters on disconnect; the hub
	// must not close Send a second time
	hub.unregister <- slow

	other := &WsClient{Send: make(chan []byte, 1), ConversationID: "convo1"}
	hub.register <- other
	hub.broadcast <- broadcastMsg{ConversationID: "convo1", Data: data}

	select {
	case <-other.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped serving after dropped-client unregister")
	}

	hub.unregister <- other
}

func TestHubBroadcastSkipsOtherConversations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &WsClient{Send: make(chan []byte, 10), ConversationID: "convoA"}
	b := &WsClient{Send: make(chan []byte, 10), ConversationID: "convoB"}
	hub.register <- a
	hub.register <- b

	data, _ := json.Marshal(outboundPayload{Action: "chat", Content: "only A"})
	hub.broadcast <- broadcastMsg{ConversationID: "convoA", Data: data}

	select {
	case <-a.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message on convoA")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("convoB should not receive broadcast, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}

	hub.unregister <- a
	hub.unregister <- b
}
