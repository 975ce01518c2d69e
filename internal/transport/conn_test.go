package transport

import "testing"

func TestConnSendReturnsErrPeerGoneWhenQueueFull(t *testing.T) {
	c := &Conn{send: make(chan Message, 1), identity: Identity{PlayerID: "alice"}}

	if err := c.Send(Message{Type: "state:sync"}); err != nil {
		t.Fatalf("expected first send to succeed, got %v", err)
	}
	if err := c.Send(Message{Type: "state:sync"}); err != ErrPeerGone {
		t.Fatalf("expected ErrPeerGone once the buffered queue is full, got %v", err)
	}
}

func TestConnIdentityGetSet(t *testing.T) {
	c := &Conn{send: make(chan Message, 1), identity: Identity{PlayerID: "alice"}}

	if c.Identity().PlayerID != "alice" {
		t.Fatalf("expected initial identity alice, got %q", c.Identity().PlayerID)
	}

	c.SetIdentity(Identity{PlayerID: "bob", IsMaster: true})
	if c.Identity().PlayerID != "bob" || !c.Identity().IsMaster {
		t.Fatalf("expected identity to update, got %#v", c.Identity())
	}
}
