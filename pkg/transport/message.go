package transport

import "net"

// ReceivedMessage is one datagram delivered by a Listener.
// Data holds the raw bytes as received; parsing is left to the handler.
type ReceivedMessage struct {
	// Data contains the raw datagram bytes.
	Data []byte
	// PeerAddr identifies the source of the datagram.
	PeerAddr net.Addr
}

// MessageHandler is called for each received datagram, on the listener's
// read goroutine.
type MessageHandler func(msg *ReceivedMessage)
