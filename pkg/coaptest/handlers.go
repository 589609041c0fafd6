package coaptest

import (
	"github.com/backkem/teleclient/pkg/message"
)

// ResponseFor builds a response carrying req's message ID and token.
// CON requests get a piggybacked ACK; NON requests get a NON response.
func ResponseFor(req *message.Message, code message.Code, payload []byte) *message.Message {
	t := message.Acknowledgement
	if req.Type == message.NonConfirmable {
		t = message.NonConfirmable
	}
	resp := message.New(t, code)
	resp.MessageID = req.MessageID
	resp.Token = append([]byte(nil), req.Token...)
	resp.SetPayload(payload)
	return resp
}

func encode(m *message.Message) [][]byte {
	data, err := m.Encode()
	if err != nil {
		return nil
	}
	return [][]byte{data}
}

// Respond answers every request with code and payload.
func Respond(code message.Code, payload []byte) Handler {
	return func(req *message.Message, _ int) [][]byte {
		return encode(ResponseFor(req, code, payload))
	}
}

// Echo answers with 2.05 Content carrying the request payload, or the
// request path when the payload is empty.
func Echo() Handler {
	return func(req *message.Message, _ int) [][]byte {
		payload := req.Payload
		if len(payload) == 0 {
			payload = []byte(req.URIPath())
		}
		return encode(ResponseFor(req, message.Content, payload))
	}
}

// Silent never answers.
func Silent() Handler {
	return func(*message.Message, int) [][]byte { return nil }
}

// Raw answers every request with the given bytes, verbatim.
func Raw(data []byte) Handler {
	return func(*message.Message, int) [][]byte {
		return [][]byte{append([]byte(nil), data...)}
	}
}

// Mismatched answers with h's response after flipping its message ID, so
// the client must reject it.
func Mismatched(h Handler) Handler {
	return func(req *message.Message, n int) [][]byte {
		var out [][]byte
		for _, d := range h(req, n) {
			if len(d) >= message.HeaderSize {
				d = append([]byte(nil), d...)
				d[2] ^= 0xFF
			}
			out = append(out, d)
		}
		return out
	}
}

// WrongToken answers with h's response after changing its token.
func WrongToken(h Handler) Handler {
	return func(req *message.Message, n int) [][]byte {
		fake := *req
		fake.Token = append([]byte(nil), req.Token...)
		if len(fake.Token) == 0 {
			fake.Token = []byte{0xEE}
		} else {
			fake.Token[0] ^= 0xFF
		}
		return h(&fake, n)
	}
}

// Both sends the replies of a, then those of b.
func Both(a, b Handler) Handler {
	return func(req *message.Message, n int) [][]byte {
		return append(a(req, n), b(req, n)...)
	}
}

// Script uses steps[n-1] for the nth request; the last step repeats.
func Script(steps ...Handler) Handler {
	return func(req *message.Message, n int) [][]byte {
		if len(steps) == 0 {
			return nil
		}
		i := min(n, len(steps)) - 1
		return steps[i](req, n)
	}
}

// IgnoreFirst stays silent for the first k requests, then delegates to h
// with requests numbered from 1 again.
func IgnoreFirst(k int, h Handler) Handler {
	return func(req *message.Message, n int) [][]byte {
		if n <= k {
			return nil
		}
		return h(req, n-k)
	}
}
