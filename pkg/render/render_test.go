package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/backkem/teleclient/pkg/message"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

func response(code message.Code, payload []byte) *message.Message {
	m := message.New(message.Acknowledgement, code)
	m.MessageID = 0x7d34
	m.Token = []byte{0xAB}
	m.SetPayload(payload)
	return m
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatRaw, false},
		{"raw", FormatRaw, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", FormatRaw, true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestWriteRaw(t *testing.T) {
	tests := []struct {
		name string
		resp *message.Message
		want string
	}{
		{"content with payload", response(message.Content, []byte("22.3 C")), "2.05 Content\n22.3 C\n"},
		{"no payload", response(message.Changed, nil), "2.04 Changed\n"},
		{"unregistered code", response(message.NewCode(2, 6), []byte("x")), "\nx\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, FormatRaw, tc.resp); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tc.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestNewViewBinaryPayload(t *testing.T) {
	v := NewView(response(message.Content, []byte{0xff, 0x00}))
	if v.Payload != "ff00" || v.PayloadEncoding != "hex" {
		t.Errorf("NewView() payload = %q (%s), want hex", v.Payload, v.PayloadEncoding)
	}
}

func TestWriteJSON(t *testing.T) {
	resp := response(message.Content, []byte(`{"t":22.3}`))
	resp.AddUintOption(message.ContentFormat, uint32(message.AppJSON))

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, resp); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got View
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := View{
		Code:          "2.05 Content",
		Type:          "ACK",
		MessageID:     0x7d34,
		Token:         "ab",
		ContentFormat: "application/json",
		Payload:       `{"t":22.3}`,
	}
	if got != want {
		t.Errorf("JSON view = %+v, want %+v", got, want)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, response(message.NotFound, nil)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["code"] != "4.04 Not Found" {
		t.Errorf("code = %v, want 4.04 Not Found", got["code"])
	}
	if _, ok := got["content_format"]; ok {
		t.Error("empty content_format was not omitted")
	}
}

func TestWriteTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	if err := Write(&buf, FormatTable, response(message.Content, []byte("hello"))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Code", "2.05 Content", "0x7d34", "hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
