// Package render writes a decoded CoAP response for humans or tools.
package render

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/backkem/teleclient/pkg/message"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("render: unknown format")

// Format selects an output rendering.
type Format int

// Format constants.
const (
	// FormatRaw prints the code line, then the payload verbatim.
	FormatRaw Format = iota
	FormatTable
	FormatJSON
	FormatYAML
)

// String returns the flag spelling of the format.
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return FormatRaw, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatRaw, fmt.Errorf("%w %q (want raw, table, json or yaml)", ErrUnknownFormat, s)
}

// View is the structured form of a response used by the table, JSON and
// YAML renderings.
type View struct {
	Code          string `json:"code" yaml:"code"`
	Type          string `json:"type" yaml:"type"`
	MessageID     uint16 `json:"message_id" yaml:"message_id"`
	Token         string `json:"token" yaml:"token"`
	ContentFormat string `json:"content_format,omitempty" yaml:"content_format,omitempty"`
	Payload       string `json:"payload" yaml:"payload"`
	// PayloadEncoding is "hex" when the payload is not valid UTF-8.
	PayloadEncoding string `json:"payload_encoding,omitempty" yaml:"payload_encoding,omitempty"`
}

// NewView builds the structured form of resp.
func NewView(resp *message.Message) View {
	v := View{
		Code:      resp.Code.String(),
		Type:      resp.Type.String(),
		MessageID: resp.MessageID,
		Token:     hex.EncodeToString(resp.Token),
	}
	if cf, ok := resp.ContentFormat(); ok {
		v.ContentFormat = cf.String()
	}
	if utf8.Valid(resp.Payload) {
		v.Payload = string(resp.Payload)
	} else {
		v.Payload = hex.EncodeToString(resp.Payload)
		v.PayloadEncoding = "hex"
	}
	return v
}

// Write renders resp to w in format f.
func Write(w io.Writer, f Format, resp *message.Message) error {
	switch f {
	case FormatRaw:
		return writeRaw(w, resp)
	case FormatTable:
		return writeTable(w, NewView(resp))
	case FormatJSON:
		b, err := json.MarshalIndent(NewView(resp), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case FormatYAML:
		b, err := yaml.Marshal(NewView(resp))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("%w %d", ErrUnknownFormat, int(f))
}

// writeRaw prints the registered code name (an empty line for unknown
// codes), then the payload and a newline when there is one.
func writeRaw(w io.Writer, resp *message.Message) error {
	name, _ := message.CodeToString(resp.Code)
	if _, err := fmt.Fprintln(w, name); err != nil {
		return err
	}
	if len(resp.Payload) == 0 {
		return nil
	}
	if _, err := w.Write(resp.Payload); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeTable(w io.Writer, v View) error {
	data := pterm.TableData{
		{"Field", "Value"},
		{"Code", v.Code},
		{"Type", v.Type},
		{"Message ID", "0x" + strconv.FormatUint(uint64(v.MessageID), 16)},
		{"Token", v.Token},
	}
	if v.ContentFormat != "" {
		data = append(data, []string{"Content-Format", v.ContentFormat})
	}
	payload := v.Payload
	if v.PayloadEncoding != "" {
		payload += " (" + v.PayloadEncoding + ")"
	}
	data = append(data, []string{"Payload", payload})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
