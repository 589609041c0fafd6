// Package message implements the CoAP message model and its binary wire
// format as defined in RFC 7252 Section 3.
//
// The package provides:
//   - Message type, code, option and media type registries
//   - Option storage with bounded capacity and ordered lookup
//   - Deterministic encoding and strict decoding of UDP message frames
package message

import "fmt"

// Type is the CoAP message type carried in the T field of the header.
// See RFC 7252 Section 4.
type Type uint8

const (
	// Confirmable messages expect an acknowledgement from the peer.
	Confirmable Type = 0

	// NonConfirmable messages are sent best-effort.
	NonConfirmable Type = 1

	// Acknowledgement acknowledges a Confirmable message.
	Acknowledgement Type = 2

	// Reset indicates a message could not be processed.
	Reset Type = 3
)

// String returns the short RFC name for the type.
func (t Type) String() string {
	switch t {
	case Confirmable:
		return "CON"
	case NonConfirmable:
		return "NON"
	case Acknowledgement:
		return "ACK"
	case Reset:
		return "RST"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the type fits in the 2-bit T field.
func (t Type) IsValid() bool {
	return t <= Reset
}

// Code is the 8-bit CoAP code, split into a 3-bit class and 5-bit detail.
// See RFC 7252 Section 12.1.
type Code uint8

// NewCode builds a code from its class and detail ("c.dd").
func NewCode(class, detail uint8) Code {
	return Code(class<<5 | detail&0x1F)
}

// Class returns the code class (0 = request, 2 = success, 4 = client error,
// 5 = server error).
func (c Code) Class() uint8 {
	return uint8(c) >> 5
}

// Detail returns the code detail.
func (c Code) Detail() uint8 {
	return uint8(c) & 0x1F
}

// IsRequest returns true for method codes (class 0, non-empty).
func (c Code) IsRequest() bool {
	return c.Class() == 0 && c != Empty
}

// IsResponse returns true for codes in classes 2 through 5.
func (c Code) IsResponse() bool {
	class := c.Class()
	return class >= 2 && class <= 5
}

// Method and response codes (RFC 7252 Section 12.1.1 and 12.1.2).
const (
	Empty  Code = 0x00
	GET    Code = 0x01
	POST   Code = 0x02
	PUT    Code = 0x03
	DELETE Code = 0x04

	Created  Code = 0x41 // 2.01
	Deleted  Code = 0x42 // 2.02
	Valid    Code = 0x43 // 2.03
	Changed  Code = 0x44 // 2.04
	Content  Code = 0x45 // 2.05
	Continue Code = 0x5F // 2.31

	BadRequest               Code = 0x80 // 4.00
	Unauthorized             Code = 0x81 // 4.01
	BadOption                Code = 0x82 // 4.02
	Forbidden                Code = 0x83 // 4.03
	NotFound                 Code = 0x84 // 4.04
	MethodNotAllowed         Code = 0x85 // 4.05
	NotAcceptable            Code = 0x86 // 4.06
	RequestEntityIncomplete  Code = 0x88 // 4.08
	PreconditionFailed       Code = 0x8C // 4.12
	RequestEntityTooLarge    Code = 0x8D // 4.13
	UnsupportedContentFormat Code = 0x8F // 4.15

	InternalServerError  Code = 0xA0 // 5.00
	NotImplemented       Code = 0xA1 // 5.01
	BadGateway           Code = 0xA2 // 5.02
	ServiceUnavailable   Code = 0xA3 // 5.03
	GatewayTimeout       Code = 0xA4 // 5.04
	ProxyingNotSupported Code = 0xA5 // 5.05
)

var codeNames = map[Code]string{
	Empty:                    "Empty",
	GET:                      "GET",
	POST:                     "POST",
	PUT:                      "PUT",
	DELETE:                   "DELETE",
	Created:                  "Created",
	Deleted:                  "Deleted",
	Valid:                    "Valid",
	Changed:                  "Changed",
	Content:                  "Content",
	Continue:                 "Continue",
	BadRequest:               "Bad Request",
	Unauthorized:             "Unauthorized",
	BadOption:                "Bad Option",
	Forbidden:                "Forbidden",
	NotFound:                 "Not Found",
	MethodNotAllowed:         "Method Not Allowed",
	NotAcceptable:            "Not Acceptable",
	RequestEntityIncomplete:  "Request Entity Incomplete",
	PreconditionFailed:       "Precondition Failed",
	RequestEntityTooLarge:    "Request Entity Too Large",
	UnsupportedContentFormat: "Unsupported Content-Format",
	InternalServerError:      "Internal Server Error",
	NotImplemented:           "Not Implemented",
	BadGateway:               "Bad Gateway",
	ServiceUnavailable:       "Service Unavailable",
	GatewayTimeout:           "Gateway Timeout",
	ProxyingNotSupported:     "Proxying Not Supported",
}

// CodeToString returns the display form of a known code, e.g. "2.05 Content"
// or "GET". The second result is false for unregistered codes.
func CodeToString(c Code) (string, bool) {
	name, ok := codeNames[c]
	if !ok {
		return "", false
	}
	if c.Class() == 0 {
		return name, true
	}
	return fmt.Sprintf("%d.%02d %s", c.Class(), c.Detail(), name), true
}

// String returns the display form of the code, falling back to "c.dd".
func (c Code) String() string {
	if s, ok := CodeToString(c); ok {
		return s
	}
	return fmt.Sprintf("%d.%02d", c.Class(), c.Detail())
}

// OptionID is a CoAP option number (RFC 7252 Section 12.2).
type OptionID uint16

const (
	IfMatch       OptionID = 1
	URIHost       OptionID = 3
	ETag          OptionID = 4
	IfNoneMatch   OptionID = 5
	Observe       OptionID = 6
	URIPort       OptionID = 7
	LocationPath  OptionID = 8
	URIPath       OptionID = 11
	ContentFormat OptionID = 12
	MaxAge        OptionID = 14
	URIQuery      OptionID = 15
	Accept        OptionID = 17
	LocationQuery OptionID = 20
	Block2        OptionID = 23
	Block1        OptionID = 27
	Size2         OptionID = 28
	ProxyURI      OptionID = 35
	ProxyScheme   OptionID = 39
	Size1         OptionID = 60
)

var optionNames = map[OptionID]string{
	IfMatch:       "If-Match",
	URIHost:       "Uri-Host",
	ETag:          "ETag",
	IfNoneMatch:   "If-None-Match",
	Observe:       "Observe",
	URIPort:       "Uri-Port",
	LocationPath:  "Location-Path",
	URIPath:       "Uri-Path",
	ContentFormat: "Content-Format",
	MaxAge:        "Max-Age",
	URIQuery:      "Uri-Query",
	Accept:        "Accept",
	LocationQuery: "Location-Query",
	Block2:        "Block2",
	Block1:        "Block1",
	Size2:         "Size2",
	ProxyURI:      "Proxy-Uri",
	ProxyScheme:   "Proxy-Scheme",
	Size1:         "Size1",
}

// String returns the registered option name or "Option(n)".
func (o OptionID) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Option(%d)", uint16(o))
}

// Critical reports whether the option is critical (odd option number).
func (o OptionID) Critical() bool {
	return o&0x01 != 0
}

// MediaType is a Content-Format identifier (RFC 7252 Section 12.3).
type MediaType uint16

const (
	TextPlain  MediaType = 0
	LinkFormat MediaType = 40
	AppXML     MediaType = 41
	AppOctets  MediaType = 42
	AppExi     MediaType = 47
	AppJSON    MediaType = 50
	AppCBOR    MediaType = 60
)

// String returns the media type as a MIME string.
func (m MediaType) String() string {
	switch m {
	case TextPlain:
		return "text/plain;charset=utf-8"
	case LinkFormat:
		return "application/link-format"
	case AppXML:
		return "application/xml"
	case AppOctets:
		return "application/octet-stream"
	case AppExi:
		return "application/exi"
	case AppJSON:
		return "application/json"
	case AppCBOR:
		return "application/cbor"
	default:
		return fmt.Sprintf("MediaType(%d)", uint16(m))
	}
}
