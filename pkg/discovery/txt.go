package discovery

import "strings"

// TXT keys commonly published alongside "_coap._udp" services
// (CoRE Resource Directory, RFC 9176).
const (
	// TXTResourceType lists resource types served by the endpoint.
	TXTResourceType = "rt"

	// TXTInterface lists interface descriptions.
	TXTInterface = "if"

	// TXTPath is the base path of the endpoint's resources.
	TXTPath = "path"
)

// ParseTXT parses raw TXT record strings into a map. Keys are lowercased;
// records without '=' are boolean attributes and map to "".
// The first occurrence of a key wins.
func ParseTXT(records []string) map[string]string {
	result := make(map[string]string)
	for _, record := range records {
		key, value, _ := strings.Cut(record, "=")
		if key == "" {
			continue
		}
		key = strings.ToLower(key)
		if _, ok := result[key]; ok {
			continue
		}
		result[key] = value
	}
	return result
}
