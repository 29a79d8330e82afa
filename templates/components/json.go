package components

import (
	"encoding/json"
	"log"
)

// JSON encodes v for an attribute such as hx-headers, "{}" when v cannot be encoded
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		return "{}"
	}
	return string(b)
}
