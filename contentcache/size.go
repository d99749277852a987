package contentcache

import "encoding/json"

// approxSize is the length of the JSON encoding of v, or 0 when v cannot be encoded.
func approxSize(v any) int64 {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return int64(len(b))
}
