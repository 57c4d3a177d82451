package ingest

import (
	"encoding/base64"
	"errors"
	"strings"
)

const dataURLMarker = ";base64,"

var errMalformedDataURL = errors.New("malformed data URL")

// DataURL renders data as an inline base64 data URL.
func DataURL(mediaType string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:") + len(mediaType) + len(dataURLMarker) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mediaType)
	sb.WriteString(dataURLMarker)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// DataURLLen is the length DataURL would produce, without encoding.
func DataURLLen(mediaType string, rawBytes int) int {
	return len("data:") + len(mediaType) + len(dataURLMarker) + base64.StdEncoding.EncodedLen(rawBytes)
}

// ParseDataURL splits a base64 data URL back into media type and bytes.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errMalformedDataURL
	}
	mediaType, payload, ok := strings.Cut(rest, dataURLMarker)
	if !ok {
		return "", nil, errMalformedDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mediaType, data, nil
}
