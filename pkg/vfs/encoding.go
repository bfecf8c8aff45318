package vfs

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
)

// String payload codecs live in the façade: the tree stores only ever see
// raw bytes.

func encodePayload(data, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return []byte(data), nil
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
		return decoded, nil
	case "hex":
		decoded, err := hex.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid hex payload: %w", err)
		}
		return decoded, nil
	default:
		return nil, fserrors.NewUnsupportedDataType(encoding)
	}
}

func decodePayload(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return string(data), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(data), nil
	case "hex":
		return hex.EncodeToString(data), nil
	default:
		return "", fserrors.NewUnsupportedDataType(encoding)
	}
}
