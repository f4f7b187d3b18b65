package imagegen

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"imagegw/internal/catalog"
	"imagegw/internal/domain"
)

// ErrInvalidFluxResponse is returned when a base64-JSON model answers without
// an image field. The message is shown to clients as is.
var ErrInvalidFluxResponse error = invalidResponseError("Invalid response from FLUX model")

type invalidResponseError string

func (e invalidResponseError) Error() string { return string(e) }

func (e invalidResponseError) Is(target error) bool {
	return target == domain.ErrInvalidProviderResponse
}

const dataURLPrefix = "data:image/png;base64,"

// Encode turns one raw provider output into a response entry.
func Encode(raw any, model catalog.Descriptor, format ResponseFormat) (Image, error) {
	var data string
	switch model.Output {
	case catalog.OutputBase64JSON:
		image, err := extractImageField(raw)
		if err != nil {
			return Image{}, err
		}
		data = image
	default:
		b, err := toBytes(raw)
		if err != nil {
			return Image{}, err
		}
		data = base64.StdEncoding.EncodeToString(b)
	}

	if format == FormatB64JSON {
		return Image{B64JSON: data}, nil
	}
	return Image{URL: dataURLPrefix + data}, nil
}

// extractImageField reads the already-encoded "image" field of a structured
// response. Raw JSON text is accepted as well as decoded maps.
func extractImageField(raw any) (string, error) {
	var obj map[string]any
	switch t := raw.(type) {
	case map[string]any:
		obj = t
	case json.RawMessage:
		if err := json.Unmarshal(t, &obj); err != nil {
			return "", ErrInvalidFluxResponse
		}
	case []byte:
		if err := json.Unmarshal(t, &obj); err != nil {
			return "", ErrInvalidFluxResponse
		}
	case string:
		if err := json.Unmarshal([]byte(t), &obj); err != nil {
			return "", ErrInvalidFluxResponse
		}
	default:
		return "", ErrInvalidFluxResponse
	}
	image, ok := obj["image"].(string)
	if !ok || image == "" {
		return "", ErrInvalidFluxResponse
	}
	return image, nil
}

// checkOutput rejects output that can never be encoded, so a batch stops at
// the first bad answer instead of after the last call.
func checkOutput(raw any, model catalog.Descriptor) error {
	if model.Output == catalog.OutputBase64JSON {
		_, err := extractImageField(raw)
		return err
	}
	if raw == nil {
		return fmt.Errorf("empty image payload: %w", domain.ErrInvalidProviderResponse)
	}
	return nil
}

type byteSource interface {
	Bytes() []byte
}

// toBytes normalizes the binary shapes a provider may hand back.
func toBytes(raw any) ([]byte, error) {
	switch t := raw.(type) {
	case []byte:
		return t, nil
	case byteSource:
		return t.Bytes(), nil
	case io.Reader:
		if c, ok := t.(io.Closer); ok {
			defer c.Close()
		}
		b, err := io.ReadAll(t)
		if err != nil {
			return nil, fmt.Errorf("read image stream: %w", err)
		}
		return b, nil
	case string:
		return []byte(t), nil
	case nil:
		return nil, fmt.Errorf("empty image payload: %w", domain.ErrInvalidProviderResponse)
	}
	return nil, fmt.Errorf("unsupported image payload %T: %w", raw, domain.ErrInvalidProviderResponse)
}

// IsProviderError reports whether err should be surfaced as ai_service_error.
func IsProviderError(err error) bool {
	return errors.Is(err, domain.ErrProviderFailure) || errors.Is(err, domain.ErrInvalidProviderResponse)
}
