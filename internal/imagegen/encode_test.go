package imagegen

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagegw/internal/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stream reset") }

func TestEncodeBinaryShapes(t *testing.T) {
	sdxl := mustModel(t, "stable-diffusion-xl")
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	want := base64.StdEncoding.EncodeToString(payload)

	shapes := map[string]any{
		"bytes":  payload,
		"buffer": bytes.NewBuffer(payload),
		"reader": io.NopCloser(bytes.NewReader(payload)),
	}
	for name, raw := range shapes {
		img, err := Encode(raw, sdxl, FormatB64JSON)
		require.NoError(t, err, name)
		assert.Equal(t, Image{B64JSON: want}, img, name)
	}
}

func TestEncodeURLFormat(t *testing.T) {
	img, err := Encode([]byte("hi"), mustModel(t, "dreamshaper-8-lcm"), FormatURL)
	require.NoError(t, err)
	assert.Equal(t, Image{URL: "data:image/png;base64,aGk="}, img)
}

func TestEncodeBinaryFailures(t *testing.T) {
	sdxl := mustModel(t, "stable-diffusion-xl")

	_, err := Encode(nil, sdxl, FormatURL)
	assert.True(t, errors.Is(err, domain.ErrInvalidProviderResponse))

	_, err = Encode(42, sdxl, FormatURL)
	assert.True(t, errors.Is(err, domain.ErrInvalidProviderResponse))

	_, err = Encode(failingReader{}, sdxl, FormatURL)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "stream reset"))
}

func TestEncodeFluxExtractsImageField(t *testing.T) {
	flux := mustModel(t, "flux-1-schnell")

	for name, raw := range map[string]any{
		"map":    map[string]any{"image": "QUJD"},
		"json":   []byte(`{"image":"QUJD"}`),
		"string": `{"image":"QUJD"}`,
	} {
		img, err := Encode(raw, flux, FormatB64JSON)
		require.NoError(t, err, name)
		assert.Equal(t, Image{B64JSON: "QUJD"}, img, name)
	}

	img, err := Encode(map[string]any{"image": "QUJD"}, flux, FormatURL)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,QUJD", img.URL)
}

func TestEncodeFluxMissingImage(t *testing.T) {
	flux := mustModel(t, "flux-1-schnell")

	for _, raw := range []any{
		map[string]any{},
		map[string]any{"image": ""},
		map[string]any{"image": 12},
		[]byte("not json"),
		nil,
	} {
		_, err := Encode(raw, flux, FormatURL)
		assert.ErrorIs(t, err, ErrInvalidFluxResponse)
		assert.ErrorIs(t, err, domain.ErrInvalidProviderResponse)
	}
}
