package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryLookup(t *testing.T) {
	r := Default()

	sdxl, ok := r.Lookup("stable-diffusion-xl")
	require.True(t, ok)
	assert.Equal(t, "@cf/stabilityai/stable-diffusion-xl-base-1.0", sdxl.ProviderRef)
	assert.False(t, sdxl.AcceptsPromptOnly)
	assert.Equal(t, OutputBinary, sdxl.Output)

	flux, ok := r.Lookup("flux-1-schnell")
	require.True(t, ok)
	assert.True(t, flux.AcceptsPromptOnly)
	assert.Equal(t, OutputBase64JSON, flux.Output)

	_, ok = r.Lookup("dall-e-3")
	assert.False(t, ok)
}

func TestLookupReturnsCopy(t *testing.T) {
	r := Default()
	d, _ := r.Lookup("dreamshaper-8-lcm")
	d.ProviderRef = "tampered"

	again, _ := r.Lookup("dreamshaper-8-lcm")
	assert.Equal(t, "@cf/lykon/dreamshaper-8-lcm", again.ProviderRef)
}

func TestListDoesNotLeakProviderRefs(t *testing.T) {
	r := Default()
	models := r.List()
	require.Len(t, models, 3)

	payload, err := json.Marshal(models)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "@cf/")
	assert.False(t, strings.Contains(string(payload), "provider"))
	assert.Equal(t, []string{"stable-diffusion-xl", "flux-1-schnell", "dreamshaper-8-lcm"}, r.IDs())
	assert.Equal(t, "cloudflare", models[0].OwnedBy)
	assert.Equal(t, "model", models[0].Object)
}

func TestNewIgnoresDuplicateIDs(t *testing.T) {
	r := New(
		Descriptor{ID: "a", ProviderRef: "first"},
		Descriptor{ID: "a", ProviderRef: "second"},
	)
	d, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "first", d.ProviderRef)
	assert.Len(t, r.List(), 1)
	assert.Equal(t, map[string]int{"a": 0}, r.Limits())
}
