package imagegen

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/samber/lo"

	"imagegw/internal/catalog"
	"imagegw/internal/domain"
)

const (
	DefaultCount = 1
	MaxCount     = 4
	DefaultSize  = "1024x1024"

	defaultDimension = 1024
	minDimension     = 256
	maxDimension     = 2048
	dimensionStep    = 64

	defaultLightSteps = 6
	minLightSteps     = 4
	maxLightSteps     = 8

	defaultNumSteps = 20
	minNumSteps     = 1
	maxNumSteps     = 50
	defaultStrength = 0.8
	defaultGuidance = 7.5
	maxGuidance     = 30.0

	seedSpace = 1_000_000
)

// SeedFunc returns a fresh seed when the client did not send a usable one.
type SeedFunc func() int

// RandomSeed draws from [0, 1_000_000).
func RandomSeed() int { return rand.Intn(seedSpace) }

// Plan is a validated request ready for dispatch.
type Plan struct {
	Model  catalog.Descriptor
	Params Parameters
	N      int
	Format ResponseFormat
}

// Normalizer validates requests and derives provider parameters.
type Normalizer struct {
	registry     *catalog.Registry
	defaultModel string
	seed         SeedFunc
}

// NewNormalizer wires a registry and the model used when a request names
// none. A nil seed source uses RandomSeed.
func NewNormalizer(registry *catalog.Registry, defaultModel string, seed SeedFunc) *Normalizer {
	if seed == nil {
		seed = RandomSeed
	}
	return &Normalizer{registry: registry, defaultModel: defaultModel, seed: seed}
}

// Prepare validates prompt then model, in that order, and derives the rest.
// Validation failures are *domain.APIError values.
func (n *Normalizer) Prepare(req GenerationRequest) (Plan, error) {
	if _, ok := stringValue(req.Prompt); !ok {
		return Plan{}, domain.MissingPrompt()
	}
	model, err := n.ResolveModel(req.Model)
	if err != nil {
		return Plan{}, err
	}
	params, err := Normalize(req, model, n.seed)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Model:  model,
		Params: params,
		N:      ParseCount(req.N),
		Format: ParseResponseFormat(req.ResponseFormat),
	}, nil
}

// ResolveModel maps the request's model field onto a descriptor. Empty or
// absent picks the default model.
func (n *Normalizer) ResolveModel(v any) (catalog.Descriptor, error) {
	id := n.defaultModel
	switch t := v.(type) {
	case nil:
	case string:
		if t != "" {
			id = t
		}
	case bool:
		if t {
			id = "true"
		}
	default:
		id = strings.TrimSpace(fmt.Sprint(t))
	}
	d, ok := n.registry.Lookup(id)
	if !ok {
		return catalog.Descriptor{}, domain.ModelNotFound(id)
	}
	return d, nil
}

// Normalize derives the parameter shape selected by the descriptor's
// capability flag.
func Normalize(req GenerationRequest, d catalog.Descriptor, seed SeedFunc) (Parameters, error) {
	prompt, ok := stringValue(req.Prompt)
	if !ok {
		return nil, domain.MissingPrompt()
	}
	if d.AcceptsPromptOnly {
		return LightParameters{
			Prompt: prompt,
			Steps:  lo.Clamp(intOrDefault(req.Steps, defaultLightSteps), minLightSteps, maxLightSteps),
		}, nil
	}

	width, height := ParseSize(req.Size)
	negative, _ := req.NegativePrompt.(string)
	s, ok := parseInt(req.Seed)
	if !ok || s == 0 {
		if seed == nil {
			seed = RandomSeed
		}
		s = seed()
	}
	return StandardParameters{
		Prompt:         prompt,
		NegativePrompt: negative,
		Height:         height,
		Width:          width,
		NumSteps:       lo.Clamp(intOrDefault(req.NumSteps, defaultNumSteps), minNumSteps, maxNumSteps),
		Strength:       lo.Clamp(floatOrDefault(req.Strength, defaultStrength), 0.0, 1.0),
		Guidance:       lo.Clamp(floatOrDefault(req.Guidance, defaultGuidance), 0.0, maxGuidance),
		Seed:           s,
	}, nil
}

// ParseCount reads n with default 1, clamped to [1,4].
func ParseCount(v any) int {
	return lo.Clamp(intOrDefault(v, DefaultCount), 1, MaxCount)
}

// ParseResponseFormat accepts exactly "b64_json"; every other value, garbage
// included, means url. Unknown values are not rejected.
func ParseResponseFormat(v any) ResponseFormat {
	if s, _ := v.(string); s == string(FormatB64JSON) {
		return FormatB64JSON
	}
	return FormatURL
}

// ParseSize splits "WxH" and sanitizes both sides. A non-string or empty size
// uses the default.
func ParseSize(v any) (width, height int) {
	size, ok := stringValue(v)
	if !ok {
		size = DefaultSize
	}
	parts := strings.Split(size, "x")
	dims := [2]int{defaultDimension, defaultDimension}
	for i := range dims {
		if i >= len(parts) {
			break
		}
		dims[i] = SanitizeDimension(parseInt(parts[i]))
	}
	return dims[0], dims[1]
}

// SanitizeDimension clamps to [256,2048] and rounds half up to a multiple of
// 64. Unlike the other numeric fields zero is a real value here and ends up
// at 256; only an unparsable side gets the 1024 default.
func SanitizeDimension(v int, ok bool) int {
	if !ok {
		v = defaultDimension
	}
	v = lo.Clamp(v, minDimension, maxDimension)
	return int(math.Floor(float64(v)/dimensionStep+0.5)) * dimensionStep
}
