// Package imagegen translates OpenAI style image generation requests into
// Workers AI invocations and shapes the results back.
package imagegen

import "context"

// GenerationRequest is the decoded body of POST /v1/images/generations.
// Fields are loosely typed on purpose: a wrong JSON type must reach the
// parse-or-default rules rather than fail decoding. Decode with UseNumber.
type GenerationRequest struct {
	Prompt         any `json:"prompt"`
	Model          any `json:"model"`
	N              any `json:"n"`
	Size           any `json:"size"`
	ResponseFormat any `json:"response_format"`
	NegativePrompt any `json:"negative_prompt"`
	Steps          any `json:"steps"`
	NumSteps       any `json:"num_steps"`
	Strength       any `json:"strength"`
	Guidance       any `json:"guidance"`
	Seed           any `json:"seed"`
}

// ResponseFormat selects how generated images are encoded.
type ResponseFormat string

const (
	FormatURL     ResponseFormat = "url"
	FormatB64JSON ResponseFormat = "b64_json"
)

// Parameters is the provider-ready input for one model family. The concrete
// types are LightParameters and StandardParameters.
type Parameters interface {
	// WithSeedOffset returns a copy for batch position i.
	WithSeedOffset(i int) Parameters
	isParameters()
}

// LightParameters is sent to prompt-only models.
type LightParameters struct {
	Prompt string `json:"prompt"`
	Steps  int    `json:"steps"`
}

func (p LightParameters) WithSeedOffset(int) Parameters { return p }
func (LightParameters) isParameters()                  {}

// StandardParameters is sent to the diffusion models.
type StandardParameters struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	NumSteps       int     `json:"num_steps"`
	Strength       float64 `json:"strength"`
	Guidance       float64 `json:"guidance"`
	Seed           int     `json:"seed"`
}

// WithSeedOffset adds i to a non-zero seed so each image of a batch differs
// while image 0 keeps the requested seed. A zero seed is left alone.
func (p StandardParameters) WithSeedOffset(i int) Parameters {
	if p.Seed != 0 {
		p.Seed += i
	}
	return p
}

func (StandardParameters) isParameters() {}

// Image is one entry of the response data array. Exactly one field is set.
type Image struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// Runner is the inference capability. The returned value is either binary
// image data ([]byte, something with Bytes(), an io.Reader) or a structured
// object such as map[string]any.
type Runner interface {
	Run(ctx context.Context, modelRef string, params any) (any, error)
}
