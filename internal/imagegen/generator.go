package imagegen

import "context"

// Generator runs a prepared plan end to end: dispatch then encode.
type Generator struct {
	dispatcher *Dispatcher
}

func NewGenerator(dispatcher *Dispatcher) *Generator {
	return &Generator{dispatcher: dispatcher}
}

// Generate returns exactly plan.N images in batch order, or an error and no
// images at all.
func (g *Generator) Generate(ctx context.Context, plan Plan) ([]Image, error) {
	raws, err := g.dispatcher.Dispatch(ctx, plan.Model, plan.Params, plan.N)
	if err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(raws))
	for i, raw := range raws {
		img, err := Encode(raw, plan.Model, plan.Format)
		if err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
		images = append(images, img)
	}
	return images, nil
}
