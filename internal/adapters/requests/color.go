package requests

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/transitcat/internal/core/render"
)

// colorJSON unmarshals the request schema's three color forms — a CSS
// string, a [r,g,b] integer array, or a [r,g,b,a] array with a float
// opacity — into the render package's tagged-union Color.
type colorJSON struct {
	color render.Color
}

func (c *colorJSON) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		c.color = render.Named(asString)
		return nil
	}

	var asArray []json.Number
	if err := json.Unmarshal(data, &asArray); err != nil {
		return fmt.Errorf("color must be a string or a [r,g,b] / [r,g,b,a] array: %w", err)
	}

	switch len(asArray) {
	case 3:
		r, g, b, err := rgbComponents(asArray)
		if err != nil {
			return err
		}
		c.color = render.RGB{R: r, G: g, B: b}
	case 4:
		r, g, b, err := rgbComponents(asArray[:3])
		if err != nil {
			return err
		}
		opacity, err := asArray[3].Float64()
		if err != nil {
			return fmt.Errorf("color opacity: %w", err)
		}
		c.color = render.RGBA{R: r, G: g, B: b, Opacity: opacity}
	default:
		return fmt.Errorf("color array must have 3 or 4 elements, got %d", len(asArray))
	}
	return nil
}

func rgbComponents(values []json.Number) (r, g, b uint8, err error) {
	channels := make([]uint8, 3)
	for i, v := range values {
		n, convErr := v.Int64()
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("color channel %d: %w", i, convErr)
		}
		channels[i] = uint8(n)
	}
	return channels[0], channels[1], channels[2], nil
}
