package artwork

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnknownTransform is returned by ParseTransform for unsupported names.
var ErrUnknownTransform = errors.New("unknown transform")

// Transform identifies one of the supported artwork transforms.
type Transform int

const (
	// Crop trims transparent borders and encodes PNG.
	Crop Transform = iota + 1
	// Blur shrinks, blurs and encodes JPEG.
	Blur
)

const (
	cropName = "crop"
	blurName = "blur"
)

type transformSpec struct {
	name   string
	ext    string
	format imaging.Format
	// bound is the largest source size the transform works on; bigger
	// sources are shrunk to fit before anything else happens.
	bound image.Point
	run   func(p *Processor, img image.Image) (image.Image, error)
}

var transforms = [...]transformSpec{
	Crop: {
		name:   cropName,
		ext:    ".png",
		format: imaging.PNG,
		bound:  image.Pt(cropMaxWidth, cropMaxHeight),
		run:    (*Processor).crop,
	},
	Blur: {
		name:   blurName,
		ext:    ".jpg",
		format: imaging.JPEG,
		bound:  image.Pt(blurMaxWidth, blurMaxHeight),
		run:    (*Processor).blur,
	},
}

// ParseTransform maps "crop" or "blur" (any case) to its Transform.
func ParseTransform(name string) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case cropName:
		return Crop, nil
	case blurName:
		return Blur, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
}

// Valid reports whether t is one of the declared transforms.
func (t Transform) Valid() bool {
	return t == Crop || t == Blur
}

func (t Transform) spec() transformSpec {
	if !t.Valid() {
		return transformSpec{}
	}
	return transforms[t]
}

// String returns the transform name.
func (t Transform) String() string {
	if !t.Valid() {
		return fmt.Sprintf("transform(%d)", int(t))
	}
	return t.spec().name
}

// Extension returns the file extension of the encoded output, with a dot.
func (t Transform) Extension() string {
	return t.spec().ext
}

// Folder returns the name of the output folder for this transform.
func (t Transform) Folder() string {
	return t.spec().name
}

// Format returns the encoding used for the output.
func (t Transform) Format() imaging.Format {
	return t.spec().format
}

// Transforms lists every supported transform.
func Transforms() []Transform {
	return []Transform{Crop, Blur}
}
