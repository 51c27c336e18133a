package common

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// ColorMode is the pixel-encoding category of a decoded source image
type ColorMode int

const (
	ModeOther ColorMode = iota
	ModePalette
	ModeGray
	ModeGrayAlpha
	ModeRGB
	ModeRGBA
)

func (m ColorMode) String() string {
	switch m {
	case ModePalette:
		return "P (palette)"
	case ModeGray:
		return "L (grayscale)"
	case ModeGrayAlpha:
		return "LA (grayscale with transparency)"
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	default:
		return "other"
	}
}

// normalizationRules maps every mode that needs work to the chain of modes it
// is converted through. Modes not listed (RGB, RGBA) are resized as they are.
var normalizationRules = map[ColorMode][]ColorMode{
	ModePalette:   {ModeRGBA},
	ModeGrayAlpha: {ModeGrayAlpha, ModeRGBA},
	ModeGray:      {ModeRGB, ModeRGBA},
	ModeOther:     {ModeRGBA},
}

var converters = map[ColorMode]func(image.Image) image.Image{
	ModeGrayAlpha: toGrayAlpha,
	ModeRGB:       toRGB,
	ModeRGBA:      toRGBA,
}

// Classify reports the color mode of img. declared is the color model the
// file header announced (image.DecodeConfig); the PNG decoder expands a
// grayscale image carrying a tRNS chunk into NRGBA, and the mismatch between
// the declared gray model and the decoded type is how that case is detected.
func Classify(img image.Image, declared color.Model) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.YCbCr:
		return ModeRGB
	case *image.RGBA, *image.RGBA64, *image.NRGBA, *image.NRGBA64:
		if declared == color.GrayModel || declared == color.Gray16Model {
			return ModeGrayAlpha
		}
		return ModeRGBA
	}
	return ModeOther
}

// ConversionChain returns the modes img of the given mode is converted
// through before resizing, or nil if it is used unchanged.
func ConversionChain(mode ColorMode) []ColorMode {
	return normalizationRules[mode]
}

// Normalize converts img so that it is RGB or RGBA and returns the chain of
// conversions it applied.
func Normalize(img image.Image, mode ColorMode) (image.Image, []ColorMode) {
	chain := ConversionChain(mode)
	for _, target := range chain {
		img = converters[target](img)
	}
	return img, chain
}

// DescribeChain renders a chain as "RGB then RGBA"
func DescribeChain(chain []ColorMode) string {
	names := make([]string, len(chain))
	for i, m := range chain {
		names[i] = m.String()
	}
	return strings.Join(names, " then ")
}

// describeSource names the mode and, for ModeOther, the concrete image type
func describeSource(img image.Image, mode ColorMode) string {
	if mode == ModeOther {
		return fmt.Sprintf("%s (%T)", mode, img)
	}
	return mode.String()
}

func toRGBA(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// toRGB drops the alpha channel, keeping the straight (non-premultiplied)
// color values.
func toRGB(src image.Image) image.Image {
	dst := toRGBA(src).(*image.NRGBA)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// toGrayAlpha reduces every pixel to its luma while keeping its alpha. Go has
// no gray+alpha image type, so the result is stored as NRGBA with R == G == B.
func toGrayAlpha(src image.Image) image.Image {
	dst := toRGBA(src).(*image.NRGBA)
	for i := 0; i < len(dst.Pix); i += 4 {
		p := dst.Pix[i : i+4 : i+4]
		y := color.GrayModel.Convert(color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}).(color.Gray).Y
		p[0], p[1], p[2] = y, y, y
	}
	return dst
}
