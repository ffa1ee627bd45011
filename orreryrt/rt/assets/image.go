package assets

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gekko3d/orrery"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type WrapMode string

const (
	WrapRepeat WrapMode = "repeat"
	WrapMirror WrapMode = "mirror"
	WrapClamp  WrapMode = "clamp"
)

type FilterMode string

const (
	FilterNearest FilterMode = "nearest"
	FilterLinear  FilterMode = "linear"
)

// SamplerOptions are the four sampling parameters a texture carries to the
// GPU.
type SamplerOptions struct {
	WrapU     WrapMode
	WrapV     WrapMode
	MinFilter FilterMode
	MagFilter FilterMode
}

func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{
		WrapU:     WrapRepeat,
		WrapV:     WrapClamp,
		MinFilter: FilterLinear,
		MagFilter: FilterLinear,
	}
}

// WithDefaults fills empty fields from DefaultSamplerOptions.
func (o SamplerOptions) WithDefaults() SamplerOptions {
	d := DefaultSamplerOptions()
	if o.WrapU == "" {
		o.WrapU = d.WrapU
	}
	if o.WrapV == "" {
		o.WrapV = d.WrapV
	}
	if o.MinFilter == "" {
		o.MinFilter = d.MinFilter
	}
	if o.MagFilter == "" {
		o.MagFilter = d.MagFilter
	}
	return o
}

func (o SamplerOptions) Validate() error {
	for _, w := range []WrapMode{o.WrapU, o.WrapV} {
		switch w {
		case WrapRepeat, WrapMirror, WrapClamp:
		default:
			return orrery.InvalidArgumentf("wrap mode %q", w)
		}
	}
	for _, f := range []FilterMode{o.MinFilter, o.MagFilter} {
		switch f {
		case FilterNearest, FilterLinear:
		default:
			return orrery.InvalidArgumentf("filter mode %q", f)
		}
	}
	return nil
}

// Image is decoded pixel data, tightly packed rows of Channels bytes per
// pixel. Channels is 4 when the source carries alpha, otherwise 3.
type Image struct {
	Path     string
	Pixels   []uint8
	Width    int
	Height   int
	Channels int
	Sampler  SamplerOptions
}

func (img *Image) HasAlpha() bool {
	return img.Channels == 4
}

// RGBA returns 4 channel pixels, expanding RGB with an opaque alpha.
func (img *Image) RGBA() []uint8 {
	if img.Channels == 4 {
		return img.Pixels
	}
	out := make([]uint8, img.Width*img.Height*4)
	for i, o := 0, 0; i+2 < len(img.Pixels); i, o = i+3, o+4 {
		out[o] = img.Pixels[i]
		out[o+1] = img.Pixels[i+1]
		out[o+2] = img.Pixels[i+2]
		out[o+3] = 0xff
	}
	return out
}

// LoadImage decodes png, jpeg, bmp, tiff or webp. Failures are
// *orrery.ResourceError values carrying the decoder's message.
func LoadImage(path string, sampler SamplerOptions) (*Image, error) {
	sampler = sampler.WithDefaults()
	if err := sampler.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourceImage, path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourceImage, path, fmt.Errorf("decode: %w", err))
	}

	img := FromImage(src)
	img.Path = path
	img.Sampler = sampler
	return img, nil
}

type opaquer interface {
	Opaque() bool
}

// FromImage converts any decoded image into packed RGB or RGBA bytes.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba, ok := src.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != w*4 {
		rgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}

	hasAlpha := true
	if o, ok := src.(opaquer); ok && o.Opaque() {
		hasAlpha = false
	}

	img := &Image{Width: w, Height: h}
	if hasAlpha {
		img.Channels = 4
		img.Pixels = rgba.Pix
		return img
	}

	img.Channels = 3
	img.Pixels = make([]uint8, w*h*3)
	for i, o := 0, 0; o < len(img.Pixels); i, o = i+4, o+3 {
		img.Pixels[o] = rgba.Pix[i]
		img.Pixels[o+1] = rgba.Pix[i+1]
		img.Pixels[o+2] = rgba.Pix[i+2]
	}
	return img
}
