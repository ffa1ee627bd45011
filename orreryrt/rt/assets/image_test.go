package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/orrery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage_RGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	src.SetNRGBA(1, 2, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	img, err := LoadImage(writePNG(t, src), SamplerOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, 4, img.Channels)
	assert.True(t, img.HasAlpha())
	assert.Len(t, img.Pixels, 2*3*4)
	assert.Equal(t, []uint8{10, 20, 30, 128}, img.Pixels[0:4])
	assert.Equal(t, DefaultSamplerOptions(), img.Sampler)
}

func TestLoadImage_RGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 100), G: uint8(y * 100), B: 7, A: 255})
		}
	}

	img, err := LoadImage(writePNG(t, src), SamplerOptions{WrapU: WrapClamp, MinFilter: FilterNearest})
	require.NoError(t, err)

	assert.Equal(t, 3, img.Channels)
	assert.False(t, img.HasAlpha())
	assert.Len(t, img.Pixels, 2*2*3)
	assert.Equal(t, []uint8{100, 0, 7}, img.Pixels[3:6])
	assert.Equal(t, WrapClamp, img.Sampler.WrapU)
	assert.Equal(t, FilterNearest, img.Sampler.MinFilter)
	assert.Equal(t, FilterLinear, img.Sampler.MagFilter)

	rgba := img.RGBA()
	assert.Len(t, rgba, 2*2*4)
	assert.Equal(t, []uint8{100, 0, 7, 255}, rgba[4:8])
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"), SamplerOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, orrery.ErrResourceUnavailable))

	var re *orrery.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, orrery.ResourceImage, re.Kind)
}

func TestLoadImage_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := LoadImage(path, SamplerOptions{})
	var re *orrery.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Contains(t, re.Diagnostic, "decode")
}

func TestLoadImage_BadSampler(t *testing.T) {
	_, err := LoadImage("unused.png", SamplerOptions{WrapV: "tile"})
	assert.ErrorIs(t, err, orrery.ErrInvalidArgument)
}

func TestSamplerOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultSamplerOptions().Validate())
	assert.Error(t, SamplerOptions{}.Validate())
	assert.NoError(t, SamplerOptions{}.WithDefaults().Validate())

	bad := DefaultSamplerOptions()
	bad.MagFilter = "cubic"
	assert.ErrorIs(t, bad.Validate(), orrery.ErrInvalidArgument)
}

func TestFromImage_SubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	img := FromImage(sub)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []uint8{1, 2, 3, 4}, img.Pixels[0:4])
}
