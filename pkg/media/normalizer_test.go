package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/utils/storage"
)

func encodeImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func storedSize(t *testing.T, s storage.Storage, key string) (int, int) {
	t.Helper()
	data, err := s.ReadFile(context.Background(), key)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestNormalize_ResizesToTarget(t *testing.T) {
	ctx := context.Background()
	s := storage.NewLocalStorage(t.TempDir(), "/media")
	n := NewNormalizer(s)

	cases := []struct {
		name string
		key  string
		w, h int
		size Size
	}{
		{"landscape jpeg to recipe size", "recipes/wide.jpg", 300, 120, Size{Width: 192, Height: 108}},
		{"portrait png to avatar", "profile_images/tall.png", 50, 90, Size{Width: 64, Height: 64}},
		{"upscale small", "recipes/small.jpg", 10, 10, Size{Width: 40, Height: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			format, err := imaging.FormatFromFilename(tc.key)
			require.NoError(t, err)
			require.NoError(t, s.WriteFile(ctx, tc.key, encodeImage(t, tc.w, tc.h, format)))

			n.Normalize(ctx, tc.key, tc.size)

			w, h := storedSize(t, s, tc.key)
			assert.Equal(t, tc.size.Width, w)
			assert.Equal(t, tc.size.Height, h)
		})
	}
}

func TestNormalize_AlreadyAtTargetIsNoop(t *testing.T) {
	ctx := context.Background()
	s := storage.NewLocalStorage(t.TempDir(), "/media")
	n := NewNormalizer(s)

	original := encodeImage(t, 64, 64, imaging.JPEG)
	require.NoError(t, s.WriteFile(ctx, "profile_images/exact.jpg", original))

	n.Normalize(ctx, "profile_images/exact.jpg", Size{Width: 64, Height: 64})

	after, err := s.ReadFile(ctx, "profile_images/exact.jpg")
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

// withOrientation splices an EXIF APP1 segment carrying the given
// orientation tag right after the JPEG SOI marker.
func withOrientation(jpeg []byte, orientation byte) []byte {
	tiff := []byte{
		'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08, // big-endian header, IFD at 8
		0x00, 0x01, // one entry
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, orientation, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	length := len(payload) + 2

	out := make([]byte, 0, len(jpeg)+length+2)
	out = append(out, jpeg[:2]...)
	out = append(out, 0xff, 0xe1, byte(length>>8), byte(length))
	out = append(out, payload...)
	return append(out, jpeg[2:]...)
}

func TestNormalize_RotatedExifAtTargetIsNoop(t *testing.T) {
	ctx := context.Background()
	s := storage.NewLocalStorage(t.TempDir(), "/media")
	n := NewNormalizer(s)

	// Stored as 32x16 but tagged to display rotated 90 degrees.
	original := withOrientation(encodeImage(t, 32, 16, imaging.JPEG), 6)
	require.NoError(t, s.WriteFile(ctx, "recipes/rotated.jpg", original))

	n.Normalize(ctx, "recipes/rotated.jpg", Size{Width: 32, Height: 16})

	after, err := s.ReadFile(ctx, "recipes/rotated.jpg")
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestNormalize_FailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s := storage.NewLocalStorage(t.TempDir(), "/media")
	n := NewNormalizer(s)

	require.NoError(t, s.WriteFile(ctx, "recipes/broken.jpg", []byte("not an image")))

	assert.NotPanics(t, func() {
		n.Normalize(ctx, "recipes/broken.jpg", RecipeImageSize)
		n.Normalize(ctx, "recipes/missing.jpg", RecipeImageSize)
		n.Normalize(ctx, "recipes/noext", RecipeImageSize)
	})

	data, err := s.ReadFile(ctx, "recipes/broken.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("not an image"), data)
}

func TestNormalize_SkipsPlaceholders(t *testing.T) {
	ctx := context.Background()
	s := storage.NewLocalStorage(t.TempDir(), "/media")
	n := NewNormalizer(s)

	placeholder := encodeImage(t, 20, 10, imaging.JPEG)
	require.NoError(t, s.WriteFile(ctx, entities.DefaultRecipeImage, placeholder))

	n.Normalize(ctx, entities.DefaultRecipeImage, Size{Width: 8, Height: 8})

	after, err := s.ReadFile(ctx, entities.DefaultRecipeImage)
	require.NoError(t, err)
	assert.Equal(t, placeholder, after)
}

func TestCropAndResize_UsesCentredSquare(t *testing.T) {
	// Left and right thirds are black, the centred square is white.
	img := image.NewNRGBA(image.Rect(0, 0, 30, 10))
	for x := 0; x < 30; x++ {
		for y := 0; y < 10; y++ {
			c := color.NRGBA{A: 255}
			if x >= 10 && x < 20 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	out := CropAndResize(img, Size{Width: 4, Height: 4})
	assert.Equal(t, 4, out.Bounds().Dx())
	assert.Equal(t, 4, out.Bounds().Dy())
	r, g, b, _ := out.At(2, 2).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestCheckUpload(t *testing.T) {
	assert.Empty(t, CheckUpload(nil))
	assert.Empty(t, CheckUpload(&domain.ImageFile{Filename: "cake.png", Data: []byte{1}}))
	assert.Equal(t, domain.MessageFailedUnsupportedImage,
		CheckUpload(&domain.ImageFile{Filename: "cake.exe", Data: []byte{1}}))

	big := &domain.ImageFile{Filename: "cake.jpg", Data: make([]byte, domain.MaxUploadSize+1)}
	assert.Contains(t, CheckUpload(big), domain.MessageFailedImageTooLarge)
}
