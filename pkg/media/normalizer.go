package media

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"recipe-website/entities"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils/storage"
)

// JPEGQuality is used whenever a normalized image is re-encoded as JPEG.
const JPEGQuality = 95

type Size struct {
	Width  int
	Height int
}

var (
	AvatarSize      = Size{Width: 512, Height: 512}
	RecipeImageSize = Size{Width: 1920, Height: 1080}
)

type (
	// Normalizer rewrites a stored image in place so it has exactly the
	// requested dimensions. Failures are logged and never returned: an
	// image that could not be normalized stays as uploaded.
	Normalizer interface {
		Normalize(ctx context.Context, key string, size Size)
	}

	normalizer struct {
		storage storage.Storage
	}
)

func NewNormalizer(storage storage.Storage) Normalizer {
	return &normalizer{storage: storage}
}

func (n *normalizer) Normalize(ctx context.Context, key string, size Size) {
	if key == "" || IsPlaceholder(key) {
		return
	}
	if err := n.normalize(ctx, key, size); err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("key", key).
			Int("width", size.Width).
			Int("height", size.Height).
			Msg("error resizing image")
	}
}

func (n *normalizer) normalize(ctx context.Context, key string, size Size) error {
	format, err := imaging.FormatFromFilename(key)
	if err != nil {
		return fmt.Errorf("media: %w", err)
	}

	data, err := n.storage.ReadFile(ctx, key)
	if err != nil {
		return fmt.Errorf("media: reading image: %w", err)
	}

	// Stored pixel dimensions decide, before any EXIF rotation.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("media: decoding image: %w", err)
	}
	if cfg.Width == size.Width && cfg.Height == size.Height {
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("media: decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, CropAndResize(img, size), format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("media: encoding image: %w", err)
	}
	if err := n.storage.WriteFile(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("media: writing image: %w", err)
	}
	return nil
}

// CropAndResize cuts the largest centred square out of img, splitting the
// longer side's excess evenly, then resamples it to size with Lanczos.
func CropAndResize(img image.Image, size Size) *image.NRGBA {
	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	square := imaging.CropCenter(img, side, side)
	return imaging.Resize(square, size.Width, size.Height, imaging.Lanczos)
}

func IsPlaceholder(key string) bool {
	return key == entities.DefaultAvatar || key == entities.DefaultRecipeImage
}
