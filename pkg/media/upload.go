package media

import (
	"fmt"

	"github.com/disintegration/imaging"

	"recipe-website/domain"
)

// CheckUpload returns a user-facing message when file cannot be accepted,
// or "" when it can. A nil file is accepted.
func CheckUpload(file *domain.ImageFile) string {
	if file == nil {
		return ""
	}
	if len(file.Data) > domain.MaxUploadSize {
		return fmt.Sprintf("%s. Current: %.2fMB",
			domain.MessageFailedImageTooLarge, float64(len(file.Data))/1024/1024)
	}
	if _, err := imaging.FormatFromFilename(file.Filename); err != nil {
		return domain.MessageFailedUnsupportedImage
	}
	return ""
}
