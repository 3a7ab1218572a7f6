package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageHost turns inline image data into a stable hosted URL.
type ImageHost interface {
	Upload(ctx context.Context, data string) (string, error)
}

type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryHost(cloudinaryURL, folder string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	return &CloudinaryHost{cld: cld, folder: folder}, nil
}

// Upload sends a data URI (or any source Cloudinary accepts) and returns its secure URL.
func (h *CloudinaryHost) Upload(ctx context.Context, data string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := h.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:       h.folder,
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", errors.New("cloudinary returned no secure url")
	}
	return result.SecureURL, nil
}
