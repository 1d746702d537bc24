package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/apperr"
)

// S3ImageStore uploads recipe images to the configured bucket
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Upload stores the image under recipes/ and returns its public URL
func (s *S3ImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("recipes/%s%s", uuid.New().String(), imageExtension(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3Config.ObjectURL(key)
	logrus.WithField("url", url).Info("Uploaded recipe image to S3")
	return url, nil
}

// offloadImage moves an inline data: image to the image store. Inline
// images are validated even when no image store is configured. Anything
// else is returned unchanged, as is the inline image when the upload fails.
func (s *RecipeService) offloadImage(ctx context.Context, imageURL string) (string, error) {
	if !strings.HasPrefix(imageURL, "data:") {
		return imageURL, nil
	}

	contentType, data, err := decodeDataURI(imageURL)
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return imageURL, nil
	}

	url, err := s.images.Upload(ctx, data, contentType)
	if err != nil {
		logrus.WithError(err).Warn("Image upload failed, keeping inline image")
		return imageURL, nil
	}
	return url, nil
}

// decodeDataURI parses a base64 data: URI into its media type and bytes
func decodeDataURI(uri string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", nil, apperr.NewValidationError("imageUrl is not a valid data URI")
	}

	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, apperr.NewValidationError("imageUrl data URI must be base64 encoded")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperr.NewValidationError("imageUrl data URI has invalid base64 content")
	}
	return contentType, data, nil
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
