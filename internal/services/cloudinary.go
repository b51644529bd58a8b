package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryService gère l'hébergement des images (photos de profil, visuels de cadeaux)
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryService initialise le client depuis une CLOUDINARY_URL
func NewCloudinaryService(cloudinaryURL string) (*CloudinaryService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// UploadProfilePicture upload la photo de profil d'un utilisateur
func (s *CloudinaryService) UploadProfilePicture(ctx context.Context, file multipart.File, userID string) (string, error) {
	publicID := fmt.Sprintf("profiles/%s", userID)
	overwrite := true

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "t4g/profiles",
		Overwrite:      &overwrite, // Écraser l'ancienne photo
		ResourceType:   "image",
		Format:         "jpg",
		Transformation: "c_fill,g_face,h_500,w_500",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}

	return uploadResult.SecureURL, nil
}

// UploadGiftImage upload le visuel d'un cadeau
func (s *CloudinaryService) UploadGiftImage(ctx context.Context, file multipart.File, giftID string) (string, error) {
	publicID := fmt.Sprintf("gifts/%s", giftID)
	overwrite := true

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "t4g/gifts",
		Overwrite:      &overwrite,
		ResourceType:   "image",
		Transformation: "c_fill,h_800,w_1200",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload gift image: %w", err)
	}

	return uploadResult.SecureURL, nil
}

// DeleteImage supprime une image par son public ID
func (s *CloudinaryService) DeleteImage(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
