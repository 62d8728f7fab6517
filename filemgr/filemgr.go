package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tripsage/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

type EntityType string
type PictureType string

const (
	EntityUser EntityType = "user"
	EntityTrip EntityType = "trip"

	PicPhoto  PictureType = "photo"
	PicBanner PictureType = "banner"
	PicThumb  PictureType = "thumb"
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto:  {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicBanner: {".jpg", ".jpeg", ".png"},
		PicThumb:  {".jpg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto:  {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicBanner: {"image/jpeg", "image/png"},
		PicThumb:  {"image/jpeg"},
	}

	PictureSubfolders = map[PictureType]string{
		PicPhoto:  "photo",
		PicBanner: "banner",
		PicThumb:  "thumb",
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

func ensureSafeFilename(name, ext string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	reg := regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	name = reg.ReplaceAllString(name, "")
	if name == "" {
		return uuid.New().String() + ext
	}
	return name + ext
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	for _, a := range AllowedExtensions[picType] {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	for _, a := range AllowedMIMEs[picType] {
		if mimeType == a {
			return true
		}
	}
	return false
}

// ResolvePath returns the on-disk directory for an entity's pictures.
func ResolvePath(entity EntityType, picType PictureType) string {
	subfolder := PictureSubfolders[picType]
	if subfolder == "" {
		subfolder = "misc"
	}
	return filepath.Join("static", "uploads", strings.ToLower(string(entity)), subfolder)
}

func ValidateImageDimensions(img image.Image, maxWidth, maxHeight int) error {
	bounds := img.Bounds()
	if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
		return fmt.Errorf("image dimensions %dx%d exceed max %dx%d", bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	}
	return nil
}

// SaveImageWithThumb validates and stores an uploaded image plus a
// resized thumbnail, returning both stored names. The thumbnail is
// keyed by owner ID so re-uploads overwrite it.
func SaveImageWithThumb(file multipart.File, header *multipart.FileHeader, entity EntityType, picType PictureType, thumbWidth int, ownerID string) (string, string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, picType) {
		return "", "", ErrInvalidExtension
	}
	if mt := header.Header.Get("Content-Type"); mt != "" && !isMIMEAllowed(mt, picType) {
		return "", "", ErrInvalidMIME
	}

	buf, err := io.ReadAll(io.LimitReader(file, 10<<20+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(buf) > 10<<20 {
		return "", "", ErrFileTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image %q: %w", header.Filename, err)
	}
	if err := ValidateImageDimensions(img, 3000, 3000); err != nil {
		return "", "", fmt.Errorf("image %q failed dimension validation: %w", header.Filename, err)
	}

	origDir := ResolvePath(entity, picType)
	if err := utils.EnsureDir(origDir); err != nil {
		return "", "", fmt.Errorf("failed to create directory %q: %w", origDir, err)
	}
	origName := ensureSafeFilename(header.Filename, ext)
	if ownerID != "" {
		origName = ownerID + "_" + origName
	}
	if err := os.WriteFile(filepath.Join(origDir, origName), buf, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbName := origName
	if ownerID != "" {
		thumbName = ownerID + ".jpg"
	}

	thumbImg := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbDir := ResolvePath(entity, PicThumb)
	if err := utils.EnsureDir(thumbDir); err != nil {
		return origName, "", fmt.Errorf("failed to create thumbnail directory %q: %w", thumbDir, err)
	}

	out, err := os.Create(filepath.Join(thumbDir, thumbName))
	if err != nil {
		return origName, "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumbImg, &jpeg.Options{Quality: 85}); err != nil {
		return origName, "", fmt.Errorf("failed to encode thumbnail JPEG: %w", err)
	}

	return origName, thumbName, nil
}
