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
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

type EntityType string
type PictureType string

const (
	EntityEvent EntityType = "event"
	EntityUser  EntityType = "user"

	PicPhoto PictureType = "photo"
	PicThumb PictureType = "thumb"
)

const maxUploadSize = 10 << 20

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicThumb: {".jpg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicThumb: {"image/jpeg"},
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// Saver stores an uploaded picture and returns public URLs for the
// full-size photo and its thumbnail.
type Saver interface {
	SavePhoto(file multipart.File, header *multipart.FileHeader, entity EntityType) (photoURL, thumbURL string, err error)
}

// DiskSaver writes uploads under Root and serves them from BaseURL.
type DiskSaver struct {
	Root    string
	BaseURL string
}

func NewDiskSaver() *DiskSaver {
	root := os.Getenv("UPLOAD_DIR")
	if root == "" {
		root = filepath.Join("static", "uploads")
	}
	base := os.Getenv("UPLOAD_BASE_URL")
	if base == "" {
		base = "/uploads"
	}
	return &DiskSaver{Root: root, BaseURL: strings.TrimRight(base, "/")}
}

func (s *DiskSaver) SavePhoto(file multipart.File, header *multipart.FileHeader, entity EntityType) (string, string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, PicPhoto) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > maxUploadSize {
		return "", "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(buf)
	if !isMIMEAllowed(mimeType, PicPhoto) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}

	// Re-encoding drops EXIF before anything touches disk.
	stripped := new(bytes.Buffer)
	if err := jpeg.Encode(stripped, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", "", fmt.Errorf("encode photo: %w", err)
	}

	name := uuid.New().String() + ".jpg"

	photoPath := filepath.Join(s.resolveDir(entity, PicPhoto), name)
	if err := writeFile(photoPath, stripped.Bytes()); err != nil {
		return "", "", err
	}

	thumbPath := filepath.Join(s.resolveDir(entity, PicThumb), name)
	if err := s.writeThumbnail(img, thumbPath); err != nil {
		return "", "", err
	}

	return s.publicURL(entity, PicPhoto, name), s.publicURL(entity, PicThumb, name), nil
}

func (s *DiskSaver) writeThumbnail(img image.Image, path string) error {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // maintain aspect ratio
	out := new(bytes.Buffer)
	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return writeFile(path, out.Bytes())
}

func (s *DiskSaver) resolveDir(entity EntityType, picType PictureType) string {
	return filepath.Join(s.Root, strings.ToLower(string(entity)), string(picType))
}

func (s *DiskSaver) publicURL(entity EntityType, picType PictureType, name string) string {
	return s.BaseURL + "/" + strings.ToLower(string(entity)) + "/" + string(picType) + "/" + name
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
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
