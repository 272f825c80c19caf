package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/vizora/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MaxMediaBytes  = 25 << 20
	thumbnailSize  = 150
	thumbnailJPEGQ = 80
	// MaxThumbnailPixels caps the decoded size of an image we preview.
	MaxThumbnailPixels = 50_000_000
)

var (
	ErrUnsupportedMedia = errors.New("unsupported file type")
	ErrMediaTooLarge    = errors.New("file is too large")
	ErrEmptyMedia       = errors.New("file is empty")
	ErrImageTooLarge    = errors.New("image dimensions too large to preview")
)

var allowedMediaTypes = map[string]models.MediaKind{
	"jpg":  models.MediaImage,
	"png":  models.MediaImage,
	"gif":  models.MediaImage,
	"webp": models.MediaImage,
	"mp4":  models.MediaVideo,
	"mov":  models.MediaVideo,
	"webm": models.MediaVideo,
}

// MediaService turns uploaded files into media items embedded as data URLs.
// Nothing is written anywhere.
type MediaService interface {
	FromUpload(ctx context.Context, file *multipart.FileHeader) (*models.MediaItem, error)
	FromBytes(ctx context.Context, name string, data []byte) (*models.MediaItem, error)
}

type mediaService struct {
	maxPixels int
}

func NewMediaService() MediaService {
	return &mediaService{maxPixels: MaxThumbnailPixels}
}

func (s *mediaService) FromUpload(ctx context.Context, file *multipart.FileHeader) (*models.MediaItem, error) {
	if file.Size > MaxMediaBytes {
		return nil, fmt.Errorf("%w: %s", ErrMediaTooLarge, file.Filename)
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxMediaBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}
	return s.FromBytes(ctx, file.Filename, data)
}

func (s *mediaService) FromBytes(ctx context.Context, name string, data []byte) (*models.MediaItem, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMedia
	}
	if len(data) > MaxMediaBytes {
		return nil, fmt.Errorf("%w: %s", ErrMediaTooLarge, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType, err := filetype.Match(data)
	if err != nil || fileType == types.Unknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, name)
	}
	kind, ok := allowedMediaTypes[fileType.Extension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, fileType.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	item := &models.MediaItem{
		ID:   id,
		Kind: kind,
		URL:  dataURL(fileType.MIME.Value, data),
		Alt:  name,
		Size: int64(len(data)),
	}

	if kind == models.MediaImage {
		thumb, err := thumbnail(data, s.maxPixels)
		if err != nil {
			// the item is still usable without a preview
			slog.Info(err.Error())
		} else {
			item.Thumbnail = dataURL("image/jpeg", thumb)
		}
	}
	return item, nil
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// thumbnail fits the image into a square and encodes it as JPEG. Images
// whose header declares more than maxPixels are not decoded.
func thumbnail(data []byte, maxPixels int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQ)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
