package campaign

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"adspark/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotAnImage     = errors.New("uploaded file is not an image")
	ErrEmptyFileName  = errors.New("file name is required")
	ErrEmptyUpload    = errors.New("uploaded file is empty")
	ErrUploadTooLarge = errors.New("uploaded file is too large")
)

// ProductNameFromFile strips the extension by cutting at the first dot:
// "shoe.png" is "shoe" and "my.shoe.png" is "my". Names that start with a
// dot keep the whole file name.
func ProductNameFromFile(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if before, _, _ := strings.Cut(name, "."); before != "" {
		return before
	}
	return name
}

// ImageDataURL checks that data is an image and encodes it as a data URL.
func ImageDataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mime.String())
	}
	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ValidateImageDataURL accepts base64 data URLs whose declared and
// detected types are both images.
func ValidateImageDataURL(dataURL string) error {
	_, err := decodeImageDataURL(dataURL)
	return err
}

// decodeImageDataURL returns the image bytes carried by a base64 data URL.
func decodeImageDataURL(dataURL string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok || !strings.HasPrefix(dataURL, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: expected a base64 data URL", ErrNotAnImage)
	}
	if !strings.HasPrefix(meta, "image/") {
		return nil, fmt.Errorf("%w: declared %s", ErrNotAnImage, strings.TrimSuffix(meta, ";base64"))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload", ErrNotAnImage)
	}
	if _, err := ImageDataURL(data); err != nil {
		return nil, err
	}
	return data, nil
}

// idGenerator hands out millisecond timestamps, bumped by one when two
// campaigns are created in the same millisecond.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

func (g *idGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return strconv.FormatInt(id, 10)
}

// NewCampaign builds a draft campaign for an uploaded image.
func NewCampaign(id, fileName, dataURL string) models.Campaign {
	return models.Campaign{
		ID:            id,
		ProductName:   ProductNameFromFile(fileName),
		OriginalImage: dataURL,
		Variants:      []models.Variant{},
		Status:        models.CampaignStatusDraft,
	}
}
