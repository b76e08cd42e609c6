package campaign

import (
	"fmt"
	"strings"
	"sync"

	"adspark/internal/logger"
	"adspark/internal/metrics"
	"adspark/internal/models"
)

// Registry keeps the controllers of campaigns created in this process.
// Nothing survives a restart.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
	order       []string
	ids         *idGenerator
	generator   Generator
	notifier    Notifier
	logger      *logger.Logger
	maxBytes    int64
}

type RegistryOption func(*Registry)

// WithMaxUploadBytes rejects images larger than n bytes. Zero means no
// limit.
func WithMaxUploadBytes(n int64) RegistryOption {
	return func(r *Registry) {
		r.maxBytes = n
	}
}

func NewRegistry(generator Generator, notifier Notifier, log *logger.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		controllers: make(map[string]*Controller),
		ids:         newIDGenerator(),
		generator:   generator,
		notifier:    notifier,
		logger:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) checkSize(n int) error {
	if r.maxBytes > 0 && int64(n) > r.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrUploadTooLarge, n, r.maxBytes)
	}
	return nil
}

// Upload creates a draft campaign from raw image bytes.
func (r *Registry) Upload(fileName string, data []byte) (*Controller, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrEmptyFileName
	}
	if err := r.checkSize(len(data)); err != nil {
		return nil, err
	}
	dataURL, err := ImageDataURL(data)
	if err != nil {
		return nil, err
	}
	return r.create(fileName, dataURL), nil
}

// UploadDataURL creates a draft campaign from an already encoded image.
func (r *Registry) UploadDataURL(fileName, dataURL string) (*Controller, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrEmptyFileName
	}
	data, err := decodeImageDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if err := r.checkSize(len(data)); err != nil {
		return nil, err
	}
	return r.create(fileName, dataURL), nil
}

func (r *Registry) create(fileName, dataURL string) *Controller {
	c := NewCampaign(r.ids.Next(), fileName, dataURL)
	ctrl := NewController(c, r.generator, r.notifier, r.logger)

	r.mu.Lock()
	r.controllers[c.ID] = ctrl
	r.order = append(r.order, c.ID)
	r.mu.Unlock()

	metrics.IncCampaignsCreated()
	r.logger.Info("Created campaign %s for product %q", c.ID, c.ProductName)
	return ctrl
}

func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctrl, ok := r.controllers[id]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	return ctrl, nil
}

// List returns snapshots of all campaigns, newest first.
func (r *Registry) List() []models.Campaign {
	r.mu.RLock()
	ctrls := make([]*Controller, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		ctrls = append(ctrls, r.controllers[r.order[i]])
	}
	r.mu.RUnlock()

	campaigns := make([]models.Campaign, len(ctrls))
	for i, ctrl := range ctrls {
		campaigns[i] = ctrl.Campaign()
	}
	return campaigns
}

// Current returns the most recently uploaded campaign.
func (r *Registry) Current() (models.Campaign, bool) {
	r.mu.RLock()
	if len(r.order) == 0 {
		r.mu.RUnlock()
		return models.Campaign{}, false
	}
	ctrl := r.controllers[r.order[len(r.order)-1]]
	r.mu.RUnlock()
	return ctrl.Campaign(), true
}

// Discard drops a campaign and its variants.
func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.controllers[id]; !ok {
		return ErrCampaignNotFound
	}
	delete(r.controllers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	metrics.DecCampaignsActive()
	return nil
}
