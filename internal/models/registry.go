package models

import (
	"context"
	"sync"
	"time"
)

// ImageURLGenerator interface for generating signed image URLs
type ImageURLGenerator interface {
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

var (
	urlGenerator ImageURLGenerator
	registryMu   sync.RWMutex
)

// RegisterImageURLGenerator sets the URL generator for product images
func RegisterImageURLGenerator(generator ImageURLGenerator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	urlGenerator = generator
}
