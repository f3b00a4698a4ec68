package handlers

import (
	"context"
	"sync"
	"time"
)

// ImageStorage interface for product image operations
type ImageStorage interface {
	UploadImage(ctx context.Context, file []byte, filename string, contentType string) (string, error)
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

var (
	imageStorage ImageStorage
	handlerMu    sync.RWMutex
)

// RegisterImageStorage sets the image storage backend
func RegisterImageStorage(s ImageStorage) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	imageStorage = s
}

// GetImageStorage returns the registered image storage backend
func GetImageStorage() ImageStorage {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return imageStorage
}
