package storage

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("storage is not configured")

type Storage interface {
	Upload(context.Context, *UploadObject) (*UploadResponse, error)
}

type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

type UploadResponse struct {
	Url      string
	FileName string
}

type unavailableStorage struct{}

// Unavailable rejects every upload.
var Unavailable Storage = unavailableStorage{}

func (unavailableStorage) Upload(context.Context, *UploadObject) (*UploadResponse, error) {
	return nil, ErrUnavailable
}
