// Package storage is the blob-store boundary. The API never handles file
// bytes itself: it hands the browser a presigned upload URL, the browser
// pushes directly, and only the storage key plus metadata is persisted.
package storage

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
)

type Provider interface {
	// PresignUpload returns a URL the client can PUT the file bytes to.
	PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error)
	// PresignDownload returns a viewer-retrievable URL for a stored key.
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a unique storage key for an attachment, keeping the original
// extension so downloads get a sensible content type.
func NewKey(ticketID, fileName string) string {
	return path.Join("tickets", ticketID, uuid.NewString()+path.Ext(fileName))
}
