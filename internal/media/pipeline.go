package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/logger"
)

// Resource is a local media resource produced by a picker or recorder.
type Resource struct {
	Name   string
	Reader io.Reader
}

// Picker acquires one local media resource from the user. Pick returns
// domain.ErrCancelled when the actor aborts the selection; that is not a
// failure and produces no message.
type Picker interface {
	Pick(ctx context.Context, kind domain.MediaType) (*Resource, error)
}

// Pipeline uploads local media to the blob store and resolves durable URLs.
// URL resolution completes before any message referencing the media is
// constructed; a failed upload never reaches the shared feed.
type Pipeline struct {
	blobs domain.BlobStore
}

func NewPipeline(blobs domain.BlobStore) *Pipeline {
	return &Pipeline{blobs: blobs}
}

// Upload streams the resource to the blob store under a collision-resistant
// path and returns the durable fetch URL. There is no automatic retry; the
// actor re-triggers the pipeline from the start on failure.
func (p *Pipeline) Upload(ctx context.Context, res *Resource, kind domain.MediaType) (string, error) {
	if kind == domain.MediaNone || !kind.Known() {
		return "", domain.ErrInvalidInput
	}
	if res == nil || res.Reader == nil {
		return "", domain.ErrInvalidInput
	}

	dest := destPath(kind, res.Name)
	if err := p.blobs.Put(ctx, dest, res.Reader); err != nil {
		logger.Log.Warn("media upload failed",
			zap.String("path", dest), zap.Error(err))
		return "", &domain.UploadError{Cause: err}
	}

	url, err := p.blobs.URL(dest)
	if err != nil {
		return "", &domain.UploadError{Cause: err}
	}
	logger.Log.Debug("media uploaded",
		zap.String("path", dest), zap.String("kind", string(kind)))
	return url, nil
}

// PickAndUpload runs the full pipeline: acquire from the picker, then
// upload. A cancelled pick halts the pipeline with domain.ErrCancelled and
// no partial state.
func (p *Pipeline) PickAndUpload(ctx context.Context, picker Picker, kind domain.MediaType) (string, error) {
	res, err := picker.Pick(ctx, kind)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return "", err
		}
		return "", &domain.UploadError{Cause: err}
	}
	return p.Upload(ctx, res, kind)
}

// destPath derives {kind}/{timestamp}_{suffix}_{name}. The random suffix
// keeps two uploads in the same nanosecond from colliding.
func destPath(kind domain.MediaType, name string) string {
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		base = "blob"
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%d_%s_%s", kind, time.Now().UTC().UnixNano(), suffix, base)
}
