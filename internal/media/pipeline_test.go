package media_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitchat/internal/domain"
	"chitchat/internal/media"
)

// fakeBlobStore records puts and can be told to fail transport.
type fakeBlobStore struct {
	failPut bool
	paths   []string
	data    map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{data: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, path string, r io.Reader) error {
	if s.failPut {
		return errors.New("connection reset")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.paths = append(s.paths, path)
	s.data[path] = b
	return nil
}

func (s *fakeBlobStore) URL(path string) (string, error) {
	return "https://blobs.test/" + path, nil
}

type fakePicker struct {
	res *media.Resource
	err error
}

func (p *fakePicker) Pick(context.Context, domain.MediaType) (*media.Resource, error) {
	return p.res, p.err
}

func TestUploadResolvesURL(t *testing.T) {
	blobs := newFakeBlobStore()
	pipe := media.NewPipeline(blobs)

	url, err := pipe.Upload(context.Background(), &media.Resource{
		Name:   "cat.png",
		Reader: bytes.NewBufferString("pngdata"),
	}, domain.MediaImage)
	require.NoError(t, err)

	require.Len(t, blobs.paths, 1)
	path := blobs.paths[0]
	assert.True(t, strings.HasPrefix(path, "image/"), "path %q should be under image/", path)
	assert.True(t, strings.HasSuffix(path, "_cat.png"), "path %q should keep the original name", path)
	assert.Equal(t, "https://blobs.test/"+path, url)
	assert.Equal(t, []byte("pngdata"), blobs.data[path])
}

func TestUploadTransportFailure(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.failPut = true
	pipe := media.NewPipeline(blobs)

	_, err := pipe.Upload(context.Background(), &media.Resource{
		Name:   "clip.mp4",
		Reader: bytes.NewBufferString("vid"),
	}, domain.MediaVideo)

	var uploadErr *domain.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Empty(t, blobs.paths, "no blob may be recorded on transport failure")
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	pipe := media.NewPipeline(newFakeBlobStore())
	_, err := pipe.Upload(context.Background(), &media.Resource{
		Name:   "x",
		Reader: bytes.NewBufferString("x"),
	}, domain.MediaNone)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPickAndUploadCancelled(t *testing.T) {
	blobs := newFakeBlobStore()
	pipe := media.NewPipeline(blobs)
	picker := &fakePicker{err: domain.ErrCancelled}

	_, err := pipe.PickAndUpload(context.Background(), picker, domain.MediaImage)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Empty(t, blobs.paths)
}

func TestPickAndUploadSuccess(t *testing.T) {
	blobs := newFakeBlobStore()
	pipe := media.NewPipeline(blobs)
	picker := &fakePicker{res: &media.Resource{
		Name:   "voice.mp4",
		Reader: bytes.NewBufferString("audio"),
	}}

	url, err := pipe.PickAndUpload(context.Background(), picker, domain.MediaAudio)
	require.NoError(t, err)
	assert.Contains(t, url, "audio/")
}

func TestDestPathsDiffer(t *testing.T) {
	blobs := newFakeBlobStore()
	pipe := media.NewPipeline(blobs)

	for i := 0; i < 2; i++ {
		_, err := pipe.Upload(context.Background(), &media.Resource{
			Name:   "same.png",
			Reader: bytes.NewBufferString("x"),
		}, domain.MediaImage)
		require.NoError(t, err)
	}
	require.Len(t, blobs.paths, 2)
	assert.NotEqual(t, blobs.paths[0], blobs.paths[1])
}
