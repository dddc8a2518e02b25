package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir(), "http://localhost:8080/media/")

	key, err := s.UploadFile(ctx, BucketRecipes, "Cake.JPG", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	data, err := s.ReadFile(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	require.NoError(t, s.WriteFile(ctx, key, []byte("replaced")))
	data, err = s.ReadFile(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), data)

	assert.Equal(t, "http://localhost:8080/media/"+key, s.URL(key))

	require.NoError(t, s.DeleteFile(ctx, key))
	_, err = s.ReadFile(ctx, key)
	assert.Error(t, err)
}

func TestLocalStorage_DeleteMissingIsNotAnError(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/media")
	assert.NoError(t, s.DeleteFile(context.Background(), "recipes/missing.jpg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/media")
	_, err := s.ReadFile(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, s.WriteFile(context.Background(), "", nil), ErrInvalidKey)
}
