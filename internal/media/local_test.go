package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_StoreAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:8080/static/")
	require.NoError(t, err)
	ctx := context.Background()

	asset, err := s.Store(ctx, Upload{Folder: "videos", Filename: "Clip.MP4", Body: strings.NewReader("data"), DurationSeconds: 12.5})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.URL, "http://localhost:8080/static/videos/"))
	assert.True(t, strings.HasSuffix(asset.URL, ".mp4"))
	assert.Equal(t, 12.5, asset.DurationSeconds)

	key, ok := keyFromURL("http://localhost:8080/static", asset.URL)
	require.True(t, ok)
	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))

	require.NoError(t, s.Delete(ctx, asset.URL))
	// 重复删除不报错
	require.NoError(t, s.Delete(ctx, asset.URL))
	assert.Error(t, s.Delete(ctx, "https://elsewhere.example.com/x.mp4"))
}

func TestKeyFromURL(t *testing.T) {
	_, ok := keyFromURL("http://h/static", "http://h/static/../etc/passwd")
	assert.False(t, ok)
	key, ok := keyFromURL("http://h/static", "http://h/static/thumbnails/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "thumbnails/a.jpg", key)
}
