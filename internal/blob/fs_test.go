package blob

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) (*FS, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	store, err := NewFS(mem, "/media", logger.NewNop())
	require.NoError(t, err)
	return store, mem
}

func TestFS_SaveFetchDelete(t *testing.T) {
	store, mem := newTestFS(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, []byte("jpeg bytes"), ".JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	exists, err := afero.Exists(mem, "/media/"+ref)
	require.NoError(t, err)
	assert.True(t, exists)

	data, ok, err := store.Fetch(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("jpeg bytes"), data)

	removed, err := store.Delete(ctx, ref)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, ref)
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok, err = store.Fetch(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFS_DistinctRefs(t *testing.T) {
	store, _ := newTestFS(t)

	a, err := store.Save(context.Background(), []byte("a"), "")
	require.NoError(t, err)
	b, err := store.Save(context.Background(), []byte("b"), "")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".bin"))
}

func TestFS_RejectsEscapingRefs(t *testing.T) {
	store, _ := newTestFS(t)

	for _, ref := range []string{"", "../etc/passwd", "a/b.jpg", ".hidden"} {
		_, err := store.Delete(context.Background(), ref)
		assert.ErrorIs(t, err, ErrBadRef, ref)
		_, _, err = store.Fetch(context.Background(), ref)
		assert.ErrorIs(t, err, ErrBadRef, ref)
	}
}

func TestFS_SaveIgnoresHostileExtension(t *testing.T) {
	store, mem := newTestFS(t)
	ctx := context.Background()

	for _, ext := range []string{"x/../../evil", `..\evil`, "jpg/", "toolongextension", "p n g"} {
		ref, err := store.Save(ctx, []byte("payload"), ext)
		require.NoError(t, err, ext)
		assert.True(t, strings.HasSuffix(ref, ".bin"), ext)

		removed, err := store.Delete(ctx, ref)
		require.NoError(t, err, ext)
		assert.True(t, removed, ext)
	}

	escaped, err := afero.Exists(mem, "/evil")
	require.NoError(t, err)
	assert.False(t, escaped)
}

func TestFS_WriteFailureCarriesBlobCode(t *testing.T) {
	store, mem := newTestFS(t)
	store.fs = afero.NewReadOnlyFs(mem)

	_, err := store.Save(context.Background(), []byte("x"), "png")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBlob, apperrors.GetCode(err))
}
