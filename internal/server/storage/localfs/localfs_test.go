package localfs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_OpenRange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "fi_1_x"), []byte("0123456789"), 0o600))

	s := New(root)
	rc, err := s.OpenRange(context.Background(), "b", "fi_1_x", 3, 4)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "3456", string(got))

	_, err = s.OpenRange(context.Background(), "b", "fi_2_x", 0, 1)
	assert.ErrorIs(t, err, common.ErrFileNotFoundInStorage)
}

func TestSource_RejectsEscapingPaths(t *testing.T) {
	s := New(t.TempDir())

	for _, tc := range [][2]string{{"..", "k"}, {"b", "../k"}, {"b", "a/b"}, {"", "k"}, {"b", ""}} {
		_, err := s.OpenRange(context.Background(), tc[0], tc[1], 0, 1)
		assert.ErrorIs(t, err, common.ErrInvalidFileKey, "%v", tc)
	}
}

func TestSource_PutAndDelete(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	n, err := s.Put(ctx, "b", "fi_1_x", bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, s.Delete(ctx, "b", "fi_1_x"))
	assert.ErrorIs(t, s.Delete(ctx, "b", "fi_1_x"), common.ErrFileNotFoundInStorage)
}

func TestSource_ThroughDownloader(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	kr, err := cryptox.NewKeyring([]byte("local-master-key-local-master-key"))
	require.NoError(t, err)
	meta := models.EncryptionMetadata{Type: models.EncryptionManaged, SegmentSize: 96, TagSize: 16, HeaderSize: 24, KeyReference: "r1"}
	layout, err := cryptox.LayoutFromSegmentSize(96, 24, 16)
	require.NoError(t, err)
	key, err := kr.FileKey(ctx, "r1")
	require.NoError(t, err)
	codec, err := cryptox.NewCodec(layout, key)
	require.NoError(t, err)

	plain := bytes.Repeat([]byte("local backend "), 40)
	var sealed bytes.Buffer
	_, err = codec.EncryptStream(ctx, &sealed, bytes.NewReader(plain))
	require.NoError(t, err)

	fk := models.S3FileKey{FileExternalID: "fi_abc", SecretPart: "s1"}
	_, err = s.Put(ctx, "ws", fk.String(), &sealed)
	require.NoError(t, err)
	_, err = s.Put(ctx, "ws", "fi_plain_s2", bytes.NewReader(plain))
	require.NoError(t, err)

	d := storage.NewDownloader(storage.NameLocal, s, kr, 32, nil)
	objects := []storage.Object{
		{Key: fk, Bucket: "ws", Size: int64(len(plain)), Encryption: meta},
		{Key: models.S3FileKey{FileExternalID: "fi_plain", SecretPart: "s2"}, Bucket: "ws", Size: int64(len(plain))},
	}

	for _, obj := range objects {
		var full bytes.Buffer
		require.NoError(t, d.DownloadFull(ctx, obj, &full))
		require.Equal(t, plain, full.Bytes())

		for _, r := range []models.BytesRange{{Start: 0, Length: 1}, {Start: 50, Length: 200}, {Start: 555, Length: 5}} {
			var out bytes.Buffer
			require.NoError(t, d.DownloadRange(ctx, obj, r, &out))
			assert.Equal(t, plain[r.Start:r.Start+r.Length], out.Bytes())
		}
	}
}
