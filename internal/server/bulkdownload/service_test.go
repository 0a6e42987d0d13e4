package bulkdownload

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/files"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/folders"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/workspaces"
	"github.com/dmitrijs2005/filedrop/internal/server/storage"
	"github.com/dmitrijs2005/filedrop/internal/zipstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeWorkspaces struct{ ws *models.Workspace }

func (f *fakeWorkspaces) GetByExternalID(_ context.Context, ext string) (*models.Workspace, error) {
	if f.ws == nil || f.ws.ExternalID != ext {
		return nil, fmt.Errorf("workspace %s: %w", ext, common.ErrNotFound)
	}
	return f.ws, nil
}

type fakeFolders struct{ s *fakeStore }

func (f *fakeFolders) ListByWorkspace(ctx context.Context, id int64) ([]*models.Folder, error) {
	return f.s.ListFolders(ctx, id)
}

type fakeFiles struct{ s *fakeStore }

func (f *fakeFiles) GetByExternalID(context.Context, int64, string) (*models.File, error) {
	return nil, common.ErrNotFound
}

func (f *fakeFiles) GetByExternalIDs(ctx context.Context, ws int64, ids []string) ([]*models.File, error) {
	return f.s.GetFilesByExternalIDs(ctx, ws, ids)
}

func (f *fakeFiles) ListInFolders(ctx context.Context, ws int64, ids []int64) ([]*models.File, error) {
	return f.s.ListFilesInFolders(ctx, ws, ids)
}

func (f *fakeFiles) Delete(context.Context, int64, int64) error { return nil }

type fakeRepos struct {
	ws    *models.Workspace
	store *fakeStore
}

func (r *fakeRepos) RunMigrations(context.Context, *sql.DB) error { return nil }
func (r *fakeRepos) Workspaces(dbx.DBTX) workspaces.Repository    { return &fakeWorkspaces{ws: r.ws} }
func (r *fakeRepos) Folders(dbx.DBTX) folders.Repository          { return &fakeFolders{s: r.store} }
func (r *fakeRepos) Files(dbx.DBTX) files.Repository              { return &fakeFiles{s: r.store} }

type memObjects map[string][]byte

func (m memObjects) OpenRange(_ context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	b, ok := m[bucket+"/"+key]
	if !ok {
		return nil, common.ErrFileNotFoundInStorage
	}
	end := min(offset+length, int64(len(b)))
	return io.NopCloser(bytes.NewReader(b[offset:end])), nil
}

func (m memObjects) Delete(_ context.Context, bucket, key string) error {
	delete(m, bucket+"/"+key)
	return nil
}

// --- helpers ---

var sealedMeta = models.EncryptionMetadata{
	Type:         models.EncryptionManaged,
	SegmentSize:  64,
	TagSize:      16,
	HeaderSize:   16,
	KeyReference: "ws_1/fi_3",
}

func body(f *models.File) []byte {
	b := make([]byte, f.SizeInBytes)
	for i := range b {
		b[i] = byte(int(f.ID) + i*7)
	}
	return b
}

type fixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	store   *fakeStore
	objects memObjects
	svc     *Service
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kr, err := cryptox.NewKeyring([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	store := sampleStore()
	objects := memObjects{}
	for _, f := range store.files {
		plain := body(f)
		if f.ExternalID == "fi_3" {
			f.Encryption = sealedMeta
			l, err := cryptox.LayoutFromSegmentSize(64, 16, 16)
			require.NoError(t, err)
			key, err := kr.FileKey(context.Background(), sealedMeta.KeyReference)
			require.NoError(t, err)
			codec, err := cryptox.NewCodec(l, key)
			require.NoError(t, err)
			var sealed bytes.Buffer
			_, err = codec.EncryptStream(context.Background(), &sealed, bytes.NewReader(plain))
			require.NoError(t, err)
			plain = sealed.Bytes()
		}
		objects["bucket/"+f.StorageKey().String()] = plain
	}

	reg := storage.NewRegistry()
	reg.Register(storage.NameLocal, storage.NewDownloader(storage.NameLocal, objects, kr, 16, nil))

	svc := NewService(db, &fakeRepos{ws: testWorkspace, store: store}, reg, opts, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 10, 0, time.UTC) }
	return &fixture{db: db, mock: mock, store: store, objects: objects, svc: svc}
}

func (f *fixture) fileByExt(ext string) *models.File {
	for _, fl := range f.store.files {
		if fl.ExternalID == ext {
			return fl
		}
	}
	return nil
}

// --- tests ---

func TestService_DownloadArchive(t *testing.T) {
	for _, method := range []zipstream.Method{zipstream.Store, zipstream.Deflate} {
		t.Run(fmt.Sprint(method), func(t *testing.T) {
			fx := newFixture(t, Options{Method: method})
			fx.mock.ExpectBegin()
			fx.mock.ExpectCommit()

			var out bytes.Buffer
			plan, err := fx.svc.Download(context.Background(), "ws_1", Selection{
				FolderIDs: []string{"fo_a"},
				FileIDs:   []string{"fi_5"},
			}, &out)
			require.NoError(t, err)
			require.NoError(t, fx.mock.ExpectationsWereMet())
			assert.Len(t, plan.Files, 4)

			zr, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
			require.NoError(t, err)

			var names []string
			for _, zf := range zr.File {
				names = append(names, zf.Name)
			}
			assert.Equal(t, []string{"A/", "A/B/", "A/B/C/", "A/B/C/f3.txt", "A/B/f2.txt", "A/f1.txt", "f5.txt"}, names)

			for _, zf := range zr.File[3:] {
				rc, err := zf.Open()
				require.NoError(t, err)
				got, err := io.ReadAll(rc)
				require.NoError(t, err, zf.Name)
				rc.Close()

				var want []byte
				for _, m := range plan.Files {
					if m.Path == zf.Name {
						want = body(m.File)
					}
				}
				assert.Equal(t, want, got, zf.Name)
			}
		})
	}
}

func TestService_AbortsOnMissingObject(t *testing.T) {
	fx := newFixture(t, Options{})
	delete(fx.objects, "bucket/"+fx.fileByExt("fi_4").StorageKey().String())

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	var out bytes.Buffer
	_, err := fx.svc.Download(context.Background(), "ws_1", Selection{FileIDs: []string{"fi_1", "fi_4", "fi_5"}}, &out)
	require.ErrorIs(t, err, common.ErrFileNotFoundInStorage)

	assert.True(t, bytes.Contains(out.Bytes(), []byte("f1.txt")))
	assert.True(t, bytes.Contains(out.Bytes(), body(fx.fileByExt("fi_1"))))
	assert.False(t, bytes.Contains(out.Bytes(), []byte("f4.txt")), "no trace of the failed member")
	assert.False(t, bytes.Contains(out.Bytes(), []byte("f5.txt")), "later members are not attempted")
	require.Greater(t, out.Len(), 16)
	assert.Equal(t, []byte("PK\x07\x08"), out.Bytes()[out.Len()-16:out.Len()-12], "completed member ends with its data descriptor")

	_, err = zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	assert.Error(t, err, "aborted archive has no central directory")
}

func TestService_UnresolvedSelection(t *testing.T) {
	sel := Selection{FileIDs: []string{"fi_1", "fi_gone"}, FolderIDs: []string{"fo_gone"}}

	fx := newFixture(t, Options{})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	var out bytes.Buffer
	plan, err := fx.svc.Download(context.Background(), "ws_1", sel, &out)
	var nf *SelectionNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"fi_gone"}, nf.NotFound.FileIDs)
	assert.Equal(t, []string{"fo_gone"}, nf.NotFound.FolderIDs)
	assert.NotNil(t, plan)
	assert.Zero(t, out.Len())

	fx = newFixture(t, Options{AllowPartial: true})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	plan, err = fx.svc.Download(context.Background(), "ws_1", sel, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"fi_gone"}, plan.NotFound.FileIDs)
	assert.Equal(t, []string{"f1.txt"}, paths(plan))
}

func TestService_UnknownWorkspace(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, err := fx.svc.Prepare(context.Background(), "ws_nope", Selection{FileIDs: []string{"fi_1"}})
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestService_UnknownStorage(t *testing.T) {
	fx := newFixture(t, Options{})
	plan := &Plan{
		Workspace: &models.Workspace{ExternalID: "ws_2", StorageName: "tape"},
		Folders:   newFolderSubtree(nil),
	}
	err := fx.svc.Stream(context.Background(), plan, io.Discard)
	assert.ErrorIs(t, err, common.ErrUnknownStorage)
}

func TestService_Cancelled(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	plan, err := fx.svc.Prepare(context.Background(), "ws_1", Selection{FolderIDs: []string{"fo_a"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = fx.svc.Stream(ctx, plan, io.Discard)
	assert.True(t, common.IsCancellation(err))
}

func TestService_EmptySelectionIsValidArchive(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	var out bytes.Buffer
	_, err := fx.svc.Download(context.Background(), "ws_1", Selection{}, &out)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "files-20240506T060809Z.zip", ArchiveName(ts))
}
