package ctl

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/server/auth"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	gs "github.com/dmitrijs2005/filedrop/internal/server/grpc"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeRandom(t *testing.T, dir string, n int) (string, []byte) {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	p := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(p, b, 0o600))
	return p, b
}

func TestLayoutCmd(t *testing.T) {
	out, _, err := run(t, "layout", "--size", "0", "--segment-size", "64")
	require.NoError(t, err)
	assert.Equal(t, "plain_size=0 ciphertext_size=32 segments=1\n", out)

	// first segment holds 32 bytes, the rest 48
	out, _, err = run(t, "layout", "--size", "100", "--segment-size", "64", "--start", "40", "--length", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "plain_size=100 ciphertext_size=164 segments=3")
	assert.Contains(t, out, "physical_start=64 physical_length=64 first_segment=1 last_segment=1 skip=8")

	_, _, err = run(t, "layout", "--size", "10", "--start", "5", "--length", "10")
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in, plain := writeRandom(t, dir, 10_000)
	enc := filepath.Join(dir, "enc.bin")
	dec := filepath.Join(dir, "dec.bin")

	_, meta, err := run(t, "--master-key", testKey, "encrypt", "--in", in, "--out", enc, "--ref", "fi_1", "--segment-size", "1024")
	require.NoError(t, err)
	assert.Contains(t, meta, "size=10000 encryption=managed segment_size=1024 header_size=16 tag_size=16 key_reference=fi_1")

	st, err := os.Stat(enc)
	require.NoError(t, err)
	l, err := defaultLayout(1024)
	require.NoError(t, err)
	assert.Equal(t, l.CiphertextSize(10_000), st.Size())

	_, _, err = run(t, "--master-key", testKey, "decrypt", "--in", enc, "--out", dec, "--ref", "fi_1", "--segment-size", "1024")
	require.NoError(t, err)
	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	out, _, err := run(t, "--master-key", testKey, "decrypt", "--in", enc, "--ref", "fi_1", "--segment-size", "1024",
		"--size", "10000", "--start", "2000", "--length", "3000")
	require.NoError(t, err)
	assert.Equal(t, plain[2000:5000], []byte(out))
}

func TestDecrypt_WrongKeyReference(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeRandom(t, dir, 500)
	enc := filepath.Join(dir, "enc.bin")

	_, _, err := run(t, "--master-key", testKey, "encrypt", "--in", in, "--out", enc, "--ref", "fi_1")
	require.NoError(t, err)

	_, _, err = run(t, "--master-key", testKey, "decrypt", "--in", enc, "--ref", "fi_2", "--out", filepath.Join(dir, "x"))
	assert.Error(t, err)
}

func TestDecrypt_InvalidObjectSize(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(p, []byte("tiny"), 0o600))

	_, _, err := run(t, "--master-key", testKey, "decrypt", "--in", p, "--ref", "fi_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid object size")
}

func TestPlainSizeOf(t *testing.T) {
	l, err := defaultLayout(64)
	require.NoError(t, err)

	for _, n := range []int64{0, 1, 31, 32, 33, 79, 80, 81, 500} {
		assert.Equal(t, n, plainSizeOf(l, l.CiphertextSize(n)), "plain size %d", n)
	}
	assert.Equal(t, int64(-1), plainSizeOf(l, 10))
	assert.Equal(t, int64(-1), plainSizeOf(l, l.CiphertextSize(32)+5))
}

func TestKeyring(t *testing.T) {
	t.Setenv(MasterKeyEnv, "")

	_, err := (&globals{}).keyring()
	assert.Error(t, err)

	_, err = (&globals{passphrase: "pw"}).keyring()
	assert.ErrorContains(t, err, "--salt")

	_, err = (&globals{masterKey: "zz"}).keyring()
	assert.Error(t, err)

	kr, err := (&globals{passphrase: "pw", salt: "NaCl-NaCl"}).keyring()
	require.NoError(t, err)
	k1, err := kr.FileKey(context.Background(), "fi_1")
	require.NoError(t, err)

	kr2, err := cryptox.NewKeyring(cryptox.DeriveMasterKey([]byte("pw"), []byte("NaCl-NaCl")))
	require.NoError(t, err)
	k2, err := kr2.FileKey(context.Background(), "fi_1")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	t.Setenv(MasterKeyEnv, testKey)
	_, err = (&globals{}).keyring()
	assert.NoError(t, err)
}

func TestPutCmd(t *testing.T) {
	dir := t.TempDir()
	in, plain := writeRandom(t, dir, 3000)
	root := filepath.Join(dir, "data")

	out, _, err := run(t, "put", "--root", root, "--bucket", "ws_1", "--key", "fi_1_abc", "--in", in)
	require.NoError(t, err)
	assert.Equal(t, "stored ws_1/fi_1_abc (3000 bytes)\n", out)
	got, err := os.ReadFile(filepath.Join(root, "ws_1", "fi_1_abc"))
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	_, _, err = run(t, "--master-key", testKey, "put", "--root", root, "--bucket", "ws_1", "--key", "fi_2_abc", "--in", in, "--encrypt", "--ref", "fi_2")
	require.NoError(t, err)

	dec, _, err := run(t, "--master-key", testKey, "decrypt", "--in", filepath.Join(root, "ws_1", "fi_2_abc"), "--ref", "fi_2")
	require.NoError(t, err)
	assert.Equal(t, plain, []byte(dec))

	_, _, err = run(t, "put", "--root", root, "--bucket", "ws_1", "--key", "../x", "--in", in)
	assert.Error(t, err)

	_, _, err = run(t, "put", "--root", root, "--bucket", "ws_1", "--key", "k", "--in", in, "--encrypt")
	assert.ErrorContains(t, err, "--ref")
}

func TestTokenCmd(t *testing.T) {
	out, _, err := run(t, "token", "--secret", "s3", "--subject", "alice", "--workspace", "ws_1", "--workspace", "ws_2")
	require.NoError(t, err)

	claims, err := auth.ParseToken(strings.TrimSpace(out), []byte("s3"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.Allows("ws_2"))
	assert.False(t, claims.Allows("ws_3"))

	_, _, err = run(t, "token", "--secret", "s3", "--subject", "alice")
	assert.Error(t, err)
}

func TestMigrateCmd(t *testing.T) {
	_, _, err := run(t, "migrate")
	assert.ErrorContains(t, err, "--dsn")

	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("boom") }

	_, _, err = run(t, "migrate", "--dsn", "postgres://x")
	assert.EqualError(t, err, "boom")
}

// --- remote commands ---

type fakeFiles struct {
	data    []byte
	deleted []string
}

func (f *fakeFiles) Open(_ context.Context, ws, file string, r *models.BytesRange) (*services.FileDownload, error) {
	return &services.FileDownload{
		Workspace: &models.Workspace{ExternalID: ws},
		File:      &models.File{ExternalID: file, Name: "a.bin", SizeInBytes: int64(len(f.data))},
		Range:     r,
	}, nil
}

func (f *fakeFiles) Stream(_ context.Context, d *services.FileDownload, dst io.Writer) error {
	b := f.data
	if d.Range != nil {
		b = b[d.Range.Start : d.Range.Start+d.Range.Length]
	}
	_, err := dst.Write(b)
	return err
}

func (f *fakeFiles) DirectLink(_ context.Context, _, file string) (string, error) {
	return "https://objects.example/" + file, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, _, file string) error {
	f.deleted = append(f.deleted, file)
	return nil
}

type fakeBulk struct{}

func (fakeBulk) Prepare(_ context.Context, ws string, sel bulkdownload.Selection) (*bulkdownload.Plan, error) {
	return &bulkdownload.Plan{
		Workspace: &models.Workspace{ExternalID: ws},
		NotFound:  bulkdownload.NotFound{FileIDs: sel.FileIDs},
	}, nil
}

func (fakeBulk) Stream(_ context.Context, _ *bulkdownload.Plan, dst io.Writer) error {
	_, err := dst.Write([]byte("PK-archive"))
	return err
}

func startServer(t *testing.T, files *fakeFiles) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := gs.NewGRPCServer("bufnet", logging.NewNop(), files, fakeBulk{}, "secret", 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	orig := dial
	dial = func(string) (grpc.ClientConnInterface, func() error, error) {
		cc, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, nil, err
		}
		return cc, cc.Close, nil
	}

	t.Cleanup(func() {
		dial = orig
		cancel()
		<-done
	})
}

func testToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("tester", []string{"ws_1"}, []byte("secret"), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestRemoteCommands(t *testing.T) {
	files := &fakeFiles{data: []byte("the quick brown fox")}
	startServer(t, files)
	tok := testToken(t)

	out, _, err := run(t, "get", "--token", tok, "--workspace", "ws_1", "--file", "fi_1")
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", out)

	out, _, err = run(t, "get", "--token", tok, "--workspace", "ws_1", "--file", "fi_1", "--start", "4", "--length", "5")
	require.NoError(t, err)
	assert.Equal(t, "quick", out)

	out, _, err = run(t, "link", "--token", tok, "--workspace", "ws_1", "--file", "fi_1")
	require.NoError(t, err)
	assert.Equal(t, "https://objects.example/fi_1\n", out)

	out, _, err = run(t, "delete", "--token", tok, "--workspace", "ws_1", "--file", "fi_7")
	require.NoError(t, err)
	assert.Equal(t, "deleted fi_7\n", out)
	assert.Equal(t, []string{"fi_7"}, files.deleted)

	zipPath := filepath.Join(t.TempDir(), "files.zip")
	_, stderr, err := run(t, "bulk", "--token", tok, "--workspace", "ws_1", "--file", "fi_x,fi_y", "--out", zipPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "file ids not found: fi_x,fi_y")
	got, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	assert.Equal(t, "PK-archive", string(got))

	_, _, err = run(t, "get", "--token", tok, "--workspace", "ws_2", "--file", "fi_1")
	assert.Error(t, err)

	_, _, err = run(t, "get", "--token", tok, "--file", "fi_1")
	assert.ErrorContains(t, err, "--workspace")
}
