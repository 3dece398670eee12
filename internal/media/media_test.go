package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, name string, width, height int) File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return File{Name: name, Data: buf.Bytes()}
}

func jpegFile(t *testing.T, name string, width, height int) File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return File{Name: name, Data: buf.Bytes()}
}

func TestRules_Validate(t *testing.T) {
	rules := DefaultRules()

	img, ferr := rules.Validate(pngFile(t, "wide.png", 1280, 20))
	require.Nil(t, ferr)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, 1280, img.Width)

	img, ferr = rules.Validate(jpegFile(t, "photo.jpg", 1300, 16))
	require.Nil(t, ferr)
	assert.Equal(t, "jpg", img.Ext)
	assert.Equal(t, 1300, img.Width)

	_, ferr = rules.Validate(pngFile(t, "narrow.png", 800, 20))
	require.NotNil(t, ferr)
	assert.Equal(t, StageValidation, ferr.Stage)
	assert.Contains(t, ferr.Message, "1280")

	_, ferr = rules.Validate(File{Name: "notes.txt", Data: []byte("just some text")})
	require.NotNil(t, ferr)
	assert.Contains(t, ferr.Message, "formato no permitido")

	_, ferr = rules.Validate(File{Name: "empty.png"})
	require.NotNil(t, ferr)
}

func TestRules_ValidateSize(t *testing.T) {
	f := pngFile(t, "big.png", 1280, 20)
	rules := Rules{MaxBytes: int64(len(f.Data) - 1), MinWidth: 1}

	_, ferr := rules.Validate(f)
	require.NotNil(t, ferr)
	assert.Equal(t, "big.png", ferr.Name)
}

func TestWorkingSet_MinimumThree(t *testing.T) {
	ws := NewWorkingSet(DefaultRules())
	ws.Add(pngFile(t, "a.png", 1280, 10), pngFile(t, "b.png", 1280, 10))

	err := ws.Ready()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mínimo 3")
}

func TestWorkingSet_KeepsValidFilesAndReportsNarrowOne(t *testing.T) {
	ws := NewWorkingSet(DefaultRules())
	ws.Add(
		pngFile(t, "a.png", 1280, 10),
		pngFile(t, "small.png", 1000, 10),
		pngFile(t, "b.png", 1600, 10),
	)

	require.Len(t, ws.Images(), 2)
	assert.Equal(t, "a.png", ws.Images()[0].Name)
	assert.Equal(t, "b.png", ws.Images()[1].Name)
	require.Len(t, ws.Rejected(), 1)
	assert.Equal(t, "small.png", ws.Rejected()[0].Name)
	assert.Error(t, ws.Ready())
}

func TestWorkingSet_MaximumFive(t *testing.T) {
	ws := NewWorkingSet(DefaultRules())
	for i := 0; i < 6; i++ {
		ws.Add(pngFile(t, string(rune('a'+i))+".png", 1280, 10))
	}

	assert.Len(t, ws.Images(), MaxImages)
	require.Len(t, ws.Rejected(), 1)
	assert.Equal(t, "f.png", ws.Rejected()[0].Name)
	assert.NoError(t, ws.Ready())
}

type fakeStore struct {
	mu   sync.Mutex
	keys []string
	fail map[string]error
}

func (s *fakeStore) Put(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	data, _ := io.ReadAll(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, err := range s.fail {
		if bytes.Contains(data, []byte(name)) {
			return "", err
		}
	}
	s.keys = append(s.keys, key)
	return "https://cdn.local/" + key, nil
}

func images(t *testing.T, names ...string) []*Image {
	t.Helper()
	var out []*Image
	for _, n := range names {
		f := pngFile(t, n, 1280, 10)
		// tag the payload so the fake store can tell files apart
		f.Data = append(f.Data, []byte(n)...)
		img, ferr := DefaultRules().Validate(f)
		require.Nil(t, ferr)
		out = append(out, img)
	}
	return out
}

func TestUploader_AllSucceed(t *testing.T) {
	store := &fakeStore{}
	var mu sync.Mutex
	progress := map[int]int64{}

	slots, err := NewUploader(store, 2, nil).Upload(context.Background(), "act-1", images(t, "a", "b", "c"),
		func(i int, sent, total int64) {
			mu.Lock()
			progress[i] = sent
			mu.Unlock()
		})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.True(t, strings.HasPrefix(s.URL, "https://cdn.local/activities/act-1/"))
		assert.Equal(t, s.Total, s.Sent)
		assert.Equal(t, s.Total, progress[i])
	}
	assert.Len(t, store.keys, 3)
}

func TestUploader_OneFailureBlocksBatchButKeepsOthers(t *testing.T) {
	store := &fakeStore{fail: map[string]error{"bad": ErrNetwork}}

	slots, err := NewUploader(store, 0, nil).Upload(context.Background(), "act-1", images(t, "a", "bad", "c"), nil)
	require.Error(t, err)

	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, StageNetwork, ferr.Stage)

	assert.NotEmpty(t, slots[0].URL)
	assert.Empty(t, slots[1].URL)
	require.NotNil(t, slots[1].Err)
	assert.Equal(t, "bad", slots[1].Name)
	assert.NotEmpty(t, slots[2].URL)
}

func TestObjectKey(t *testing.T) {
	k1, err := ObjectKey("act-1", "png")
	require.NoError(t, err)
	k2, err := ObjectKey("act-1", "png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(k1, "activities/act-1/"))
	assert.True(t, strings.HasSuffix(k1, ".png"))
	assert.NotEqual(t, k1, k2)

	for _, id := range []string{"", ".", "..", "../etc", "a/b", `a\b`, "x..y"} {
		_, err := ObjectKey(id, "png")
		assert.ErrorIs(t, err, ErrBadKey, id)
	}
}

func TestUploader_RejectsUnsafeActivityID(t *testing.T) {
	store := &fakeStore{}

	slots, err := NewUploader(store, 0, nil).Upload(context.Background(), "../../etc", images(t, "a", "b", "c"), nil)
	assert.ErrorIs(t, err, ErrBadKey)
	assert.Nil(t, slots)
	assert.Empty(t, store.keys)
}

func TestDiskStore_Put(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "http://localhost:8080/media/")

	url, err := store.Put(context.Background(), "activities/act-1/x.png", "image/png", strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/activities/act-1/x.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "activities", "act-1", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	_, err = store.Put(context.Background(), "../outside.png", "image/png", strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, ErrBadKey)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "outside.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestHTTPStore_Put(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotType = r.Header.Get("Content-Type")
		if strings.Contains(r.URL.Path, "reject") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "https://cdn.local", time.Second)

	url, err := store.Put(context.Background(), "activities/a/x.png", "image/png", strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.local/activities/a/x.png", url)
	assert.Equal(t, "image/png", gotType)

	_, err = store.Put(context.Background(), "reject/x.png", "image/png", strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, ErrUpload)

	_, err = NewHTTPStore("http://127.0.0.1:1", "", time.Second).Put(context.Background(), "x.png", "image/png", strings.NewReader("d"), 1)
	assert.ErrorIs(t, err, ErrNetwork)
}
