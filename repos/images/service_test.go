package images

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jpeg":
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			w.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
		case "/sniff":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(pngBytes)
		case "/empty":
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewService(server.Client(), "http://unused", "", "", nil)
	ctx := context.Background()

	image, err := svc.Fetch(ctx, server.URL+"/jpeg", "beach")
	require.NoError(t, err)
	assert.Equal(t, "beach.jpg", image.Name)
	assert.Equal(t, "image/jpeg", image.ContentType)
	assert.Len(t, image.Data, 4)

	image, err = svc.Fetch(ctx, server.URL+"/sniff", "court")
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, "court.png", image.Name)

	_, err = svc.Fetch(ctx, server.URL+"/empty", "x")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = svc.Fetch(ctx, server.URL+"/missing", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestUpload(t *testing.T) {
	var (
		gotPath     string
		gotAuth     string
		gotRun      string
		gotFilename string
		gotType     string
		gotData     []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRun = r.Header.Get("X-Seed-Run")

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotType = header.Header.Get("Content-Type")
		gotData, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"img-1"}`))
	}))
	defer server.Close()

	svc := NewService(server.Client(), server.URL+"/", "secret", "run-1", nil)
	id, err := svc.Upload(context.Background(), "e-1", &Image{Name: "beach.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	assert.Equal(t, "img-1", id)
	assert.Equal(t, "/events/e-1/images", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "run-1", gotRun)
	assert.Equal(t, "beach.png", gotFilename)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, pngBytes, gotData)
}

func TestUploadResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantID  string
		wantErr string
	}{
		{name: "numeric id", status: http.StatusOK, body: `{"id":42}`, wantID: "42"},
		{name: "large numeric id", status: http.StatusOK, body: `{"id":12345678901234567891}`, wantID: "12345678901234567891"},
		{name: "missing id", status: http.StatusOK, body: `{"url":"/x.png"}`, wantErr: ErrMissingImageID.Error()},
		{name: "blank id", status: http.StatusOK, body: `{"id":"  "}`, wantErr: ErrMissingImageID.Error()},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "unexpected status 500: boom"},
		{name: "not json", status: http.StatusOK, body: "<html>", wantErr: "decode upload response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			svc := NewService(server.Client(), server.URL, "", "", nil)
			id, err := svc.Upload(context.Background(), "e-1", &Image{Name: "a.png", ContentType: "image/png", Data: pngBytes})
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestUploadRejectsEmptyImage(t *testing.T) {
	svc := NewService(nil, "http://localhost", "", "", nil)
	_, err := svc.Upload(context.Background(), "e-1", &Image{Name: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "image/jpeg", mediaType(" Image/JPEG ; q=1"))
	assert.Equal(t, ".webp", extension("image/webp"))
	assert.Equal(t, ".bin", extension("application/pdf"))
	assert.Equal(t, `a\"b`, escapeQuotes(`a"b`))
	assert.Equal(t, "", idString(nil))
	assert.Equal(t, "7", idString(float64(7)))
}
