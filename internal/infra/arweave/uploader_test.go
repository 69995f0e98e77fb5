package arweave

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadMetadata_OK(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"uri":"https://gateway.irys.xyz/abc"}`))
	}))
	defer srv.Close()

	u := NewHTTPUploader(srv.URL+"/", "secret", nil)
	uri, err := u.UploadMetadata(context.Background(), []byte(`{"name":"Yochi"}`))
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.irys.xyz/abc", uri)
	assert.Equal(t, "/upload/json", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"name":"Yochi"}`, gotBody)
}

func TestUploadMetadata_NoAPIKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"uri":"ar://x"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, "", nil).UploadMetadata(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUploadMetadata_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("irys down"))
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, "", nil).UploadMetadata(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
	assert.Contains(t, err.Error(), "irys down")
}

func TestUploadMetadata_EmptyURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"uri":""}`))
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, "", nil).UploadMetadata(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestUploadMetadata_InputValidation(t *testing.T) {
	u := NewHTTPUploader("", "", nil)

	_, err := u.UploadMetadata(context.Background(), nil)
	assert.Error(t, err)

	_, err = u.UploadMetadata(context.Background(), []byte("{not json"))
	assert.Error(t, err)

	_, err = u.UploadMetadata(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
