package dispatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cya/internal/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowser_RejectsRelativeBase(t *testing.T) {
	_, err := dispatch.NewBrowser("/relative")
	assert.Error(t, err)
}

func TestBrowser_SubmitFollowsRedirect(t *testing.T) {
	var got struct {
		method      string
		contentType string
		host        string
		returnURL   string
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/container/remove/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		got.method = r.Method
		got.contentType = r.Header.Get("Content-Type")
		got.host = r.PostForm.Get("host")
		got.returnURL = r.PostForm.Get("url")
		http.Redirect(w, r, r.PostForm.Get("url"), http.StatusSeeOther)
	})
	mux.HandleFunc("/host/h1/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("host page"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b, err := dispatch.NewBrowser(srv.URL)
	require.NoError(t, err)
	require.NoError(t, b.Navigate(context.Background(), "/host/h1/"))
	assert.Equal(t, srv.URL+"/host/h1/", b.CurrentURL())

	d := dispatch.New(b, nil)
	require.NoError(t, d.RequestRemoveContainer(context.Background(), "h1", "web"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/x-www-form-urlencoded", got.contentType)
	assert.Equal(t, "h1", got.host)
	assert.Equal(t, srv.URL+"/host/h1/", got.returnURL)

	page := b.Page()
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Equal(t, srv.URL+"/host/h1/", page.URL)
	assert.Equal(t, "host page", string(page.Body))
}

func TestBrowser_ServerRejectionIsAPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad host", http.StatusBadRequest)
	}))
	defer srv.Close()

	b, err := dispatch.NewBrowser(srv.URL)
	require.NoError(t, err)

	d := dispatch.New(b, nil)
	require.NoError(t, d.RequestRecreateContainer(context.Background(), "", ""))

	page := b.Page()
	assert.Equal(t, http.StatusBadRequest, page.Status)
	assert.Equal(t, srv.URL+dispatch.PathRecreateContainer, page.URL)
	assert.Contains(t, string(page.Body), "bad host")
}

func TestBrowser_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	b, err := dispatch.NewBrowser(base)
	require.NoError(t, err)

	d := dispatch.New(b, nil)
	err = d.RequestSetContainerState(context.Background(), "h", "c", true)
	assert.Error(t, err)
	assert.Equal(t, base, b.CurrentURL())
}

func TestBrowser_TwoSubmitsTwoRequests(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			hits++
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b, err := dispatch.NewBrowser(srv.URL, dispatch.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	d := dispatch.New(b, nil)
	require.NoError(t, d.RequestRemoveContainer(context.Background(), "h", "c"))
	require.NoError(t, d.RequestRemoveContainer(context.Background(), "h", "c"))
	assert.Equal(t, 2, hits)
}
