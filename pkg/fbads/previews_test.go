package fbads

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstLinkInHTML(t *testing.T) {
	var tests = []struct {
		name string
		html string
		want string
	}{
		{
			"href before src",
			`<div><a href="https://example.com/post">x</a><img src="https://cdn.example.com/i.jpg"></div>`,
			"https://example.com/post",
		},
		{
			"skips non-https",
			`<a href="http://insecure.example.com">x</a><img src="https://cdn.example.com/i.jpg">`,
			"https://cdn.example.com/i.jpg",
		},
		{"no links", `<p>plain text</p>`, ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, firstLinkInHTML(tt.html))
		})
	}
}

func TestPreviewLinkInstagramPermalink(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/"+DefaultVersion+"/c1/adsets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "as1"}]}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/as1/ads", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "ad1"}]}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/ad1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"creative":{"instagram_permalink_url":"https://www.instagram.com/p/abc/"}}`)
	})

	c := newTestClient(server.URL)
	require.Equal(t, "https://www.instagram.com/p/abc/", c.PreviewLink(context.Background(), "c1"))
}

func TestPreviewLinkStoryPermalink(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/"+DefaultVersion+"/c1/adsets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "as1"}]}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/as1/ads", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "ad1"}]}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/ad1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"creative":{"object_story_id":"page_post"}}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/page_post", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"permalink_url":"https://www.facebook.com/page/posts/1"}`)
	})

	c := newTestClient(server.URL)
	require.Equal(t, "https://www.facebook.com/page/posts/1", c.PreviewLink(context.Background(), "c1"))
}

func TestPreviewLinkFallsBackToAdsLibrary(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/"+DefaultVersion+"/c1/adsets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "as1"}]}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/as1/ads", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id": "ad1"}]}`)
	})
	// creative has nothing usable, previews render no https link
	mux.HandleFunc("/"+DefaultVersion+"/ad1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"creative":{}}`)
	})
	mux.HandleFunc("/"+DefaultVersion+"/ad1/previews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"body":"<p>no links here</p>"}]}`)
	})

	c := newTestClient(server.URL)
	require.Equal(t, adsLibraryURL+"ad1", c.PreviewLink(context.Background(), "c1"))
}

func TestPreviewLinkNoAds(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/"+DefaultVersion+"/c1/adsets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})

	c := newTestClient(server.URL)
	require.Empty(t, c.PreviewLink(context.Background(), "c1"))
}
