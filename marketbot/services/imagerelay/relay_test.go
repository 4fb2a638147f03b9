package imagerelay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketbot/marketbot/utils/logging"
)

func TestFetchDataURI(t *testing.T) {
	logging.InitLogger()
	r := New(nil)

	data, mime, err := r.Fetch(context.Background(), "data:image/png;base64,aG9sYQ==")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hola" || mime != "image/png" {
		t.Errorf("got %q %q", data, mime)
	}
}

func TestFetchDataURIPlain(t *testing.T) {
	logging.InitLogger()
	data, mime, err := New(nil).Fetch(context.Background(), "data:text/plain,hola")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hola" || mime != "text/plain" {
		t.Errorf("got %q %q", data, mime)
	}
}

func TestFetchMalformedDataURI(t *testing.T) {
	logging.InitLogger()
	if _, _, err := New(nil).Fetch(context.Background(), "data:image/png;base64"); err == nil {
		t.Fatal("expected error for a data uri without payload")
	}
}

func TestFetchHTTP(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	data, mime, err := New(nil).Fetch(context.Background(), srv.URL+"/img.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg-bytes" || mime != "image/jpeg" {
		t.Errorf("got %q %q", data, mime)
	}
}

func TestFetchHTTPBadStatus(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, _, err := New(nil).Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404")
	}
}
