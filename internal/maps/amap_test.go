package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"roam/internal/keys"
)

type fixedCreds struct {
	bundle keys.ApiKeys
}

func (f fixedCreds) Snapshot() keys.ApiKeys { return f.bundle }

func withKey() fixedCreds {
	return fixedCreds{bundle: keys.ApiKeys{Amap: keys.AmapKeys{Key: "amap-key"}}}
}

func newTestAmap(creds credentialSource, url string) *AmapService {
	s := NewAmapService(creds, nil)
	s.baseURL = url
	return s
}

func TestSearchPOI_MissingKey(t *testing.T) {
	s := NewAmapService(fixedCreds{}, nil)
	_, err := s.SearchPOI(context.Background(), "餐厅", "北京")
	if !errors.Is(err, ErrMapKeyMissing) {
		t.Fatalf("err = %v, want ErrMapKeyMissing", err)
	}
}

func TestSearchPOI_PassesKeyAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/text" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "amap-key" || q.Get("keywords") != "博物馆" || q.Get("city") != "上海" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"status":"1","pois":[{"name":"上海博物馆"}]}`))
	}))
	defer srv.Close()

	s := newTestAmap(withKey(), srv.URL)
	raw, err := s.SearchPOI(context.Background(), "博物馆", "上海")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if string(raw) != `{"status":"1","pois":[{"name":"上海博物馆"}]}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestGeocode_VendorFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","info":"INVALID_USER_KEY"}`))
	}))
	defer srv.Close()

	s := newTestAmap(withKey(), srv.URL)
	_, err := s.Geocode(context.Background(), "天安门")
	if err == nil {
		t.Fatal("expected an error for status 0")
	}
}

func TestGeocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	s := newTestAmap(withKey(), srv.URL)
	if _, err := s.Geocode(context.Background(), "x"); err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
}
