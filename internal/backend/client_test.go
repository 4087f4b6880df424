package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "127.0.0.1:4000", "ftp://host", "http://"} {
		if _, err := NewClient(raw, nil); err == nil {
			t.Errorf("NewClient(%q) succeeded, want error", raw)
		}
	}
}

func TestReadSamples_SendsWriteFlagAndFixedHeaders(t *testing.T) {
	t.Parallel()

	var gotWrite, gotCT, gotCache, gotReferer string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathReadSamples {
			t.Errorf("path = %q, want %q", r.URL.Path, PathReadSamples)
		}
		gotWrite = r.URL.Query().Get("write")
		gotCT = r.Header.Get("Content-Type")
		gotCache = r.Header.Get("Cache-Control")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fz":1.5,"ax":0.25,"ay":-0.5,"az":3,"tx":9}`))
	}))

	s, err := c.ReadSamples(context.Background(), true)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if gotWrite != "true" {
		t.Errorf("write = %q, want true", gotWrite)
	}
	if gotCT != "application/json" || gotCache != "no-cache" || gotReferer != "" {
		t.Errorf("headers: content-type=%q cache=%q referer=%q", gotCT, gotCache, gotReferer)
	}
	if s.Fz != 1.5 || s.Ax != 0.25 || s.Ay != -0.5 || s.Az != 3 || s.Tx != 9 {
		t.Errorf("sample = %+v", s)
	}
	if s.ReceivedAt.IsZero() {
		t.Error("ReceivedAt not stamped")
	}

	if _, err := c.ReadSamples(context.Background(), false); err != nil {
		t.Fatalf("ReadSamples(false): %v", err)
	}
	if gotWrite != "false" {
		t.Errorf("write = %q, want false", gotWrite)
	}
}

func TestConnect_DecodesReply(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Connection sucessful","filename":"netbox-data-01-02-2026-10-00.csv"}`))
	}))

	reply, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !reply.Succeeded() || reply.Filename != "netbox-data-01-02-2026-10-00.csv" {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestConnect_ServerErrorCarriesMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Failed to connect"}`))
	}))

	_, err := c.Connect(context.Background())
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if serr.Code != http.StatusInternalServerError || serr.Path != PathConnect {
		t.Errorf("status error = %+v", serr)
	}
	if msg, ok := ServerMessage(err); !ok || msg != "Failed to connect" {
		t.Errorf("ServerMessage = %q, %v", msg, ok)
	}
}

func TestControlEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	for path, msg := range map[string]string{
		PathDisconnect:   "Disconnected",
		PathTareLoadCell: "clipX tare successful",
		PathTareHeiden:   "heidenhain tare successful",
	} {
		body := `{"message":"` + msg + `"}`
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	c := newTestClient(t, mux)
	ctx := context.Background()

	if r, err := c.Disconnect(ctx); err != nil || r.Message != "Disconnected" {
		t.Errorf("Disconnect = %+v, %v", r, err)
	}
	if r, err := c.TareLoadCell(ctx); err != nil || r.Message != "clipX tare successful" {
		t.Errorf("TareLoadCell = %+v, %v", r, err)
	}
	if r, err := c.TareHeiden(ctx); err != nil || r.Message != "heidenhain tare successful" {
		t.Errorf("TareHeiden = %+v, %v", r, err)
	}
}

func TestRedirect_FollowedWithoutReferer(t *testing.T) {
	t.Parallel()

	var referer string
	mux := http.NewServeMux()
	mux.HandleFunc("/old/api/tareheiden", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PathTareHeiden, http.StatusFound)
	})
	mux.HandleFunc(PathTareHeiden, func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		_, _ = w.Write([]byte(`{"message":"heidenhain tare successful"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/old", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	r, err := c.TareHeiden(context.Background())
	if err != nil {
		t.Fatalf("TareHeiden: %v", err)
	}
	if r.Message != "heidenhain tare successful" {
		t.Errorf("message = %q", r.Message)
	}
	if referer != "" {
		t.Errorf("referer = %q, want empty", referer)
	}
}

func TestReadSamples_ContextTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.ReadSamples(ctx, false); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestReadSamples_MalformedBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))

	if _, err := c.ReadSamples(context.Background(), false); err == nil {
		t.Fatal("expected decode error")
	}
}
