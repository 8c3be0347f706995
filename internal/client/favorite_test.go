package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeToggler scripts ToggleFavorite responses in order.
type fakeToggler struct {
	mu    sync.Mutex
	calls int
	steps []func() (bool, error)
}

func (f *fakeToggler) ToggleFavorite(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	step := f.steps[f.calls]
	f.calls++
	f.mu.Unlock()
	return step()
}

func TestFavoriteViewToggleFlips(t *testing.T) {
	api := &fakeToggler{steps: []func() (bool, error){
		func() (bool, error) { return true, nil },
		func() (bool, error) { return false, nil },
	}}
	view := NewFavoriteView(api, "intro-to-html", false, 4)

	if err := view.Toggle(context.Background()); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if fav, count := view.State(); !fav || count != 5 {
		t.Errorf("after add: favorited=%v count=%d, want true 5", fav, count)
	}

	if err := view.Toggle(context.Background()); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if fav, count := view.State(); fav || count != 4 {
		t.Errorf("after remove: favorited=%v count=%d, want false 4", fav, count)
	}
}

func TestFavoriteViewRollsBackOnError(t *testing.T) {
	bang := errors.New("network down")
	started := make(chan struct{})
	release := make(chan struct{})

	api := &fakeToggler{steps: []func() (bool, error){
		func() (bool, error) {
			close(started)
			<-release
			return false, bang
		},
	}}
	view := NewFavoriteView(api, "intro-to-html", true, 7)

	done := make(chan error, 1)
	go func() { done <- view.Toggle(context.Background()) }()

	// While the request is in flight the flip is already visible.
	<-started
	if fav, count := view.State(); fav || count != 6 {
		t.Errorf("optimistic state: favorited=%v count=%d, want false 6", fav, count)
	}

	close(release)
	if err := <-done; !errors.Is(err, bang) {
		t.Fatalf("toggle error = %v, want %v", err, bang)
	}

	// The failed toggle restored the exact pre-flip snapshot.
	if fav, count := view.State(); !fav || count != 7 {
		t.Errorf("rolled-back state: favorited=%v count=%d, want true 7", fav, count)
	}
}

func TestFavoriteViewAgainstServer(t *testing.T) {
	favorited := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/contents/intro-to-html/favorite/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		favorited = !favorited
		if favorited {
			w.WriteHeader(http.StatusCreated)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("tok")
	view := NewFavoriteView(api, "intro-to-html", false, 0)

	if err := view.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if fav, count := view.State(); !fav || count != 1 {
		t.Errorf("after add: favorited=%v count=%d, want true 1", fav, count)
	}

	if err := view.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if fav, count := view.State(); fav || count != 0 {
		t.Errorf("after remove: favorited=%v count=%d, want false 0", fav, count)
	}
}
