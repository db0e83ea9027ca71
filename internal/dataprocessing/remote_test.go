package dataprocessing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweek/internal/config"
)

func sourceConfig(url string) config.SourceConfig {
	cfg := config.Default().Source
	cfg.RemoteURL = url
	return cfg
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	f := NewFetcher(sourceConfig(server.URL), nil)
	assert.Equal(t, server.URL, f.URL())

	body, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
	assert.Equal(t, config.AppName+"/"+config.AppVersion, gotUA)
}

func TestFetcher_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		mutate  func(*config.SourceConfig)
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "body over limit",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("0123456789abcdef"))
			},
			mutate:  func(c *config.SourceConfig) { c.MaxUploadBytes = 10 },
			wantErr: ErrSourceTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cfg := sourceConfig(server.URL)
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			_, err := NewFetcher(cfg, nil).Fetch(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := sourceConfig(server.URL)
	cfg.FetchTimeout = 50 * time.Millisecond

	_, err := NewFetcher(cfg, nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher(sourceConfig(url), nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetcher_CollapsesConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte("shared"))
	}))
	defer server.Close()

	f := NewFetcher(sourceConfig(server.URL), nil)

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = f.Fetch(context.Background())
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.Fetch(context.Background())
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared"), results[i])
	}
}

func TestFetcher_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte("shared"))
	}))
	defer server.Close()
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	f := NewFetcher(sourceConfig(server.URL), nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(leaderCtx)
		leaderErr <- err
	}()
	<-started

	type result struct {
		body []byte
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		body, err := f.Fetch(context.Background())
		follower <- result{body, err}
	}()
	time.Sleep(100 * time.Millisecond)

	cancelLeader()
	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting for the shared fetch")
	}

	close(release)
	select {
	case res := <-follower:
		require.NoError(t, res.err)
		assert.Equal(t, []byte("shared"), res.body)
	case <-time.After(2 * time.Second):
		t.Fatal("live caller never received the shared result")
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_SharedFetchHonoursFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := sourceConfig(server.URL)
	cfg.FetchTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := NewFetcher(cfg, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
