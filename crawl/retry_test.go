package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry_succeeds_first_attempt(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "<html>ok</html>", nil
	}

	html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.Equal(t, 1, calls)
}

func TestFetchWithRetry_succeeds_after_failures(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		if calls < 3 {
			return "", askdoc.Errorf(askdoc.EUNAVAILABLE, "fetch failed")
		}
		return "<html>ok</html>", nil
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetry_exhausts_attempts(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "", askdoc.Errorf(askdoc.EUNAVAILABLE, "fetch failed")
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)
	require.Error(t, err)
	assert.Equal(t, askdoc.EUNAVAILABLE, askdoc.ErrorCode(err))
	assert.Equal(t, 4, calls, "1 initial attempt + 3 retries")
}

func TestFetchWithRetry_logs_retries(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, url string) (string, error) {
		return "", askdoc.Errorf(askdoc.EUNAVAILABLE, "fetch failed")
	}

	var logged []string
	logger := func(format string, args ...any) {
		logged = append(logged, format)
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond}
	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logger, delays)
	require.Error(t, err)
	assert.Len(t, logged, 2, "one log line per retry")
}

func TestFetchWithRetry_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "", askdoc.Errorf(askdoc.EUNAVAILABLE, "fetch failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	delays := []time.Duration{time.Second}
	_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, delays)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no retries after cancellation")
}

func TestFetchWithRetry_rate_limited_adds_jitter(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		if calls == 1 {
			return "", askdoc.Errorf(askdoc.ERATELIMITED, "slow down")
		}
		return "<html>ok</html>", nil
	}

	start := time.Now()
	delays := []time.Duration{10 * time.Millisecond}
	html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond, "base delay is always applied")
}
