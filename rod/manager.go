package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is how many pages a browser serves before it is
// replaced with a fresh one.
const DefaultMaxPages = 75

// BrowserManager owns the headless Chrome instance behind a Fetcher
// and replaces it after a fixed number of pages. Long crawls leak
// renderer memory that page cleanup never reclaims, so a docs site of
// a few hundred pages needs several browser generations.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int64
	maxPages int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages the browser serves before
// recycling. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches the first browser generation. Close must
// be called when the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, lnchr, err := launchBrowser()
	if err != nil {
		return nil, err
	}
	bm.browser = browser
	bm.launcher = lnchr

	return bm, nil
}

// Browser returns the current browser, starting a fresh generation
// first if the served-page count has reached the recycling threshold.
// Callers report processed pages via IncrementPageCount.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.served >= bm.maxPages {
		bm.recycle()
	}

	return bm.browser
}

// IncrementPageCount records one processed page toward the recycling
// threshold.
func (bm *BrowserManager) IncrementPageCount() {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.served++
}

// Close shuts down the browser and its launcher process. Close is
// safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	return bm.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, or zero
// when no browser is running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// recycle swaps in a fresh browser generation. If the new launch
// fails the old browser stays in service. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	browser, lnchr, err := launchBrowser()
	if err != nil {
		return
	}

	old, oldLnchr := bm.browser, bm.launcher
	bm.browser = browser
	bm.launcher = lnchr
	bm.served = 0

	if old != nil {
		_ = old.Close()
	}
	if oldLnchr != nil {
		oldLnchr.Kill()
	}
}

// shutdown closes the current browser and kills the launcher process.
// Must be called with mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// launchBrowser starts a headless browser with throttling disabled;
// background tabs that stop running JavaScript never finish rendering
// the pages we fetch.
func launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return browser, lnchr, nil
}
