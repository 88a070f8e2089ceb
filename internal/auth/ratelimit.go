package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// UploadLimiter counts uploads per client within a fixed window. It is an
// explicit component: handlers receive it by injection and decide when to
// call Reset.
type UploadLimiter struct {
	mu              sync.Mutex
	uploads         map[string]*uploadRecord
	maxUploads      int
	window          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type uploadRecord struct {
	count       int
	windowStart time.Time
}

// UploadLimitConfig contains configuration for the upload limiter.
type UploadLimitConfig struct {
	MaxUploads      int           // Uploads allowed per window (default: 20)
	Window          time.Duration // Counting window (default: 15m)
	CleanupInterval time.Duration // How often to drop expired records (default: 5m)
}

// NewUploadLimiter creates a limiter and starts its cleanup goroutine.
func NewUploadLimiter(cfg UploadLimitConfig) *UploadLimiter {
	if cfg.MaxUploads <= 0 {
		cfg.MaxUploads = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &UploadLimiter{
		uploads:         make(map[string]*uploadRecord),
		maxUploads:      cfg.MaxUploads,
		window:          cfg.Window,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
		stopCleanup:     make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Stop stops the background cleanup goroutine. It is safe to call twice.
func (l *UploadLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

// Allow reports whether key may upload now. When it may not, retryAfter is
// the time until its window ends.
func (l *UploadLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.uploads[key]
	if !exists || now.Sub(record.windowStart) >= l.window {
		return true, 0
	}
	if record.count < l.maxUploads {
		return true, 0
	}
	return false, record.windowStart.Add(l.window).Sub(now)
}

// Record counts one upload for key.
func (l *UploadLimiter) Record(key string) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.uploads[key]
	if !exists || now.Sub(record.windowStart) >= l.window {
		l.uploads[key] = &uploadRecord{count: 1, windowStart: now}
		return
	}
	record.count++
}

// Reset forgets everything counted for key.
func (l *UploadLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.uploads, key)
	l.mu.Unlock()
}

// Count returns the uploads counted for key in its current window.
func (l *UploadLimiter) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.uploads[key]
	if !exists || l.now().Sub(record.windowStart) >= l.window {
		return 0
	}
	return record.count
}

func (l *UploadLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *UploadLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, record := range l.uploads {
		if now.Sub(record.windowStart) >= l.window {
			delete(l.uploads, key)
		}
	}
}

// Middleware rejects uploads over the limit with 429 and counts the rest.
// The client IP is the key.
func (l *UploadLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c)

		allowed, retryAfter := l.Allow(key)
		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many uploads",
				"retry_after": retryAfter.Round(time.Second).String(),
			})
			return
		}

		l.Record(key)
		c.Next()
	}
}

// ClientKey identifies the caller for rate limiting.
func ClientKey(c *gin.Context) string {
	return c.ClientIP()
}
