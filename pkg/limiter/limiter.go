package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed hands out one token bucket per key (client IP, chat sender).
type Keyed struct {
	bucket    map[string]*entry
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	mutex     *sync.Mutex
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func New(reqRate rate.Limit, burstSize int) *Keyed {
	return &Keyed{
		bucket:    make(map[string]*entry),
		rate:      reqRate,
		burstSize: burstSize,
		idleTTL:   10 * time.Minute,
		mutex:     &sync.Mutex{},
	}
}

// PerMinute builds a limiter allowing n events per minute with a burst of n.
func PerMinute(n int) *Keyed {
	if n <= 0 {
		return New(rate.Inf, 0)
	}
	return New(rate.Every(time.Minute/time.Duration(n)), n)
}

func (k *Keyed) GetLimiterFrom(key string) *rate.Limiter {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	now := time.Now()
	e, exist := k.bucket[key]
	if !exist {
		e = &entry{limiter: rate.NewLimiter(k.rate, k.burstSize)}
		k.bucket[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

func (k *Keyed) Allow(key string) bool {
	return k.GetLimiterFrom(key).Allow()
}

// Sweep drops buckets idle for longer than the idle TTL and returns how many
// were removed.
func (k *Keyed) Sweep(now time.Time) int {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	removed := 0
	for key, e := range k.bucket {
		if now.Sub(e.lastSeen) > k.idleTTL {
			delete(k.bucket, key)
			removed++
		}
	}
	return removed
}
