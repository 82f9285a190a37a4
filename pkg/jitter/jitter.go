// Package jitter разносит во времени повторные попытки и истечение ключей,
// чтобы клиенты не приходили к ресурсу одновременно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d, увеличенную на случайную долю в пределах [0, factor).
func Duration(d time.Duration, factor float64) time.Duration {
	randMutex.Lock()
	defer randMutex.Unlock()

	return DurationWithRand(d, factor, globalRand)
}

// DurationWithRand — то же, что Duration, но с заданным генератором.
func DurationWithRand(d time.Duration, factor float64, rng *rand.Rand) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	return d + time.Duration(rng.Float64()*factor*float64(d))
}

// ExponentialBackoff удваивает base на каждую попытку (с нуля), ограничивает max и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}

	if backoff > max {
		backoff = max
	}

	return Duration(backoff, factor)
}
