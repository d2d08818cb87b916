package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/response"
)

// countingWindow счетчик запросов одного ключа в текущем окне.
type countingWindow struct {
	start time.Time
	count int
}

// RateLimiter ограничивает частоту запросов в пределах группы эндпоинтов
// счетчиком с фиксированным окном: не более maxPoints запросов за окно,
// (maxPoints+1)-й запрос внутри окна получает отказ. Окна заводятся лениво
// по одному на принципала, анонимные запросы считаются по адресу клиента.
// Счетчики разных групп независимы.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*countingWindow

	window    time.Duration
	maxPoints int
	lastSweep time.Time
}

// NewRateLimiter создает ограничитель: не более maxPoints запросов
// за окно window на принципала.
func NewRateLimiter(window time.Duration, maxPoints int) *RateLimiter {
	return &RateLimiter{
		windows:   make(map[string]*countingWindow),
		window:    window,
		maxPoints: maxPoints,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.windows[key] = &countingWindow{start: now, count: 1}
		return true
	}
	if w.count >= rl.maxPoints {
		return false
	}
	w.count++
	return true
}

// sweep удаляет ключи, чье окно давно истекло, чтобы карта не росла
// бесконечно с числом принципалов и анонимных адресов. Вызывается под mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key, w := range rl.windows {
		if now.Sub(w.start) >= 2*rl.window {
			delete(rl.windows, key)
		}
	}
}

// Middleware возвращает HTTP middleware, отклоняющее избыточные запросы
// с HTTP статусом 429 Too Many Requests.
func (rl *RateLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := r.Context().Value(PrincipalUID).(string)
			if !ok || key == "" {
				key = r.RemoteAddr
			}
			if !rl.allow(key) {
				log.Error("too many requests", slog.String("key", key))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
