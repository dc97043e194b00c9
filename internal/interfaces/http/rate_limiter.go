package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// minIdle tiempo mínimo sin peticiones antes de olvidar una IP.
const minIdle = 10 * time.Minute

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter token bucket por IP para las rutas de autenticación.
// Las IPs inactivas se descartan; para entonces su cubeta ya estaría llena.
type RateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*visitor
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

// NewRateLimiter permite perMinute peticiones por minuto por IP con ráfagas de burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	r := rate.Limit(float64(perMinute) / 60)
	idle := minIdle
	if r > 0 {
		if refill := time.Duration(float64(burst) / float64(r) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &RateLimiter{
		ips:       make(map[string]*visitor),
		rate:      r,
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweepLocked(now)
	}
	v, ok := rl.ips[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.lim
}

// Sweep descarta las IPs sin actividad desde hace más del tiempo de inactividad.
// Handler lo invoca solo, como mucho una vez por ese intervalo.
func (rl *RateLimiter) Sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sweepLocked(now)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for ip, v := range rl.ips {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.ips, ip)
		}
	}
	rl.lastSweep = now
}

// Len número de IPs con cubeta en memoria.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.ips)
}

// Handler responde 429 cuando la IP agotó su cupo.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		if !rl.limiter(c.IP(), now).AllowN(now, 1) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, espere un momento"})
		}
		return c.Next()
	}
}
