package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters.
type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	PostsCreated       prometheus.Counter
	LikesToggled       prometheus.Counter
	CommentsCreated    prometheus.Counter
	RealtimePublishes  prometheus.Counter
}

// InitMetrics registers and returns the service counters.
func InitMetrics() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_request",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unsuccessful_request",
				Help: "Total number of unsuccessful (4xx/5xx) HTTP requests",
			},
			[]string{"path"},
		),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		}),
		LikesToggled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "likes_toggled_total",
			Help: "Total number of like toggles",
		}),
		CommentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Total number of comments created",
		}),
		RealtimePublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_publishes_total",
			Help: "Total number of notifications pushed to the realtime channel",
		}),
	}

	prometheus.MustRegister(m.SuccessfulRequests)
	prometheus.MustRegister(m.BadRequests)
	prometheus.MustRegister(m.PostsCreated)
	prometheus.MustRegister(m.LikesToggled)
	prometheus.MustRegister(m.CommentsCreated)
	prometheus.MustRegister(m.RealtimePublishes)

	return m
}

// Middleware counts request outcomes per route path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			path := c.Path()
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if status >= 200 && status < 300 {
				m.SuccessfulRequests.WithLabelValues(path).Inc()
			} else if status >= 400 {
				m.BadRequests.WithLabelValues(path).Inc()
			}
			return err
		}
	}
}
