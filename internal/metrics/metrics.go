package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests         *prometheus.CounterVec
	PostsCreated     prometheus.Counter
	PostsEdited      prometheus.Counter
	CommentsAdded    prometheus.Counter
	FollowRequests   prometheus.Counter
	UnfollowRequests prometheus.Counter
	IndexCache       *prometheus.CounterVec

	registry *prometheus.Registry
}

// New builds the collectors on their own registry.
func New() *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yatube_posts_created_total",
			Help: "Total number of posts created",
		}),
		PostsEdited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yatube_posts_edited_total",
			Help: "Total number of posts edited by their author",
		}),
		CommentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yatube_comments_added_total",
			Help: "Total number of comments added",
		}),
		FollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yatube_follows_total",
			Help: "Total number of successful follow requests",
		}),
		UnfollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yatube_unfollows_total",
			Help: "Total number of successful unfollow requests",
		}),
		IndexCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_index_cache_total",
				Help: "Index page fragment cache lookups by result",
			},
			[]string{"result"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.PostsCreated,
		m.PostsEdited,
		m.CommentsAdded,
		m.FollowRequests,
		m.UnfollowRequests,
		m.IndexCache,
	)
	return m
}

// CacheLookup records an index cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.IndexCache.WithLabelValues("hit").Inc()
		return
	}
	m.IndexCache.WithLabelValues("miss").Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
