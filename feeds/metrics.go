package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movfeed_remote_loads_total",
		Help: "Remote store loads by outcome",
	}, []string{"status"})

	remotePostsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movfeed_remote_posts_loaded_total",
		Help: "Posts inserted into the feed from the remote store",
	})

	adminOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movfeed_admin_operations_total",
		Help: "Administrative feed mutations by operation and result",
	}, []string{"operation", "result"})
)
