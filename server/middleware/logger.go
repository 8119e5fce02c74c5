package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/gorilla/mux"
	"github.com/uber-go/tally/v4"
	"github.com/urfave/negroni"
)

// Logger logs every handled request with its status and duration, and emits
// per-request metrics.
type Logger struct {
	Logger logging.Logger
	Scope  tally.Scope
}

func (m *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		nw := negroni.NewResponseWriter(w)

		next.ServeHTTP(nw, r)

		elapsed := time.Since(start)
		route := routeName(r)
		scope := m.Scope.Tagged(map[string]string{
			metrics.RouteTag:  route,
			metrics.StatusTag: strconv.Itoa(nw.Status()),
		})
		scope.Counter(metrics.RequestCountMetric).Inc(1)
		scope.Timer(metrics.RequestLatencyMetric).Record(elapsed)

		m.Logger.InfoContext(
			r.Context(),
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			map[string]interface{}{
				"route":    route,
				"status":   nw.Status(),
				"duration": elapsed.String(),
			},
		)
	})
}

// routeName identifies the matched route for tagging. The route name is
// preferred over the path template so the catch-all asset prefix doesn't
// report as "/".
func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	if name := route.GetName(); name != "" {
		return name
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return "unknown"
}
