/*
Copyright 2022 the acct-manager contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "acct_manager_http_requests_total",
	Help: "Count of all HTTP requests",
}, []string{"code", "method"})

var httpRequestsDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "acct_manager_http_request_duration_seconds",
		Help:    "A histogram of latencies for requests.",
		Buckets: []float64{.005, .01, .025, .05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"method", "route"},
)

// Instrument wraps the passed handler with prometheus duration and counter
// tracking. The route label is the mux path template, so path parameters do
// not blow up the label cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		promhttp.InstrumentHandlerCounter(httpRequestsTotal, next).ServeHTTP(w, r)
		httpRequestsDuration.With(prometheus.Labels{"route": lookupRoute(r), "method": r.Method}).Observe(time.Since(start).Seconds())
	})
}

func lookupRoute(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return template
}
