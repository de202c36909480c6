package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	mirrorResultOK     = "ok"
	mirrorResultFailed = "failed"
)

var mirrorTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blog_search_mirror_total",
	Help: "Search index updates after a blog save, by result.",
}, []string{"result"})
