package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipo_work_registrations_total",
		Help: "Number of works registered.",
	})
	metadataChangesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipo_metadata_changes_total",
		Help: "Number of metadata pair mutations accepted.",
	})
	eventsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipo_feed_events_published_total",
		Help: "Number of events published on the feed subject.",
	})
	eventsPublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipo_feed_publish_errors_total",
		Help: "Number of failed feed publish attempts.",
	})
)

func init() {
	prometheus.MustRegister(registrationsTotal)
	prometheus.MustRegister(metadataChangesTotal)
	prometheus.MustRegister(eventsPublishedTotal)
	prometheus.MustRegister(eventsPublishErrorsTotal)
}
