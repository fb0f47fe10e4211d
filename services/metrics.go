package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mooderi_jobs_started_total",
		Help: "Total number of video processing jobs accepted at intake",
	})

	jobTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mooderi_job_transitions_total",
		Help: "Job state transitions by resulting status",
	}, []string{"status"})

	framesApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mooderi_frames_approved_total",
		Help: "Total number of frames persisted through approval",
	})

	detachedTaskFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mooderi_detached_task_failures_total",
		Help: "Failures in fire-and-forget enrichment tasks",
	}, []string{"task"})
)
