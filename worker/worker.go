package worker

import (
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// IJob cron driven job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// NewCron cron scheduler in location, local time when it can't be loaded
func NewCron(location string) *cron.Cron {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.Local
	}

	return cron.New(cron.WithLocation(l))
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// IsRunning reports whether a run is in progress
func (job *BaseJob) IsRunning() bool {
	return atomic.LoadInt32(&job.running) == 1
}

// Run skips the tick while the previous run is still working
func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	if err := job.OnWork(); err != nil {
		logrus.WithError(err).Debugln("job run")
	}
}
