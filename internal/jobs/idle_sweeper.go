package jobs

import (
	"context"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/service"
	"github.com/sirupsen/logrus"
)

// IdleSweeper evicts collaborators whose live binding went inactive.
// The engine itself never expires bindings; liveness is this job's
// concern.
type IdleSweeper struct {
	collab   *service.CollabService
	maxIdle  time.Duration
	schedule string
}

func NewIdleSweeper(collab *service.CollabService, maxIdle time.Duration, schedule string) *IdleSweeper {
	return &IdleSweeper{
		collab:   collab,
		maxIdle:  maxIdle,
		schedule: schedule,
	}
}

func (s *IdleSweeper) Schedule() string {
	return s.schedule
}

func (s *IdleSweeper) Run() {
	evicted := s.collab.SweepIdleCollaborators(context.Background(), s.maxIdle)
	if evicted > 0 {
		logrus.Infof("idle sweeper evicted %d collaborators", evicted)
	}
}
