package service

import (
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/fit"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fit scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending fit jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize sets how many risk evaluations are memoized. 0 disables the cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// WithMaxBatchSize caps the candidates accepted by one scoring call.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithRiskConfig sets the default risk thresholds.
func WithRiskConfig(cfg risk.Config) Option {
	return func(s *Service) {
		s.riskCfg = cfg
	}
}

// WithFitConfig sets the default fit scoring curve.
func WithFitConfig(cfg fit.Config) Option {
	return func(s *Service) {
		s.fitCfg = cfg
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
