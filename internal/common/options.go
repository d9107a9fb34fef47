package common

import (
	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// ServiceOptions defines common options for the application builder
type ServiceOptions struct {
	Logger  *zap.Logger
	Command domain.Command
}

// Option defines a service option modifier
type Option func(*ServiceOptions)

func WithLogger(logger *zap.Logger) Option {
	return func(o *ServiceOptions) {
		o.Logger = logger
	}
}

func WithCommand(cmd domain.Command) Option {
	return func(o *ServiceOptions) {
		o.Command = cmd
	}
}
