package xlist

import "github.com/Harshan-Nayak/xlist/service"

// Re-export the service package entry point so consumers can do `xlist.New(...)`
// without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
)

// New constructs the xlist runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
