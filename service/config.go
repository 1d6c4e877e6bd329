package service

import (
	"github.com/sirupsen/logrus"
)

const (
	DefaultOps         = 100_000
	DefaultKeySpace    = 512
	DefaultVerifyEvery = 1_000
	DefaultTrailSize   = 32
)

type Config struct {
	// Seed drives every random choice of a run.
	Seed int64
	// Ops is the number of operations to apply.
	Ops int
	// KeySpace bounds the keys to [0, KeySpace).
	KeySpace int
	// VerifyEvery sets how often the full contents and tree invariants
	// are checked. The final check always runs.
	VerifyEvery int
	// MaxNodes bounds each node arena and the stack. Zero means
	// unbounded. When bounded, exhaustion is expected and counted.
	MaxNodes int
	// TrailSize is how many recent operations a divergence report shows.
	TrailSize int

	Logger logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.Ops <= 0 {
		c.Ops = DefaultOps
	}
	if c.KeySpace <= 0 {
		c.KeySpace = DefaultKeySpace
	}
	if c.VerifyEvery <= 0 {
		c.VerifyEvery = DefaultVerifyEvery
	}
	if c.MaxNodes < 0 {
		c.MaxNodes = 0
	}
	if c.TrailSize <= 0 {
		c.TrailSize = DefaultTrailSize
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}
