package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time for components that derive state from invoice age.
type Clock interface {
	Now() time.Time
}

// Module provides the system clock.
var Module = fx.Provide(func() Clock { return &SystemClock{} })

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
