// Package status holds the pure status logic: display derivation and the
// transition policy.
package status

import (
	"fmt"
	"time"

	"github.com/smallbiznis/billfold/internal/config"
	"github.com/smallbiznis/billfold/internal/invoice/domain"
	"go.uber.org/fx"
)

// DefaultOverdueAfterDays is the age at which a pending invoice displays as
// overdue.
const DefaultOverdueAfterDays = 14

// Derive computes the read-time display status. A stored pending invoice
// whose age is at least overdueAfterDays whole days displays as overdue;
// every other stored status displays as itself. Nothing is written back.
func Derive(stored domain.Status, createdAt, now time.Time, overdueAfterDays int) domain.Status {
	if stored != domain.StatusPending {
		return stored
	}
	if overdueAfterDays <= 0 {
		overdueAfterDays = DefaultOverdueAfterDays
	}
	age := now.Sub(createdAt)
	if int(age.Hours()/24) >= overdueAfterDays {
		return domain.StatusOverdue
	}
	return stored
}

// Policy decides whether a stored-status transition may proceed. The policy
// is swappable: the source system imposes no transition graph, so the
// permissive policy is the default.
type Policy interface {
	Allow(from, to domain.Status) error
}

// Permissive allows any status to follow any other, including itself.
type Permissive struct{}

func (Permissive) Allow(from, to domain.Status) error { return nil }

// Strict treats paid and canceled as terminal.
type Strict struct{}

func (Strict) Allow(from, to domain.Status) error {
	if from == domain.StatusPaid || from == domain.StatusCanceled {
		if from == to {
			return nil
		}
		return fmt.Errorf("%w: %s is terminal", domain.ErrTransitionDenied, from)
	}
	return nil
}

// Module provides the configured transition policy.
var Module = fx.Provide(func(cfg config.Config) Policy {
	if cfg.StrictTransitions {
		return Strict{}
	}
	return Permissive{}
})
