package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
	"github.com/userservice/user-service/internal/pkg/metrics"
)

const defaultCascadeTimeout = 5 * time.Second

// CascadeOrchestrator propagates committed account transitions to the wallet
// service. Each call is attempted exactly once with a bounded timeout; a
// failure is logged, counted and recorded in the ledger, never rolled back.
type CascadeOrchestrator struct {
	wallet  ports.WalletClient
	ledger  ports.CascadeLedger
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewCascadeOrchestrator builds an orchestrator. ledger may be nil.
func NewCascadeOrchestrator(wallet ports.WalletClient, ledger ports.CascadeLedger, timeout time.Duration, log zerolog.Logger) *CascadeOrchestrator {
	if timeout <= 0 {
		timeout = defaultCascadeTimeout
	}
	return &CascadeOrchestrator{
		wallet:  wallet,
		ledger:  ledger,
		timeout: timeout,
		now:     time.Now,
		log:     log,
	}
}

func (o *CascadeOrchestrator) Propagate(ctx context.Context, userID int64, action domain.CascadeAction, callerToken string) domain.CascadeOutcome {
	// Detached from the request context so a client disconnect does not cut
	// the call short; the timeout is the only bound.
	ctx = context.WithoutCancel(ctx)
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	err := o.call(callCtx, userID, action, callerToken)
	metrics.CascadeDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CascadeCallsTotal.WithLabelValues(string(action), string(domain.OutcomeRemoteFailure)).Inc()
		o.log.Warn().Err(err).
			Int64("user_id", userID).
			Str("action", string(action)).
			Msg("wallet cascade failed; local state kept")

		o.record(ctx, domain.CascadeFailure{
			UserID:     userID,
			Action:     action,
			Reason:     err.Error(),
			OccurredAt: o.now().UTC(),
		})
		return domain.CascadeOutcome{Action: action, Status: domain.OutcomeRemoteFailure, Reason: err.Error()}
	}

	metrics.CascadeCallsTotal.WithLabelValues(string(action), string(domain.OutcomeOK)).Inc()
	o.log.Info().Int64("user_id", userID).Str("action", string(action)).Msg("wallet cascade applied")

	if o.ledger != nil {
		if err := o.ledger.Resolve(ctx, userID, action); err != nil {
			o.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to resolve cascade ledger entry")
		}
	}
	return domain.CascadeOutcome{Action: action, Status: domain.OutcomeOK}
}

func (o *CascadeOrchestrator) call(ctx context.Context, userID int64, action domain.CascadeAction, token string) error {
	switch action {
	case domain.CascadeBlacklist:
		return o.wallet.Blacklist(ctx, userID, token)
	case domain.CascadeUnblock:
		return o.wallet.Unblock(ctx, userID, token)
	case domain.CascadeDelete:
		return o.wallet.DeleteWallets(ctx, userID, token)
	default:
		return fmt.Errorf("unsupported cascade action %q", action)
	}
}

func (o *CascadeOrchestrator) record(ctx context.Context, f domain.CascadeFailure) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.Record(ctx, f); err != nil {
		o.log.Warn().Err(err).Int64("user_id", f.UserID).Msg("failed to record cascade failure")
	}
}
