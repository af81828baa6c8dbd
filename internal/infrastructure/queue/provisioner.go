package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
	"github.com/userservice/user-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	defaultTimeout = 5 * time.Second
)

// Provisioner opens wallets for newly registered accounts in the background.
// Requests are sharded by user id over a fixed set of workers, so requests for
// the same account are handled in order.
type Provisioner struct {
	workers []chan ports.ProvisionRequest
	wallet  ports.WalletClient
	ledger  ports.CascadeLedger
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewProvisioner creates a Provisioner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. ledger may be nil.
func NewProvisioner(numWorkers int, wallet ports.WalletClient, ledger ports.CascadeLedger, timeout time.Duration, log zerolog.Logger) *Provisioner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	p := &Provisioner{
		workers: make([]chan ports.ProvisionRequest, numWorkers),
		wallet:  wallet,
		ledger:  ledger,
		timeout: timeout,
		log:     log,
	}
	for i := range p.workers {
		p.workers[i] = make(chan ports.ProvisionRequest, channelBuffer)
	}
	return p
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *Provisioner) Start(ctx context.Context) {
	for i, ch := range p.workers {
		p.wg.Add(1)
		go p.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (p *Provisioner) Wait() { p.wg.Wait() }

// Enqueue hands req to the worker responsible for its user id. It never
// blocks: when the shard is full the request is dropped and false returned.
func (p *Provisioner) Enqueue(req ports.ProvisionRequest) bool {
	idx := p.shardIndex(req.UserID)
	select {
	case p.workers[idx] <- req:
		metrics.ProvisionQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		metrics.ProvisionDroppedTotal.Inc()
		p.log.Warn().Int64("user_id", req.UserID).Int("worker_id", idx).Msg("provision queue full; request dropped")
		return false
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (p *Provisioner) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32() % uint32(len(p.workers)))
}

func (p *Provisioner) runWorker(ctx context.Context, id int, ch <-chan ports.ProvisionRequest) {
	defer p.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-ch:
			metrics.ProvisionQueueDepth.WithLabelValues(label).Dec()
			p.provision(ctx, id, req)
		}
	}
}

func (p *Provisioner) provision(ctx context.Context, workerID int, req ports.ProvisionRequest) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.wallet.ProvisionWallet(callCtx, req.UserID, req.Username)
	if err == nil {
		metrics.CascadeCallsTotal.WithLabelValues(string(domain.CascadeProvision), string(domain.OutcomeOK)).Inc()
		p.log.Debug().Int64("user_id", req.UserID).Int("worker_id", workerID).Msg("wallet provisioned")
		return
	}

	metrics.CascadeCallsTotal.WithLabelValues(string(domain.CascadeProvision), string(domain.OutcomeRemoteFailure)).Inc()
	p.log.Error().Err(err).
		Int64("user_id", req.UserID).
		Int("worker_id", workerID).
		Msg("wallet provisioning failed")

	if p.ledger == nil {
		return
	}
	failure := domain.CascadeFailure{
		UserID:     req.UserID,
		Action:     domain.CascadeProvision,
		Reason:     err.Error(),
		OccurredAt: time.Now().UTC(),
	}
	if err := p.ledger.Record(context.WithoutCancel(ctx), failure); err != nil {
		p.log.Warn().Err(err).Int64("user_id", req.UserID).Msg("failed to record provisioning failure")
	}
}
