// Package engine implements the epoch-reconfiguration state machine: the
// component that observes block prologues, accumulates participation
// bookkeeping, and at the epoch boundary audits every validator, jails the
// failures, and commits the new validator set and epoch counter atomically.
//
// The engine is the only writer of EpochState. A seal is staged on copies
// and committed only after the quorum guard passes, so observers never see a
// partially reconfigured set. Mutation is serialized by block order; the
// internal mutex extends that serialization to the read-only query
// interface used by external tooling.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-epoch-audit/audit"
	"github.com/rony4d/go-epoch-audit/audit/genesis"
	"github.com/rony4d/go-epoch-audit/autopay"
	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/inter/drivertype"
	"github.com/rony4d/go-epoch-audit/inter/iepoch"
	"github.com/rony4d/go-epoch-audit/ledger"
	"github.com/rony4d/go-epoch-audit/stats"
)

// DefaultSystemCaller is the distinguished privileged identity used when the
// deployment does not inject its own. The address lies outside the range of
// derivable accounts.
var DefaultSystemCaller = common.HexToAddress("0xd100a01e00000000000000000000000000000000")

// Engine is the reconfiguration state machine. Between seals it accumulates
// (Accumulating); during a seal it transitions through Sealing and back.
type Engine struct {
	mu     sync.RWMutex
	system common.Address

	es iepoch.EpochState
	bs iepoch.BlockState

	ledger  *ledger.Ledger
	autopay *autopay.Registry
	stats   *stats.Aggregator

	// sealing guards against re-entrant seal attempts.
	sealing bool

	// history keeps one snapshot per sealed epoch, keyed by the epoch the
	// seal opened.
	history map[idx.Epoch]iepoch.HistoryRecord

	sealFeed event.Feed

	log *logrus.Entry
}

// New constructs an engine from a genesis configuration. The genesis set
// must already satisfy the quorum floor, and at least one epoch-boundary
// trigger must be configured.
func New(g genesis.Genesis, system common.Address) (*Engine, error) {
	if len(g.Validators) == 0 {
		return nil, fmt.Errorf("genesis validator set is empty: %w", audit.ErrInvalidState)
	}
	if len(g.Validators) < g.Rules.Audit.MinQuorumSize {
		return nil, fmt.Errorf("genesis validator set of %d is under the quorum floor %d: %w",
			len(g.Validators), g.Rules.Audit.MinQuorumSize, audit.ErrQuorumViolation)
	}
	if g.Rules.Epochs.MaxEpochDuration == 0 && g.Rules.Epochs.MaxEpochRounds == 0 {
		return nil, fmt.Errorf("no epoch-boundary trigger configured: %w", audit.ErrInvalidState)
	}

	e := &Engine{
		system:  system,
		ledger:  ledger.New(system),
		autopay: autopay.New(system),
		stats:   stats.New(system),
		history: make(map[idx.Epoch]iepoch.HistoryRecord),
		log:     logrus.WithField("module", "engine"),
		es: iepoch.EpochState{
			Epoch:          1,
			EpochStart:     g.Time,
			PrevEpochStart: g.Time,
			Validators:     g.BuildValidators(),
			Profiles:       g.Profiles(),
			Rules:          g.Rules.Copy(),
		},
		bs: iepoch.BlockState{},
	}
	e.log.WithFields(logrus.Fields{
		"network":    g.Rules.Name,
		"validators": len(g.Validators),
	}).Info("engine initialized at epoch 1")
	return e, nil
}

// ApplyBlock is the block-prologue hook. The consensus layer invokes it once
// per block, in block order, with the privileged system identity. It tallies
// the block's votes, advances the block state, and seals the epoch when the
// configured time or round threshold is crossed. The returned SealRecord is
// nil for ordinary blocks.
func (e *Engine) ApplyBlock(caller common.Address, b inter.Block) (*iepoch.SealRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.system {
		return nil, fmt.Errorf("block prologue by %s: %w", caller, audit.ErrUnauthorized)
	}
	if e.sealing {
		return nil, fmt.Errorf("block prologue during seal: %w", audit.ErrInvalidState)
	}

	// the boundary block's own tally is part of the seal attempt, so it is
	// staged with it and rolled back if the seal is rejected
	boundary := e.epochBoundaryReached(b)
	var prevBS iepoch.BlockState
	var prevStats *stats.Aggregator
	if boundary {
		prevBS = e.bs.Copy()
		prevStats = e.stats.Copy()
	}

	if err := e.stats.ApplyVotes(e.system, b.Voters); err != nil {
		return nil, err
	}
	e.bs.LastBlock = iepoch.BlockCtx{Idx: b.Idx, Round: b.Round, Time: b.Time}
	e.bs.EpochBlocks = e.stats.EpochBlocks()

	if !boundary {
		return nil, nil
	}
	rec, err := e.sealEpoch(b)
	if err != nil {
		e.bs = prevBS
		e.stats = prevStats
		return nil, err
	}
	return rec, nil
}

// epochBoundaryReached checks the configured triggers against the block's
// time and round. A zero threshold disables its trigger.
func (e *Engine) epochBoundaryReached(b inter.Block) bool {
	r := e.es.Rules.Epochs
	if r.MaxEpochDuration > 0 && b.Time >= e.es.EpochStart && b.Time-e.es.EpochStart >= r.MaxEpochDuration {
		return true
	}
	if r.MaxEpochRounds > 0 && b.Round >= e.es.EpochStartRound && b.Round-e.es.EpochStartRound >= r.MaxEpochRounds {
		return true
	}
	return false
}

// sealEpoch performs the reconfiguration: classify every validator, compute
// the jailed set, enforce the quorum guard, and commit the new epoch. The
// transition is staged on copies; on any error the old state is retained in
// full, with no epoch increment and no ledger reset.
func (e *Engine) sealEpoch(b inter.Block) (*iepoch.SealRecord, error) {
	e.sealing = true
	defer func() { e.sealing = false }()

	ids := append([]idx.ValidatorID(nil), e.es.Validators.IDs()...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// classification reads the ledger and tallies before anything is reset
	jailed := make([]idx.ValidatorID, 0, len(ids))
	cases := make(map[idx.ValidatorID]inter.Case, len(ids))
	for _, id := range ids {
		profile, ok := e.es.Profiles[id]
		if !ok {
			return nil, fmt.Errorf("validator %d has no profile: %w", id, audit.ErrInvalidState)
		}
		c := audit.Classify(
			e.ledger.Count(profile.Address),
			e.stats.VoteCount(id),
			e.stats.EpochBlocks(),
			e.autopay.IsEnabled(profile.Address),
			e.es.Rules.Audit,
		)
		cases[id] = c
		if c.Failed() {
			jailed = append(jailed, id)
		}
	}

	oldSize := len(ids)
	newSize := oldSize - len(jailed)
	if newSize == 0 || newSize < e.es.Rules.Audit.MinQuorumSize {
		e.log.WithFields(logrus.Fields{
			"epoch":   e.es.Epoch,
			"oldSize": oldSize,
			"jailed":  len(jailed),
			"quorum":  e.es.Rules.Audit.MinQuorumSize,
		}).Error("seal rejected: jailing would break quorum")
		return nil, fmt.Errorf("sealing epoch %d would leave %d of %d validators: %w",
			e.es.Epoch, newSize, oldSize, audit.ErrQuorumViolation)
	}

	// stage the new epoch state
	next := e.es.Copy()
	next.Epoch = e.es.Epoch + 1
	next.PrevEpochStart = e.es.EpochStart
	next.EpochStart = b.Time
	next.EpochStartRound = b.Round

	builder := pos.NewBuilder()
	for _, id := range ids {
		if cases[id].Failed() {
			continue
		}
		builder.Set(id, e.es.Validators.Get(id))
	}
	next.Validators = builder.Build()

	purged := make([]common.Address, 0, len(jailed))
	for _, id := range jailed {
		profile := next.Profiles[id]
		profile.Status |= drivertype.JailedBit
		if e.es.Rules.Audit.RetainJailedHistory {
			next.Profiles[id] = profile
		} else {
			delete(next.Profiles, id)
			purged = append(purged, profile.Address)
		}
	}

	// commit point: everything after here must not fail
	if err := e.autopay.Purge(e.system, purged); err != nil {
		return nil, err
	}
	if err := e.ledger.Reset(e.system); err != nil {
		return nil, err
	}
	if err := e.stats.Reset(e.system); err != nil {
		return nil, err
	}
	e.history[next.Epoch] = iepoch.HistoryRecord{
		BlockState: e.bs.Copy(),
		EpochState: next.Copy(),
	}
	e.es = next
	e.bs.EpochBlocks = 0

	record := &iepoch.SealRecord{
		Epoch:          next.Epoch,
		Time:           b.Time,
		OldSize:        uint32(oldSize),
		NewSize:        uint32(newSize),
		Jailed:         jailed,
		EpochStateHash: next.Hash(),
	}
	e.log.WithFields(logrus.Fields{
		"epoch":   record.Epoch,
		"oldSize": record.OldSize,
		"newSize": record.NewSize,
		"jailed":  len(record.Jailed),
	}).Info("epoch sealed")
	e.sealFeed.Send(*record)
	return record, nil
}

// RecordProof credits a participation proof to the given validator. The
// signer must be the validator's own account; the ledger enforces the
// ownership rule.
func (e *Engine) RecordProof(signer common.Address, id idx.ValidatorID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.es.Profiles[id]
	if !ok {
		return fmt.Errorf("record proof for unknown validator %d: %w", id, audit.ErrInvalidState)
	}
	return e.ledger.RecordProof(signer, profile.Address)
}

// ApplySubmission decodes a wire-encoded participation proof and credits it
// to the named account. The submission must target the current epoch;
// submissions carried over a reconfiguration boundary are stale and
// rejected. The signer must own the credited account.
func (e *Engine) ApplySubmission(signer common.Address, raw []byte) error {
	p := new(inter.ProofSubmission)
	if err := p.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("malformed proof submission: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p.Epoch != e.es.Epoch {
		return fmt.Errorf("proof submission for epoch %d in epoch %d: %w",
			p.Epoch, e.es.Epoch, audit.ErrInvalidState)
	}
	known := false
	for _, profile := range e.es.Profiles {
		if profile.Address == p.Validator {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("proof submission for unknown account %s: %w",
			p.Validator, audit.ErrInvalidState)
	}
	return e.ledger.RecordProof(signer, p.Validator)
}

// EnableAutoPay enrolls the given validator into autopay. Self-service.
func (e *Engine) EnableAutoPay(signer common.Address, id idx.ValidatorID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.es.Profiles[id]
	if !ok {
		return fmt.Errorf("autopay enable for unknown validator %d: %w", id, audit.ErrInvalidState)
	}
	return e.autopay.Enable(signer, profile.Address)
}

// Epoch returns the current epoch number.
func (e *Engine) Epoch() idx.Epoch {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.es.Epoch
}

// Validators returns the current active validator set. The set is immutable
// once built, so the pointer may be retained by callers.
func (e *Engine) Validators() *pos.Validators {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.es.Validators
}

// ValidatorSetSize returns the size of the active set.
func (e *Engine) ValidatorSetSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return int(e.es.Validators.Len())
}

// IsValidator reports active-set membership.
func (e *Engine) IsValidator(id idx.ValidatorID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.es.Validators.Exists(id)
}

// IsJailed reports whether the validator was jailed by a past seal. With
// history retention off, purged validators report false here and false in
// IsValidator.
func (e *Engine) IsJailed(id idx.ValidatorID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	profile, ok := e.es.Profiles[id]
	return ok && profile.IsJailed()
}

// CaseOf classifies the validator against the in-progress epoch's counters.
// The same classification runs at seal, so this is a preview of the next
// audit outcome. Read-only.
func (e *Engine) CaseOf(id idx.ValidatorID) (inter.Case, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.es.Validators.Exists(id) {
		return 0, fmt.Errorf("case query for non-validator %d: %w", id, audit.ErrInvalidState)
	}
	profile, ok := e.es.Profiles[id]
	if !ok {
		return 0, fmt.Errorf("validator %d has no profile: %w", id, audit.ErrInvalidState)
	}
	return audit.Classify(
		e.ledger.Count(profile.Address),
		e.stats.VoteCount(id),
		e.stats.EpochBlocks(),
		e.autopay.IsEnabled(profile.Address),
		e.es.Rules.Audit,
	), nil
}

// EpochState returns a deep copy of the committed epoch state.
func (e *Engine) EpochState() iepoch.EpochState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.es.Copy()
}

// BlockState returns a copy of the per-block state.
func (e *Engine) BlockState() iepoch.BlockState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bs.Copy()
}

// HistoricalRecord returns the snapshot taken when the given epoch was
// opened by a seal. The genesis epoch has no record.
func (e *Engine) HistoricalRecord(epoch idx.Epoch) (iepoch.IdxHistoryRecord, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	hr, ok := e.history[epoch]
	if !ok {
		return iepoch.IdxHistoryRecord{}, false
	}
	return iepoch.IdxHistoryRecord{HistoryRecord: hr, Idx: epoch}, true
}

// Rules returns the policy active in the current epoch.
func (e *Engine) Rules() audit.Rules {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.es.Rules.Copy()
}

// SubscribeSeals delivers every future SealRecord to the given channel until
// the subscription is unsubscribed.
func (e *Engine) SubscribeSeals(ch chan<- iepoch.SealRecord) event.Subscription {
	return e.sealFeed.Subscribe(ch)
}
