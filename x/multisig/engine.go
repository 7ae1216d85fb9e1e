package multisig

import (
	"context"
	"encoding/hex"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/x"
)

// Executor performs the operation encoded in a payload. The context
// carries the authority of the group account, see Authenticate.
type Executor interface {
	Execute(ctx supersig.Context, db supersig.KVStore, payload []byte) (*supersig.DeliverResult, error)
}

// ExecutorFunc allows to use a plain function as an Executor.
type ExecutorFunc func(ctx supersig.Context, db supersig.KVStore, payload []byte) (*supersig.DeliverResult, error)

func (fn ExecutorFunc) Execute(ctx supersig.Context, db supersig.KVStore, payload []byte) (*supersig.DeliverResult, error) {
	return fn(ctx, db, payload)
}

// Execution is the outcome of a payload dispatch.
type Execution struct {
	Group []byte
	Hash  []byte
	// Status is either StatusExecuted or StatusFailed.
	Status Status
	// Err is the error returned by the dispatched operation.
	Err error
	// Result is the result of a successful dispatch.
	Result *supersig.DeliverResult
}

// Engine exposes the operations of the module. Every operation is atomic:
// it runs in a savepoint of the given store and leaves no trace if it
// fails. The caller is the main signer of the context as returned by the
// authenticator.
type Engine struct {
	auth     x.Authenticator
	executor Executor
	sink     supersig.EventSink
	state    state
}

// NewEngine returns an engine using the ledger for deposits and the
// executor for dispatching approved payloads. Events are published to sink
// once an operation is written. A nil sink drops them.
func NewEngine(auth x.Authenticator, ledger Ledger, executor Executor, sink supersig.EventSink) *Engine {
	if sink == nil {
		sink = supersig.NopSink{}
	}
	return &Engine{
		auth:     auth,
		executor: executor,
		sink:     sink,
		state:    newState(ledger),
	}
}

// CreateGroup registers a new group and returns its ID. Duplicated
// founders are collapsed. The caller does not need to be a founder.
func (e *Engine) CreateGroup(ctx supersig.Context, db supersig.KVStore, founders []supersig.Address, threshold uint32) ([]byte, error) {
	var id []byte
	err := e.run(ctx, db, "create_group", func(op *operation) error {
		if _, err := e.caller(op.ctx); err != nil {
			return err
		}
		conf, err := LoadConfiguration(op.db)
		if err != nil {
			return err
		}
		g, err := e.state.createGroup(op.db, conf, founders, threshold, op.height)
		if err != nil {
			return err
		}
		id = g.ID
		op.emit("group_created",
			"group", formatGroupID(g.ID),
			"account", g.Account,
			"members", len(g.Members),
			"threshold", g.Threshold,
		)
		return nil
	})
	return id, err
}

// SubmitPayload stores the payload bytes as a proposal of the group and
// returns its hash. The caller must be a member and pays the deposit. If
// the submitter approval alone reaches the threshold the payload is
// executed immediately.
func (e *Engine) SubmitPayload(ctx supersig.Context, db supersig.KVStore, groupID []byte, data []byte) ([]byte, error) {
	var hash []byte
	err := e.run(ctx, db, "submit_payload", func(op *operation) error {
		caller, g, err := e.member(op, groupID)
		if err != nil {
			return err
		}
		conf, err := LoadConfiguration(op.db)
		if err != nil {
			return err
		}
		p, approvals, err := e.state.storePayload(op.db, conf, g, caller, data, op.height)
		if err != nil {
			return err
		}
		hash = p.Hash
		op.emit("payload_submitted",
			"group", formatGroupID(g.ID),
			"hash", hex.EncodeToString(p.Hash),
			"submitter", caller,
			"deposit", p.Deposit,
		)
		if approvals.Has(caller) {
			op.emit("approval_added",
				"group", formatGroupID(g.ID),
				"hash", hex.EncodeToString(p.Hash),
				"member", caller,
				"approvals", approvals.Count(),
			)
		}
		op.logger.Debug("payload submitted", "group", formatGroupID(g.ID), "hash", hex.EncodeToString(p.Hash), "deposit", p.Deposit)

		if approvals.Count() < int(g.Threshold) {
			return nil
		}
		if _, err := e.execute(op, g, p); err != nil {
			return err
		}
		return e.sweep(op, g.ID)
	})
	return hash, err
}

// WithdrawPayload removes a payload that was not executed yet and releases
// its deposit. Only the submitter may withdraw.
func (e *Engine) WithdrawPayload(ctx supersig.Context, db supersig.KVStore, groupID, hash []byte) error {
	return e.run(ctx, db, "withdraw_payload", func(op *operation) error {
		caller, err := e.caller(op.ctx)
		if err != nil {
			return err
		}
		p, err := e.state.payloads.GetPayload(op.db, groupID, hash)
		if err != nil {
			return err
		}
		if !p.Submitter.Equals(caller) {
			return errors.Wrapf(ErrNotSubmitter, "submitted by %s", p.Submitter)
		}
		if _, err := e.state.purgePayload(op.db, groupID, hash); err != nil {
			return err
		}
		if err := e.state.putReceipt(op.db, groupID, hash, StatusWithdrawn, op.height, "", 0); err != nil {
			return err
		}
		op.emit("payload_withdrawn",
			"group", formatGroupID(groupID),
			"hash", hex.EncodeToString(hash),
			"submitter", caller,
			"deposit", p.Deposit,
		)
		return nil
	})
}

// ApprovePayload records the caller approval. If the approvals reach the
// threshold the payload is executed within the same operation and the
// execution is returned. Otherwise the returned execution is nil.
func (e *Engine) ApprovePayload(ctx supersig.Context, db supersig.KVStore, groupID, hash []byte) (*Execution, error) {
	var exec *Execution
	err := e.run(ctx, db, "approve_payload", func(op *operation) error {
		caller, g, err := e.member(op, groupID)
		if err != nil {
			return err
		}
		approvals, err := e.state.approve(op.db, groupID, hash, caller)
		if err != nil {
			return err
		}
		op.emit("approval_added",
			"group", formatGroupID(groupID),
			"hash", hex.EncodeToString(hash),
			"member", caller,
			"approvals", approvals.Count(),
		)
		op.logger.Debug("approval added", "member", caller, "approvals", approvals.Count(), "threshold", g.Threshold)

		if approvals.Count() < int(g.Threshold) {
			return nil
		}
		p, err := e.state.payloads.GetPayload(op.db, groupID, hash)
		if err != nil {
			return err
		}
		if exec, err = e.execute(op, g, p); err != nil {
			return err
		}
		return e.sweep(op, groupID)
	})
	if err != nil {
		return nil, err
	}
	return exec, nil
}

// UnapprovePayload takes back the caller approval of a payload that was
// not executed yet.
func (e *Engine) UnapprovePayload(ctx supersig.Context, db supersig.KVStore, groupID, hash []byte) error {
	return e.run(ctx, db, "unapprove_payload", func(op *operation) error {
		caller, g, err := e.member(op, groupID)
		if err != nil {
			return err
		}
		switch ok, err := e.state.payloads.Has(op.db, payloadKey(groupID, hash)); {
		case err != nil:
			return err
		case !ok:
			return e.resolvedPayloadErr(op.db, groupID, hash)
		}
		approvals, err := e.state.unapprove(op.db, g.ID, hash, caller)
		if err != nil {
			return err
		}
		op.emit("approval_removed",
			"group", formatGroupID(groupID),
			"hash", hex.EncodeToString(hash),
			"member", caller,
			"approvals", approvals.Count(),
		)
		return nil
	})
}

// ExecutePayload dispatches a payload whose approvals reach the threshold.
// Approving already executes such payloads, this is an explicit entry
// point for payloads unlocked otherwise.
func (e *Engine) ExecutePayload(ctx supersig.Context, db supersig.KVStore, groupID, hash []byte) (*Execution, error) {
	var exec *Execution
	err := e.run(ctx, db, "execute_payload", func(op *operation) error {
		_, g, err := e.member(op, groupID)
		if err != nil {
			return err
		}
		p, err := e.state.payloads.GetPayload(op.db, groupID, hash)
		if err != nil {
			return err
		}
		approvals, err := e.state.approvals.GetApprovals(op.db, groupID, hash)
		if err != nil {
			return err
		}
		if approvals.Count() < int(g.Threshold) {
			return errors.Wrapf(ErrThresholdNotMet, "%d of %d approvals", approvals.Count(), g.Threshold)
		}
		if exec, err = e.execute(op, g, p); err != nil {
			return err
		}
		return e.sweep(op, groupID)
	})
	if err != nil {
		return nil, err
	}
	return exec, nil
}

// LeaveGroup removes the caller from the group. The threshold is kept and
// must still be satisfiable by the remaining members.
func (e *Engine) LeaveGroup(ctx supersig.Context, db supersig.KVStore, groupID []byte) error {
	return e.run(ctx, db, "leave_group", func(op *operation) error {
		caller, g, err := e.member(op, groupID)
		if err != nil {
			return err
		}
		if err := e.state.removeMember(op.db, g, caller, 0); err != nil {
			return err
		}
		op.emit("member_removed",
			"group", formatGroupID(groupID),
			"member", caller,
			"threshold", g.Threshold,
		)
		return e.sweep(op, groupID)
	})
}

// execute dispatches the payload with the authority of the group account.
// The dispatched operation runs in its own savepoint: its writes are
// dropped if it fails, while the gating state is kept. In both cases the
// deposit is released, the payload purged and a receipt stored.
func (e *Engine) execute(op *operation, g *Group, p *Payload) (*Execution, error) {
	logger := op.logger.With("group", formatGroupID(g.ID), "hash", hex.EncodeToString(p.Hash))
	exec := &Execution{Group: g.ID, Hash: p.Hash}

	// The dispatched operation gets the group authority only, never the
	// one of the caller that triggered the execution.
	dctx := supersig.WithLogger(context.Background(), logger)
	if op.height != 0 {
		dctx = supersig.WithHeight(dctx, op.height)
	}
	res, err := e.dispatch(withGroup(dctx, g.ID), op.db, p.Data)
	var log string
	if err != nil {
		exec.Status, exec.Err = StatusFailed, err
		log = err.Error()
		logger.Error("payload execution failed", "err", err)
	} else {
		exec.Status, exec.Result = StatusExecuted, res
		if res != nil {
			log = res.Log
			op.events = append(op.events, res.Events...)
		}
		logger.Info("payload executed")
	}

	// The dispatched operation may have purged the payload already, for
	// example by dissolving the group.
	if _, err := e.state.purgePayload(op.db, g.ID, p.Hash); err != nil {
		return nil, err
	}
	switch ok, err := e.state.groups.Has(op.db, g.ID); {
	case err != nil:
		return nil, err
	case ok:
		if err := e.state.putReceipt(op.db, g.ID, p.Hash, exec.Status, op.height, log, errors.Code(exec.Err)); err != nil {
			return nil, err
		}
	}

	if exec.Err != nil {
		op.emit("execution_failed",
			"group", formatGroupID(g.ID),
			"hash", hex.EncodeToString(p.Hash),
			"error", exec.Err.Error(),
			"code", errors.Code(exec.Err),
		)
	} else {
		op.emit("execution_succeeded",
			"group", formatGroupID(g.ID),
			"hash", hex.EncodeToString(p.Hash),
		)
	}
	return exec, nil
}

// dispatch runs the executor in a nested savepoint. Panics are reported
// as failures.
func (e *Engine) dispatch(ctx supersig.Context, db supersig.KVCacheWrap, data []byte) (res *supersig.DeliverResult, err error) {
	cache := db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
		}
	}()
	defer errors.Recover(&err)

	if res, err = e.executor.Execute(ctx, cache, data); err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write dispatched operation")
	}
	return res, nil
}

// sweep executes, one by one, the payloads of the group whose approvals
// reach the threshold. A membership change or a new threshold can unlock
// payloads other than the one that was executed.
func (e *Engine) sweep(op *operation, groupID []byte) error {
	for {
		g, err := e.state.groups.GetGroup(op.db, groupID)
		switch {
		case errors.ErrNotFound.Is(err):
			// Dissolved.
			return nil
		case err != nil:
			return err
		}
		p, err := e.state.nextExecutable(op.db, g)
		if err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		if _, err := e.execute(op, g, p); err != nil {
			return err
		}
	}
}

func (e *Engine) caller(ctx supersig.Context) (supersig.Address, error) {
	signer := x.MainSigner(ctx, e.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return signer.Address(), nil
}

// member returns the caller and the group, which the caller must belong
// to.
func (e *Engine) member(op *operation, groupID []byte) (supersig.Address, *Group, error) {
	caller, err := e.caller(op.ctx)
	if err != nil {
		return nil, nil, err
	}
	g, err := e.state.groups.GetGroup(op.db, groupID)
	if err != nil {
		return nil, nil, err
	}
	if !g.HasMember(caller) {
		return nil, nil, errors.Wrapf(ErrNotAMember, "%s", caller)
	}
	return caller, g, nil
}

// resolvedPayloadErr tells apart a payload that was executed from one that
// never existed or was withdrawn.
func (e *Engine) resolvedPayloadErr(db supersig.ReadOnlyKVStore, groupID, hash []byte) error {
	r, err := e.state.receipts.GetReceipt(db, groupID, hash)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(ErrPayloadNotFound, "hash %X", hash)
	case err != nil:
		return err
	}
	switch r.Status {
	case StatusExecuted, StatusFailed:
		return errors.Wrapf(ErrAlreadyExecuted, "at height %d", r.Height)
	default:
		return errors.Wrapf(ErrPayloadNotFound, "hash %X was %s", hash, r.Status)
	}
}
