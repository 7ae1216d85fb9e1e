package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// storePayload reserves the deposit and records a new payload with an
// empty approval set. Any receipt left by a previous cycle of the same
// bytes is cleared.
func (s state) storePayload(db supersig.KVStore, conf *Configuration, g *Group, submitter supersig.Address, data []byte, height int64) (*Payload, *ApprovalSet, error) {
	switch {
	case len(data) == 0:
		return nil, nil, errors.Wrap(errors.ErrInput, "empty payload")
	case len(data) > int(conf.MaxPayloadSize):
		return nil, nil, errors.Wrapf(errors.ErrInput, "payload of %d bytes, at most %d allowed", len(data), conf.MaxPayloadSize)
	}

	hash := HashPayload(data)
	key := payloadKey(g.ID, hash)
	switch ok, err := s.payloads.Has(db, key); {
	case err != nil:
		return nil, nil, err
	case ok:
		return nil, nil, errors.Wrapf(ErrDuplicatePayload, "hash %X", hash)
	}

	deposit, err := DepositFor(conf, len(data))
	if err != nil {
		return nil, nil, err
	}
	if err := reserveDeposit(db, s.ledger, submitter, deposit); err != nil {
		return nil, nil, err
	}

	p := &Payload{
		Group:       g.ID,
		Hash:        hash,
		Data:        data,
		Submitter:   submitter,
		Deposit:     deposit,
		SubmittedAt: height,
	}
	if err := s.payloads.Put(db, key, p); err != nil {
		return nil, nil, errors.Wrap(err, "save payload")
	}
	approvals := &ApprovalSet{Group: g.ID, Hash: hash}
	if conf.ApprovalPolicy.submitterApproves() {
		approvals.add(submitter)
	}
	if err := s.approvals.Put(db, key, approvals); err != nil {
		return nil, nil, errors.Wrap(err, "save approvals")
	}
	if err := s.clearReceipt(db, key); err != nil {
		return nil, nil, err
	}
	return p, approvals, nil
}

// purgePayload releases the deposit and removes the payload with its
// approval set. It returns false without error if there is no such
// payload, so it is safe to call it twice.
func (s state) purgePayload(db supersig.KVStore, groupID, hash []byte) (bool, error) {
	p, err := s.payloads.GetPayload(db, groupID, hash)
	switch {
	case ErrPayloadNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := releaseDeposit(db, s.ledger, p.Submitter, p.Deposit); err != nil {
		return false, err
	}
	key := payloadKey(groupID, hash)
	if err := s.payloads.Delete(db, key); err != nil {
		return false, errors.Wrap(err, "delete payload")
	}
	if err := s.approvals.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
		return false, errors.Wrap(err, "delete approvals")
	}
	return true, nil
}

func (s state) putReceipt(db supersig.KVStore, groupID, hash []byte, status Status, height int64, log string, code uint32) error {
	r := &Receipt{
		Group:  groupID,
		Hash:   hash,
		Status: status,
		Height: height,
		Log:    log,
		Code:   code,
	}
	if err := s.receipts.Put(db, payloadKey(groupID, hash), r); err != nil {
		return errors.Wrap(err, "save receipt")
	}
	return nil
}

func (s state) clearReceipt(db supersig.KVStore, key []byte) error {
	if err := s.receipts.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "delete receipt")
	}
	return nil
}
