package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/std"
	"github.com/iov-one/supersig/x/bank"
	"github.com/iov-one/supersig/x/multisig"
	"github.com/iov-one/supersig/x/sigs"
)

// step is a single line of a script. Signers and addresses are names of
// development keys, "group:<id>" for a group account, or any encoding
// accepted by supersig.ParseAddress.
type step struct {
	Op        string   `json:"op"`
	Signer    string   `json:"signer"`
	Group     int64    `json:"group"`
	Members   []string `json:"members"`
	Threshold uint32   `json:"threshold"`
	// Hash of the payload, hex encoded. The last submitted payload is
	// used when empty.
	Hash string     `json:"hash"`
	Msg  *scriptMsg `json:"msg"`
	// Expect is a fragment of the error the step must fail with.
	Expect string `json:"expect"`
}

// scriptMsg describes a message carried by a payload or sent directly.
type scriptMsg struct {
	Type        string `json:"type"`
	Group       int64  `json:"group"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Member      string `json:"member"`
	Beneficiary string `json:"beneficiary"`
	Amount      uint64 `json:"amount"`
	Threshold   uint32 `json:"threshold"`
	Memo        string `json:"memo"`
}

// runScript applies every line of the script as a separate operation and
// reports the outcome to w. Lines that are empty or start with # are
// skipped. It fails on the first step whose outcome does not match its
// expectation.
func runScript(ctx context.Context, a *std.Application, r io.Reader, w io.Writer) error {
	var last []byte
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var s step
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return errors.Wrapf(errors.ErrInput, "line %d: %s", n, err)
		}
		out, err := s.apply(ctx, a, &last)
		switch {
		case s.Expect == "" && err != nil:
			return errors.Wrapf(err, "line %d: %s", n, s.Op)
		case s.Expect != "" && err == nil:
			return errors.Wrapf(errors.ErrState, "line %d: %s succeeded, want %q", n, s.Op, s.Expect)
		case s.Expect != "" && !strings.Contains(err.Error(), s.Expect):
			return errors.Wrapf(err, "line %d: %s, want %q", n, s.Op, s.Expect)
		case err != nil:
			code, log := errors.Report(err, false)
			out = fmt.Sprintf("failed as expected, code %d: %s", code, log)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", a.LatestVersion().Version, s.Op, out)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(errors.ErrInput, "read script: %s", err)
	}
	return nil
}

func (s *step) apply(ctx context.Context, a *std.Application, last *[]byte) (string, error) {
	if s.Signer == "" {
		return "", errors.Wrap(errors.ErrEmpty, "signer")
	}
	signer := sigs.DevSigner(s.Signer)
	gid := multisig.GroupID(s.Group)

	hash := *last
	if s.Hash != "" {
		h, err := hex.DecodeString(s.Hash)
		if err != nil {
			return "", errors.Wrapf(errors.ErrInput, "hash: %s", err)
		}
		hash = h
	}

	var out string
	op := func(fn func(supersig.Context, supersig.KVStore) error) error {
		return a.Apply(ctx, signer, fn)
	}

	switch s.Op {
	case "create":
		members := make([]supersig.Address, 0, len(s.Members))
		for _, m := range s.Members {
			addr, err := resolveAddress(m)
			if err != nil {
				return "", err
			}
			members = append(members, addr)
		}
		err := op(func(ctx supersig.Context, db supersig.KVStore) error {
			id, err := a.Engine.CreateGroup(ctx, db, members, s.Threshold)
			if err == nil {
				out = fmt.Sprintf("group %d, account %s", orm.DecodeSequence(id), multisig.GroupAccount(id))
			}
			return err
		})
		return out, err

	case "submit":
		msg, err := s.Msg.build()
		if err != nil {
			return "", err
		}
		data, err := a.Codec.Encode(msg)
		if err != nil {
			return "", err
		}
		err = op(func(ctx supersig.Context, db supersig.KVStore) error {
			h, err := a.Engine.SubmitPayload(ctx, db, gid, data)
			if err == nil {
				*last = h
				out = fmt.Sprintf("payload %X", h)
			}
			return err
		})
		return out, err

	case "approve", "execute":
		err := op(func(ctx supersig.Context, db supersig.KVStore) error {
			var (
				exec *multisig.Execution
				err  error
			)
			if s.Op == "approve" {
				exec, err = a.Engine.ApprovePayload(ctx, db, gid, hash)
			} else {
				exec, err = a.Engine.ExecutePayload(ctx, db, gid, hash)
			}
			out = describeExecution(exec)
			return err
		})
		return out, err

	case "unapprove":
		return "approval removed", op(func(ctx supersig.Context, db supersig.KVStore) error {
			return a.Engine.UnapprovePayload(ctx, db, gid, hash)
		})

	case "withdraw":
		return "payload withdrawn", op(func(ctx supersig.Context, db supersig.KVStore) error {
			return a.Engine.WithdrawPayload(ctx, db, gid, hash)
		})

	case "leave":
		return "left the group", op(func(ctx supersig.Context, db supersig.KVStore) error {
			return a.Engine.LeaveGroup(ctx, db, gid)
		})

	case "send":
		msg, err := s.Msg.build()
		if err != nil {
			return "", err
		}
		if _, err := a.DeliverMsg(ctx, signer, msg); err != nil {
			return "", err
		}
		return msg.Path() + " delivered", nil

	default:
		return "", errors.Wrapf(errors.ErrInput, "unknown operation %q", s.Op)
	}
}

func describeExecution(exec *multisig.Execution) string {
	switch {
	case exec == nil:
		return "approved"
	case exec.Err != nil:
		return fmt.Sprintf("%s: %s", exec.Status, exec.Err)
	default:
		return exec.Status.String()
	}
}

func (m *scriptMsg) build() (supersig.Msg, error) {
	if m == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "msg")
	}
	gid := multisig.GroupID(m.Group)
	switch m.Type {
	case "send":
		src, err := resolveAddress(m.Source)
		if err != nil {
			return nil, errors.Wrap(err, "source")
		}
		dst, err := resolveAddress(m.Destination)
		if err != nil {
			return nil, errors.Wrap(err, "destination")
		}
		return &bank.SendMsg{Source: src, Destination: dst, Amount: m.Amount, Memo: m.Memo}, nil
	case "add_member":
		member, err := resolveAddress(m.Member)
		if err != nil {
			return nil, errors.Wrap(err, "member")
		}
		return &multisig.AddMemberMsg{GroupID: gid, Member: member}, nil
	case "remove_member":
		member, err := resolveAddress(m.Member)
		if err != nil {
			return nil, errors.Wrap(err, "member")
		}
		return &multisig.RemoveMemberMsg{GroupID: gid, Member: member, Threshold: m.Threshold}, nil
	case "set_threshold":
		return &multisig.SetThresholdMsg{GroupID: gid, Threshold: m.Threshold}, nil
	case "dissolve":
		beneficiary, err := resolveAddress(m.Beneficiary)
		if err != nil {
			return nil, errors.Wrap(err, "beneficiary")
		}
		return &multisig.DissolveGroupMsg{GroupID: gid, Beneficiary: beneficiary}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown message type %q", m.Type)
	}
}

// resolveAddress maps a script name to an address.
func resolveAddress(name string) (supersig.Address, error) {
	switch {
	case name == "":
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	case strings.HasPrefix(name, "group:"):
		id, err := multisig.ParseGroupID(strings.TrimPrefix(name, "group:"))
		if err != nil {
			return nil, err
		}
		return multisig.GroupAccount(id), nil
	case strings.Contains(name, ":"):
		return supersig.ParseAddress(name)
	default:
		return sigs.DevSigner(name).Address(), nil
	}
}
