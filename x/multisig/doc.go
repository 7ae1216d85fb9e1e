/*
Package multisig implements groups of members that collectively control a
dedicated account.

A group is created with a set of founders and an approval threshold. Every
group owns an account whose address is derived from the group ID, see
GroupAccount. Nobody holds a key for that account: the only way to act with
its authority is to submit a payload, an opaque encoded operation, and
collect enough approvals from the members.

Submitting a payload reserves a deposit from the submitter. The deposit is
proportional to the payload size and is fixed for the payload lifetime. It
is released when the payload is withdrawn, executed or when the group is
dissolved.

Once the number of approvals reaches the threshold the payload is handed to
the Executor with the group account authority in the context. This happens
exactly once. A failing operation does not revert the approval, the payload
cycle ends and a Failed receipt is stored.

Membership changes (AddMemberMsg, RemoveMemberMsg, SetThresholdMsg,
DissolveGroupMsg) and configuration updates are messages that can only be
authorized by the group account. They must be submitted as payloads of the
group they modify.
*/
package multisig
