package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// VerificationContract coordinates credit issuance. A credit request is
// decided by per-signer votes against a fixed approval threshold; the vote
// that crosses the threshold mints in the same transaction, so an approved
// request can never be observed unexecuted and can never execute twice.
type VerificationContract struct{ contractapi.Contract }

// ---- internal helpers ----

func requestKey(id uint64) string {
	// zero-padded so lexical key order matches numeric id order
	return fmt.Sprintf("%s%012d", requestKeyPrefix, id)
}

func getRequestState(ctx contractapi.TransactionContextInterface, id uint64) (*CreditRequest, error) {
	b, err := ctx.GetStub().GetState(requestKey(id))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: credit request %d", ErrNotFound, id)
	}
	var r CreditRequest
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func putRequestState(ctx contractapi.TransactionContextInterface, r *CreditRequest) error {
	b, _ := json.Marshal(r)
	return ctx.GetStub().PutState(requestKey(r.RequestID), b)
}

// nextRequestID hands out sequential ids starting at 0. Ids are never
// reused, so they stay stable keys for audit and replay detection.
func nextRequestID(ctx contractapi.TransactionContextInterface) (uint64, error) {
	b, err := ctx.GetStub().GetState(requestSeqKey)
	if err != nil {
		return 0, err
	}
	var next uint64
	if b != nil {
		next, err = strconv.ParseUint(string(b), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt request sequence: %w", err)
		}
	}
	if err := ctx.GetStub().PutState(requestSeqKey, []byte(strconv.FormatUint(next+1, 10))); err != nil {
		return 0, err
	}
	return next, nil
}

func approvalThreshold(ctx contractapi.TransactionContextInterface) (int, error) {
	b, err := ctx.GetStub().GetState(thresholdKey)
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, fmt.Errorf("%w: approval threshold not configured, call Init first", ErrInvalidState)
	}
	t, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("corrupt threshold value: %w", err)
	}
	return t, nil
}

func tally(r *CreditRequest) (approvals, rejections int) {
	for _, v := range r.Votes {
		if v.Approve {
			approvals++
		} else {
			rejections++
		}
	}
	return approvals, rejections
}

// execute mints the requested amount and bumps the project's issued-credit
// counter. Called only from VoteOnRequest, in the transaction whose vote
// crossed the approval threshold; any error fails that whole transaction,
// so the deciding vote and the mint land together or not at all.
func execute(ctx contractapi.TransactionContextInterface, r *CreditRequest) error {
	if err := mintTo(ctx, r.Recipient, r.Amount); err != nil {
		return err
	}
	if err := recordIssuance(ctx, r.ProjectID, r.Amount); err != nil {
		return err
	}
	r.Executed = true
	return nil
}

// ---- transactions ----

// Init fixes the approval threshold. Admin only, callable once; the
// threshold is not mutable afterwards.
func (c *VerificationContract) Init(ctx contractapi.TransactionContextInterface, threshold string) error {
	if _, err := requireRole(ctx, RoleAdmin); err != nil {
		return err
	}
	b, err := ctx.GetStub().GetState(thresholdKey)
	if err != nil {
		return err
	}
	if b != nil {
		return fmt.Errorf("%w: approval threshold already configured", ErrInvalidState)
	}
	t, err := strconv.Atoi(strings.TrimSpace(threshold))
	if err != nil || t < 1 {
		return fmt.Errorf("%w: threshold must be a positive integer, got %q", ErrInvalidAmount, threshold)
	}
	return ctx.GetStub().PutState(thresholdKey, []byte(strconv.Itoa(t)))
}

// CreateCreditRequest opens a pending request to mint amount credits to
// recipient for a verified project. Proposal right is bundled with the voter
// capability. Returns the new request id.
func (c *VerificationContract) CreateCreditRequest(ctx contractapi.TransactionContextInterface, projectID, recipient, amount, evidenceRef string) (uint64, error) {
	proposer, err := requireRole(ctx, RoleVoter)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(recipient) == "" {
		return 0, fmt.Errorf("recipient is required")
	}
	n, err := parseAmount(amount)
	if err != nil {
		return 0, err
	}
	p, err := getProjectState(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if p.Status != ProjectStatusVerified {
		return 0, fmt.Errorf("%w: project %s is %s, credit requests require a verified project", ErrInvalidState, projectID, p.Status)
	}
	now, err := txNow(ctx)
	if err != nil {
		return 0, err
	}
	id, err := nextRequestID(ctx)
	if err != nil {
		return 0, err
	}

	r := &CreditRequest{
		RequestID:   id,
		ProjectID:   projectID,
		Recipient:   recipient,
		Amount:      n,
		EvidenceRef: evidenceRef,
		Proposer:    proposer,
		Votes:       []VoteRecord{},
		Status:      RequestStatusPending,
		CreatedAt:   now,
	}
	if err := putRequestState(ctx, r); err != nil {
		return 0, err
	}
	if err := setJSONEvent(ctx, EventCreditRequestCreated, CreditRequestCreatedEvent{
		RequestID: id,
		ProjectID: projectID,
		Recipient: recipient,
		Amount:    n,
		Proposer:  proposer,
		Timestamp: now,
	}); err != nil {
		return 0, err
	}
	return id, nil
}

// VoteOnRequest records one signer's vote. Each signer votes at most once
// per request. When approvals reach the threshold the request flips to
// approved and executes in this same transaction; when rejections reach it
// the request flips to rejected and nothing is ever minted for it.
func (c *VerificationContract) VoteOnRequest(ctx contractapi.TransactionContextInterface, requestID string, approve bool) error {
	signer, err := requireRole(ctx, RoleVoter)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(requestID), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: credit request %q", ErrNotFound, requestID)
	}
	r, err := getRequestState(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != RequestStatusPending {
		return fmt.Errorf("%w: credit request %d is %s", ErrAlreadyFinalized, id, r.Status)
	}
	for _, v := range r.Votes {
		if v.Signer == signer {
			return fmt.Errorf("%w: signer already voted on request %d", ErrDuplicateVote, id)
		}
	}
	t, err := approvalThreshold(ctx)
	if err != nil {
		return err
	}

	r.Votes = append(r.Votes, VoteRecord{Signer: signer, Approve: approve})
	approvals, rejections := tally(r)

	decided := false
	switch {
	case approvals >= t:
		r.Status = RequestStatusApproved
		if err := execute(ctx, r); err != nil {
			return err
		}
		decided = true
	case rejections >= t:
		r.Status = RequestStatusRejected
		decided = true
	}

	now, err := txNow(ctx)
	if err != nil {
		return err
	}
	if decided {
		r.DecidedAt = now
	}
	if err := putRequestState(ctx, r); err != nil {
		return err
	}
	if !decided {
		return nil
	}
	return setJSONEvent(ctx, EventCreditRequestDecided, CreditRequestDecidedEvent{
		RequestID: r.RequestID,
		ProjectID: r.ProjectID,
		Status:    r.Status,
		Executed:  r.Executed,
		Recipient: r.Recipient,
		Amount:    r.Amount,
		Timestamp: now,
	})
}

// GetRequestStatus returns the tally view of a request.
func (c *VerificationContract) GetRequestStatus(ctx contractapi.TransactionContextInterface, requestID string) (*RequestStatusView, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(requestID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: credit request %q", ErrNotFound, requestID)
	}
	r, err := getRequestState(ctx, id)
	if err != nil {
		return nil, err
	}
	approvals, rejections := tally(r)
	return &RequestStatusView{
		RequestID:      r.RequestID,
		ProjectID:      r.ProjectID,
		Recipient:      r.Recipient,
		Amount:         r.Amount,
		ApprovalCount:  approvals,
		RejectionCount: rejections,
		Status:         r.Status,
		Executed:       r.Executed,
	}, nil
}

// GetCreditRequest returns the full request record including votes.
func (c *VerificationContract) GetCreditRequest(ctx contractapi.TransactionContextInterface, requestID string) (*CreditRequest, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(requestID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: credit request %q", ErrNotFound, requestID)
	}
	return getRequestState(ctx, id)
}

// GetTotalRequests returns the number of credit requests ever created.
func (c *VerificationContract) GetTotalRequests(ctx contractapi.TransactionContextInterface) (uint64, error) {
	b, err := ctx.GetStub().GetState(requestSeqKey)
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, nil
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt request sequence: %w", err)
	}
	return n, nil
}
