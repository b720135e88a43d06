package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// invokerID returns the opaque client identity of the transaction submitter.
func invokerID(ctx contractapi.TransactionContextInterface) (string, error) {
	id, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return "", fmt.Errorf("get invoker id: %w", err)
	}
	return id, nil
}

// requireRole resolves the invoker and checks it holds the given capability.
// Every state-mutating transaction calls this before touching the ledger.
func requireRole(ctx contractapi.TransactionContextInterface, role string) (string, error) {
	id, err := invokerID(ctx)
	if err != nil {
		return "", err
	}
	ok, err := hasRoleState(ctx, role, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: caller lacks %q capability", ErrNotEligible, role)
	}
	return id, nil
}

func hasRoleState(ctx contractapi.TransactionContextInterface, role, identity string) (bool, error) {
	key, err := ctx.GetStub().CreateCompositeKey(roleMemberIdx, []string{role, identity})
	if err != nil {
		return false, err
	}
	b, err := ctx.GetStub().GetState(key)
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

func setRoleState(ctx contractapi.TransactionContextInterface, role, identity string) error {
	key, err := ctx.GetStub().CreateCompositeKey(roleMemberIdx, []string{role, identity})
	if err != nil {
		return err
	}
	return ctx.GetStub().PutState(key, []byte{0})
}

func delRoleState(ctx contractapi.TransactionContextInterface, role, identity string) error {
	key, err := ctx.GetStub().CreateCompositeKey(roleMemberIdx, []string{role, identity})
	if err != nil {
		return err
	}
	return ctx.GetStub().DelState(key)
}

// txNow returns the transaction timestamp as RFC3339. The tx timestamp is
// identical on every endorser, unlike time.Now().
func txNow(ctx contractapi.TransactionContextInterface) (string, error) {
	ts, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return "", fmt.Errorf("get tx timestamp: %w", err)
	}
	return ts.AsTime().UTC().Format(time.RFC3339), nil
}

// parseAmount parses a positive integer credit amount.
func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: must be a positive integer, got %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// rangeEnd is the exclusive upper bound for a prefix range scan.
func rangeEnd(prefix string) string {
	return prefix + string(utf8.MaxRune)
}
