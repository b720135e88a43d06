package main

import (
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// AccessContract is the role registry: named capability sets keyed by
// identity. Grants and revocations require the admin capability; membership
// tests are open reads. Role membership history stays on the ledger, which
// is the audit log.
type AccessContract struct{ contractapi.Contract }

// Bootstrap grants the admin capability to the invoker. Callable exactly
// once, right after deployment; every later grant flows from this identity.
func (c *AccessContract) Bootstrap(ctx contractapi.TransactionContextInterface) error {
	b, err := ctx.GetStub().GetState(bootstrapKey)
	if err != nil {
		return err
	}
	if b != nil {
		return fmt.Errorf("%w: access control already bootstrapped", ErrInvalidState)
	}
	id, err := invokerID(ctx)
	if err != nil {
		return err
	}
	if err := setRoleState(ctx, RoleAdmin, id); err != nil {
		return err
	}
	return ctx.GetStub().PutState(bootstrapKey, []byte(id))
}

// GrantRole adds identity to the role's member set. Granting an already-held
// role is a no-op.
func (c *AccessContract) GrantRole(ctx contractapi.TransactionContextInterface, role, identity string) error {
	if strings.TrimSpace(role) == "" || strings.TrimSpace(identity) == "" {
		return fmt.Errorf("role and identity are required")
	}
	if _, err := requireRole(ctx, RoleAdmin); err != nil {
		return err
	}
	held, err := hasRoleState(ctx, role, identity)
	if err != nil {
		return err
	}
	if held {
		return nil // idempotent
	}
	return setRoleState(ctx, role, identity)
}

// RevokeRole removes identity from the role's member set. Revoking a role
// the identity does not hold is a no-op.
func (c *AccessContract) RevokeRole(ctx contractapi.TransactionContextInterface, role, identity string) error {
	if strings.TrimSpace(role) == "" || strings.TrimSpace(identity) == "" {
		return fmt.Errorf("role and identity are required")
	}
	if _, err := requireRole(ctx, RoleAdmin); err != nil {
		return err
	}
	return delRoleState(ctx, role, identity)
}

// HasRole reports whether identity holds the capability.
func (c *AccessContract) HasRole(ctx contractapi.TransactionContextInterface, role, identity string) (bool, error) {
	return hasRoleState(ctx, role, identity)
}
