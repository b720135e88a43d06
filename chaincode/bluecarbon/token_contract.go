package main

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// TokenContract is the carbon credit balance ledger. Supply is created only
// by minting and leaves circulation only by retirement; retirement burns
// from the holder's balance and is irreversible.
type TokenContract struct{ contractapi.Contract }

// ---- internal helpers ----

func accountKey(identity string) string { return accountKeyPrefix + identity }

func getAccountState(ctx contractapi.TransactionContextInterface, identity string) (*TokenAccount, error) {
	b, err := ctx.GetStub().GetState(accountKey(identity))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &TokenAccount{Identity: identity}, nil
	}
	var a TokenAccount
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func putAccountState(ctx contractapi.TransactionContextInterface, a *TokenAccount) error {
	b, _ := json.Marshal(a)
	return ctx.GetStub().PutState(accountKey(a.Identity), b)
}

func getSupplyState(ctx contractapi.TransactionContextInterface) (*TokenSupply, error) {
	b, err := ctx.GetStub().GetState(supplyKey)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &TokenSupply{}, nil
	}
	var s TokenSupply
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func putSupplyState(ctx contractapi.TransactionContextInterface, s *TokenSupply) error {
	b, _ := json.Marshal(s)
	return ctx.GetStub().PutState(supplyKey, b)
}

// mintTo credits the recipient and grows total supply. Shared by the public
// Mint transaction and the verification contract's execution path.
func mintTo(ctx contractapi.TransactionContextInterface, recipient string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: mint amount must be positive", ErrInvalidAmount)
	}
	a, err := getAccountState(ctx, recipient)
	if err != nil {
		return err
	}
	a.Balance += amount
	if err := putAccountState(ctx, a); err != nil {
		return err
	}
	s, err := getSupplyState(ctx)
	if err != nil {
		return err
	}
	s.TotalSupply += amount
	return putSupplyState(ctx, s)
}

// ---- transactions ----

// Mint creates amount credits for recipient. Requires the minter capability.
func (c *TokenContract) Mint(ctx contractapi.TransactionContextInterface, recipient, amount string) error {
	if _, err := requireRole(ctx, RoleMinter); err != nil {
		return err
	}
	n, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if err := mintTo(ctx, recipient, n); err != nil {
		return err
	}
	now, err := txNow(ctx)
	if err != nil {
		return err
	}
	return setJSONEvent(ctx, EventCreditsMinted, CreditsMintedEvent{
		Recipient: recipient,
		Amount:    n,
		Timestamp: now,
	})
}

// Retire burns amount credits from the invoker's balance and records them in
// the per-identity and global retired counters. There is no un-retire.
func (c *TokenContract) Retire(ctx contractapi.TransactionContextInterface, amount, reason string) error {
	id, err := invokerID(ctx)
	if err != nil {
		return err
	}
	n, err := parseAmount(amount)
	if err != nil {
		return err
	}
	a, err := getAccountState(ctx, id)
	if err != nil {
		return err
	}
	if a.Balance < n {
		return fmt.Errorf("%w: balance %d, retiring %d", ErrInsufficientBalance, a.Balance, n)
	}
	a.Balance -= n
	a.Retired += n
	if err := putAccountState(ctx, a); err != nil {
		return err
	}
	s, err := getSupplyState(ctx)
	if err != nil {
		return err
	}
	s.TotalRetired += n
	if err := putSupplyState(ctx, s); err != nil {
		return err
	}
	now, err := txNow(ctx)
	if err != nil {
		return err
	}
	return setJSONEvent(ctx, EventCreditsRetired, CreditsRetiredEvent{
		Identity:  id,
		Amount:    n,
		Reason:    reason,
		Timestamp: now,
	})
}

// BalanceOf returns the credit balance of an identity.
func (c *TokenContract) BalanceOf(ctx contractapi.TransactionContextInterface, identity string) (int64, error) {
	a, err := getAccountState(ctx, identity)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// RetiredOf returns the cumulative retired amount of an identity.
func (c *TokenContract) RetiredOf(ctx contractapi.TransactionContextInterface, identity string) (int64, error) {
	a, err := getAccountState(ctx, identity)
	if err != nil {
		return 0, err
	}
	return a.Retired, nil
}

// TotalSupply returns the cumulative minted amount. Retirement does not
// reduce it; retired credits are tracked separately.
func (c *TokenContract) TotalSupply(ctx contractapi.TransactionContextInterface) (int64, error) {
	s, err := getSupplyState(ctx)
	if err != nil {
		return 0, err
	}
	return s.TotalSupply, nil
}

// TotalRetired returns the global cumulative retired amount.
func (c *TokenContract) TotalRetired(ctx contractapi.TransactionContextInterface) (int64, error) {
	s, err := getSupplyState(ctx)
	if err != nil {
		return 0, err
	}
	return s.TotalRetired, nil
}
