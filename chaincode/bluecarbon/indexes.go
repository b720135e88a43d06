package main

import "github.com/hyperledger/fabric-contract-api-go/contractapi"

// Secondary indexes. Owners and project references are immutable, so index
// entries are written once at creation and never moved.

func addProjectIndexes(ctx contractapi.TransactionContextInterface, p *Project) error {
	if p == nil || p.Owner == "" || p.ProjectID == "" {
		return nil
	}
	key, err := ctx.GetStub().CreateCompositeKey(ownerProjectIdx, []string{p.Owner, p.ProjectID})
	if err != nil {
		return err
	}
	return ctx.GetStub().PutState(key, []byte{0})
}

func addFieldRecordIndexes(ctx contractapi.TransactionContextInterface, r *FieldRecord) error {
	if r == nil || r.ProjectID == "" || r.DataID == "" {
		return nil
	}
	key, err := ctx.GetStub().CreateCompositeKey(projectDataIdx, []string{r.ProjectID, r.DataID})
	if err != nil {
		return err
	}
	return ctx.GetStub().PutState(key, []byte{0})
}
