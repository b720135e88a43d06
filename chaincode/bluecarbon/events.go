package main

import (
	"encoding/json"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// setJSONEvent attaches a chaincode event to the current transaction. Fabric
// keeps one event per transaction; callers emit at most one per tx.
func setJSONEvent(ctx contractapi.TransactionContextInterface, name string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return ctx.GetStub().SetEvent(name, b)
}
