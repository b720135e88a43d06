package main

import "github.com/hyperledger/fabric-contract-api-go/contractapi"

func main() {
	cc, err := contractapi.NewChaincode(
		new(AccessContract),       // roles
		new(RegistryContract),     // projects + field records
		new(TokenContract),        // credit balances
		new(VerificationContract), // credit request voting
	)
	if err != nil {
		panic(err)
	}
	cc.Info.Title = "BlueCarbonChaincode"
	cc.Info.Version = "1.0.0"
	if err := cc.Start(); err != nil {
		panic(err)
	}
}
