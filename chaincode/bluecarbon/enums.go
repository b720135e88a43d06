package main

type ProjectStatus string

const (
	ProjectStatusRegistered ProjectStatus = "registered"
	ProjectStatusVerified   ProjectStatus = "verified"
	ProjectStatusRejected   ProjectStatus = "rejected"
)

type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "pending"
	RecordStatusApproved RecordStatus = "approved"
	// A rejected record is kept on the ledger for audit; only the status
	// marks it terminal.
	RecordStatusRejected RecordStatus = "rejected"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type EcosystemType string

const (
	EcosystemMangrove  EcosystemType = "Mangrove"
	EcosystemSeagrass  EcosystemType = "Seagrass"
	EcosystemSaltMarsh EcosystemType = "Salt Marsh"
	EcosystemOther     EcosystemType = "Other"
)

// Simplified sequestration rates in tons CO2 per hectare per year, keyed by
// ecosystem type. Doubles as the closed set of valid ecosystem values.
var sequestrationRates = map[EcosystemType]float64{
	EcosystemMangrove:  6.5,
	EcosystemSeagrass:  4.5,
	EcosystemSaltMarsh: 5.0,
	EcosystemOther:     3.0,
}

func validEcosystem(e EcosystemType) bool {
	_, ok := sequestrationRates[e]
	return ok
}
