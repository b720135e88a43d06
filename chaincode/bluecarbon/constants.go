package main

const (
	// State key prefixes
	projectKeyPrefix   = "project:"
	fieldDataKeyPrefix = "fielddata:"
	requestKeyPrefix   = "request:"
	accountKeyPrefix   = "account:"

	// Singleton keys
	supplyKey     = "token-supply"
	requestSeqKey = "request-seq"
	thresholdKey  = "verification-threshold"
	bootstrapKey  = "access-bootstrap"

	// Composite key namespaces
	ownerProjectIdx = "owner~project" // owner   -> project
	projectDataIdx  = "project~data"  // project -> field record
	roleMemberIdx   = "role~member"   // role    -> identity
)

// Capability names checked before state-mutating transactions.
const (
	RoleAdmin    = "admin"
	RoleVerifier = "verifier"
	RoleVoter    = "voter"
	RoleMinter   = "minter"
)

// Chaincode event names.
const (
	EventProjectRegistered    = "ProjectRegistered"
	EventProjectVerified      = "ProjectVerified"
	EventProjectRejected      = "ProjectRejected"
	EventFieldDataSubmitted   = "FieldDataSubmitted"
	EventFieldDataVerified    = "FieldDataVerified"
	EventCreditRequestCreated = "CreditRequestCreated"
	EventCreditRequestDecided = "CreditRequestDecided"
	EventCreditsMinted        = "CreditsMinted"
	EventCreditsRetired       = "CreditsRetired"
)
