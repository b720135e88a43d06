package main

// Project is a registered restoration site. Once verified it becomes
// eligible for credit issuance through the verification contract.
type Project struct {
	ProjectID        string        `json:"projectId"` // primary key, caller supplied
	Owner            string        `json:"owner"`
	EvidenceHash     string        `json:"evidenceHash"` // content hash of the baseline evidence bundle
	Location         string        `json:"location"`
	Area             float64       `json:"area"` // square meters
	Ecosystem        EcosystemType `json:"ecosystem"`
	Status           ProjectStatus `json:"status"`
	CreatedAt        string        `json:"createdAt"` // RFC3339, from tx timestamp
	VerifiedAt       string        `json:"verifiedAt,omitempty"`
	VerifiedBy       string        `json:"verifiedBy,omitempty"`
	EstimatedCredits int64         `json:"estimatedCredits"`
	IssuedCredits    int64         `json:"issuedCredits"` // monotonically non-decreasing
}

// FieldRecord is one unit of monitoring evidence submitted against a project.
// The measurement payload is opaque to the chaincode.
type FieldRecord struct {
	DataID       string       `json:"dataId"` // primary key, caller supplied
	ProjectID    string       `json:"projectId"`
	Collector    string       `json:"collector"`
	EvidenceHash string       `json:"evidenceHash"`
	GPSLocation  string       `json:"gpsLocation"`
	Payload      string       `json:"payload"`
	Status       RecordStatus `json:"status"`
	Verified     bool         `json:"verified"`
	VerifiedBy   string       `json:"verifiedBy,omitempty"`
	VerifiedAt   string       `json:"verifiedAt,omitempty"`
	SubmittedAt  string       `json:"submittedAt"`
}

// VoteRecord is a single signer's vote on a credit request. Votes are kept
// in submission order; a signer appears at most once per request.
type VoteRecord struct {
	Signer  string `json:"signer"`
	Approve bool   `json:"approve"`
}

// CreditRequest is a proposal to mint credits to a recipient, decided by
// multi-signer vote. Amount is fixed at creation time and is the exact
// amount minted on execution.
type CreditRequest struct {
	RequestID   uint64        `json:"requestId"` // sequential, never reused
	ProjectID   string        `json:"projectId"`
	Recipient   string        `json:"recipient"`
	Amount      int64         `json:"amount"`
	EvidenceRef string        `json:"evidenceRef"`
	Proposer    string        `json:"proposer"`
	Votes       []VoteRecord  `json:"votes"`
	Status      RequestStatus `json:"status"`
	Executed    bool          `json:"executed"` // true only when Status is Approved
	CreatedAt   string        `json:"createdAt"`
	DecidedAt   string        `json:"decidedAt,omitempty"`
}

// RequestStatusView is the read shape returned by GetRequestStatus.
type RequestStatusView struct {
	RequestID      uint64        `json:"requestId"`
	ProjectID      string        `json:"projectId"`
	Recipient      string        `json:"recipient"`
	Amount         int64         `json:"amount"`
	ApprovalCount  int           `json:"approvalCount"`
	RejectionCount int           `json:"rejectionCount"`
	Status         RequestStatus `json:"status"`
	Executed       bool          `json:"executed"`
}

// TokenAccount holds one identity's credit balance and its cumulative
// retired amount. Retired only ever grows.
type TokenAccount struct {
	Identity string `json:"identity"`
	Balance  int64  `json:"balance"`
	Retired  int64  `json:"retired"`
}

// TokenSupply is the global supply record. TotalSupply counts everything
// ever minted; retirement does not reduce it.
type TokenSupply struct {
	TotalSupply  int64 `json:"totalSupply"`
	TotalRetired int64 `json:"totalRetired"`
}

// ProjectHistoryEntry is one ledger revision of a project key.
type ProjectHistoryEntry struct {
	TxID     string   `json:"txId"`
	IsDelete bool     `json:"isDelete"`
	Value    *Project `json:"value"`
}

// Event payloads, emitted via SetEvent for off-chain indexers. The
// chaincode never reads these back.

type ProjectRegisteredEvent struct {
	ProjectID    string `json:"projectId"`
	Owner        string `json:"owner"`
	EvidenceHash string `json:"evidenceHash"`
	Timestamp    string `json:"timestamp"`
}

type ProjectDecidedEvent struct {
	ProjectID        string        `json:"projectId"`
	Status           ProjectStatus `json:"status"`
	VerifiedBy       string        `json:"verifiedBy"`
	EstimatedCredits int64         `json:"estimatedCredits,omitempty"`
	Timestamp        string        `json:"timestamp"`
}

type FieldDataSubmittedEvent struct {
	DataID       string `json:"dataId"`
	ProjectID    string `json:"projectId"`
	Collector    string `json:"collector"`
	EvidenceHash string `json:"evidenceHash"`
	Timestamp    string `json:"timestamp"`
}

type FieldDataVerifiedEvent struct {
	DataID     string       `json:"dataId"`
	ProjectID  string       `json:"projectId"`
	Status     RecordStatus `json:"status"`
	VerifiedBy string       `json:"verifiedBy"`
	Timestamp  string       `json:"timestamp"`
}

type CreditRequestCreatedEvent struct {
	RequestID uint64 `json:"requestId"`
	ProjectID string `json:"projectId"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Proposer  string `json:"proposer"`
	Timestamp string `json:"timestamp"`
}

// CreditRequestDecidedEvent carries the mint outcome as well: Fabric keeps
// a single event per transaction, and the deciding vote and the mint are
// one transaction.
type CreditRequestDecidedEvent struct {
	RequestID uint64        `json:"requestId"`
	ProjectID string        `json:"projectId"`
	Status    RequestStatus `json:"status"`
	Executed  bool          `json:"executed"`
	Recipient string        `json:"recipient"`
	Amount    int64         `json:"amount"`
	Timestamp string        `json:"timestamp"`
}

type CreditsMintedEvent struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Timestamp string `json:"timestamp"`
}

type CreditsRetiredEvent struct {
	Identity  string `json:"identity"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}
