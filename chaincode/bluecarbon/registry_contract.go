package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// RegistryContract manages restoration projects and the field records
// submitted against them. Projects move registered -> verified | rejected;
// both outcomes are terminal. Projects are never deleted.
type RegistryContract struct{ contractapi.Contract }

// ---- internal helpers ----

func projectKey(id string) string { return projectKeyPrefix + id }

func getProjectState(ctx contractapi.TransactionContextInterface, projectID string) (*Project, error) {
	b, err := ctx.GetStub().GetState(projectKey(projectID))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func putProjectState(ctx contractapi.TransactionContextInterface, p *Project) error {
	b, _ := json.Marshal(p)
	return ctx.GetStub().PutState(projectKey(p.ProjectID), b)
}

func fieldDataKey(id string) string { return fieldDataKeyPrefix + id }

func getFieldRecordState(ctx contractapi.TransactionContextInterface, dataID string) (*FieldRecord, error) {
	b, err := ctx.GetStub().GetState(fieldDataKey(dataID))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: field record %s", ErrNotFound, dataID)
	}
	var r FieldRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func putFieldRecordState(ctx contractapi.TransactionContextInterface, r *FieldRecord) error {
	b, _ := json.Marshal(r)
	return ctx.GetStub().PutState(fieldDataKey(r.DataID), b)
}

// recordIssuance bumps a project's issued-credit counter. Only the
// verification contract's execution path calls it, inside the same
// transaction as the mint.
func recordIssuance(ctx contractapi.TransactionContextInterface, projectID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: issuance amount must be positive", ErrInvalidAmount)
	}
	p, err := getProjectState(ctx, projectID)
	if err != nil {
		return err
	}
	if p.Status != ProjectStatusVerified {
		return fmt.Errorf("%w: project %s is %s, credits require a verified project", ErrInvalidState, projectID, p.Status)
	}
	p.IssuedCredits += amount
	return putProjectState(ctx, p)
}

// ---- project transactions ----

// RegisterProject stores a new project owned by the invoker with status
// registered. Area is square meters and must be positive; ecosystem must be
// one of the known types.
func (c *RegistryContract) RegisterProject(ctx contractapi.TransactionContextInterface, projectID, evidenceHash, location, area, ecosystem string) (*Project, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(evidenceHash) == "" {
		return nil, fmt.Errorf("projectId and evidenceHash are required")
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(area), 64)
	if err != nil || a <= 0 {
		return nil, fmt.Errorf("%w: must be a positive number, got %q", ErrInvalidArea, area)
	}
	eco := EcosystemType(ecosystem)
	if !validEcosystem(eco) {
		return nil, fmt.Errorf("unknown ecosystem type %q", ecosystem)
	}
	exists, err := c.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: project %s already exists", ErrDuplicateID, projectID)
	}
	owner, err := invokerID(ctx)
	if err != nil {
		return nil, err
	}
	now, err := txNow(ctx)
	if err != nil {
		return nil, err
	}

	p := &Project{
		ProjectID:    projectID,
		Owner:        owner,
		EvidenceHash: evidenceHash,
		Location:     location,
		Area:         a,
		Ecosystem:    eco,
		Status:       ProjectStatusRegistered,
		CreatedAt:    now,
	}
	if err := putProjectState(ctx, p); err != nil {
		return nil, err
	}
	if err := addProjectIndexes(ctx, p); err != nil {
		return nil, err
	}
	if err := setJSONEvent(ctx, EventProjectRegistered, ProjectRegisteredEvent{
		ProjectID:    p.ProjectID,
		Owner:        p.Owner,
		EvidenceHash: p.EvidenceHash,
		Timestamp:    now,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyProject marks a registered project verified and records the
// verifier's credit estimate. Requires the verifier capability.
func (c *RegistryContract) VerifyProject(ctx contractapi.TransactionContextInterface, projectID, estimatedCredits string) (*Project, error) {
	verifier, err := requireRole(ctx, RoleVerifier)
	if err != nil {
		return nil, err
	}
	est, err := parseAmount(estimatedCredits)
	if err != nil {
		return nil, err
	}
	p, err := getProjectState(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Status != ProjectStatusRegistered {
		return nil, fmt.Errorf("%w: project %s is %s, only registered projects can be verified", ErrInvalidState, projectID, p.Status)
	}
	now, err := txNow(ctx)
	if err != nil {
		return nil, err
	}
	p.Status = ProjectStatusVerified
	p.VerifiedBy = verifier
	p.VerifiedAt = now
	p.EstimatedCredits = est
	if err := putProjectState(ctx, p); err != nil {
		return nil, err
	}
	if err := setJSONEvent(ctx, EventProjectVerified, ProjectDecidedEvent{
		ProjectID:        p.ProjectID,
		Status:           p.Status,
		VerifiedBy:       verifier,
		EstimatedCredits: est,
		Timestamp:        now,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// RejectProject marks a registered project rejected. Terminal: no further
// transitions are permitted.
func (c *RegistryContract) RejectProject(ctx contractapi.TransactionContextInterface, projectID string) (*Project, error) {
	verifier, err := requireRole(ctx, RoleVerifier)
	if err != nil {
		return nil, err
	}
	p, err := getProjectState(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Status != ProjectStatusRegistered {
		return nil, fmt.Errorf("%w: project %s is %s, only registered projects can be rejected", ErrInvalidState, projectID, p.Status)
	}
	now, err := txNow(ctx)
	if err != nil {
		return nil, err
	}
	p.Status = ProjectStatusRejected
	p.VerifiedBy = verifier
	p.VerifiedAt = now
	if err := putProjectState(ctx, p); err != nil {
		return nil, err
	}
	if err := setJSONEvent(ctx, EventProjectRejected, ProjectDecidedEvent{
		ProjectID:  p.ProjectID,
		Status:     p.Status,
		VerifiedBy: verifier,
		Timestamp:  now,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject returns a single project by id.
func (c *RegistryContract) GetProject(ctx contractapi.TransactionContextInterface, projectID string) (*Project, error) {
	return getProjectState(ctx, projectID)
}

// ProjectExists returns true if a project exists.
func (c *RegistryContract) ProjectExists(ctx contractapi.TransactionContextInterface, projectID string) (bool, error) {
	b, err := ctx.GetStub().GetState(projectKey(projectID))
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

// GetAllProjects returns every project on the ledger.
func (c *RegistryContract) GetAllProjects(ctx contractapi.TransactionContextInterface) ([]*Project, error) {
	iter, err := ctx.GetStub().GetStateByRange(projectKeyPrefix, rangeEnd(projectKeyPrefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*Project
	for iter.HasNext() {
		kv, err := iter.Next()
		if err != nil {
			return nil, err
		}
		var p Project
		if err := json.Unmarshal(kv.Value, &p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

// GetTotalProjects returns the number of registered projects.
func (c *RegistryContract) GetTotalProjects(ctx contractapi.TransactionContextInterface) (int, error) {
	ps, err := c.GetAllProjects(ctx)
	if err != nil {
		return 0, err
	}
	return len(ps), nil
}

// ListProjectsByOwner returns all projects owned by the given identity.
func (c *RegistryContract) ListProjectsByOwner(ctx contractapi.TransactionContextInterface, owner string) ([]*Project, error) {
	iter, err := ctx.GetStub().GetStateByPartialCompositeKey(ownerProjectIdx, []string{owner})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*Project
	for iter.HasNext() {
		resp, err := iter.Next()
		if err != nil {
			return nil, err
		}
		_, parts, err := ctx.GetStub().SplitCompositeKey(resp.Key)
		if err != nil || len(parts) != 2 {
			continue
		}
		p, err := getProjectState(ctx, parts[1])
		if err == nil && p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProjectHistory returns the per-key revision history of a project.
func (c *RegistryContract) GetProjectHistory(ctx contractapi.TransactionContextInterface, projectID string) ([]*ProjectHistoryEntry, error) {
	iter, err := ctx.GetStub().GetHistoryForKey(projectKey(projectID))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*ProjectHistoryEntry
	for iter.HasNext() {
		r, err := iter.Next()
		if err != nil {
			return nil, err
		}
		var val *Project
		if !r.IsDelete && len(r.Value) > 0 {
			var tmp Project
			if err := json.Unmarshal(r.Value, &tmp); err == nil {
				val = &tmp
			}
		}
		out = append(out, &ProjectHistoryEntry{TxID: r.TxId, IsDelete: r.IsDelete, Value: val})
	}
	return out, nil
}

// EstimateCredits returns the advisory credit estimate for an area and
// ecosystem over one year. Read only; the voting path never consults it.
func (c *RegistryContract) EstimateCredits(ctx contractapi.TransactionContextInterface, area, ecosystem string) (int64, error) {
	a, err := strconv.ParseFloat(strings.TrimSpace(area), 64)
	if err != nil || a <= 0 {
		return 0, fmt.Errorf("%w: must be a positive number, got %q", ErrInvalidArea, area)
	}
	rate, ok := sequestrationRates[EcosystemType(ecosystem)]
	if !ok {
		return 0, fmt.Errorf("unknown ecosystem type %q", ecosystem)
	}
	hectares := a / 10000
	return int64(hectares * rate), nil
}

// ---- field record transactions ----

// SubmitFieldData stores a new monitoring record against an existing
// project. The measurement payload is stored verbatim.
func (c *RegistryContract) SubmitFieldData(ctx contractapi.TransactionContextInterface, dataID, projectID, evidenceHash, gpsLocation, payload string) (*FieldRecord, error) {
	if strings.TrimSpace(dataID) == "" || strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("dataId and projectId are required")
	}
	if _, err := getProjectState(ctx, projectID); err != nil {
		return nil, err
	}
	existing, err := ctx.GetStub().GetState(fieldDataKey(dataID))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: field record %s already exists", ErrDuplicateID, dataID)
	}
	collector, err := invokerID(ctx)
	if err != nil {
		return nil, err
	}
	now, err := txNow(ctx)
	if err != nil {
		return nil, err
	}

	r := &FieldRecord{
		DataID:       dataID,
		ProjectID:    projectID,
		Collector:    collector,
		EvidenceHash: evidenceHash,
		GPSLocation:  gpsLocation,
		Payload:      payload,
		Status:       RecordStatusPending,
		SubmittedAt:  now,
	}
	if err := putFieldRecordState(ctx, r); err != nil {
		return nil, err
	}
	if err := addFieldRecordIndexes(ctx, r); err != nil {
		return nil, err
	}
	if err := setJSONEvent(ctx, EventFieldDataSubmitted, FieldDataSubmittedEvent{
		DataID:       r.DataID,
		ProjectID:    r.ProjectID,
		Collector:    collector,
		EvidenceHash: evidenceHash,
		Timestamp:    now,
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// VerifyFieldData decides a pending record. Approval sets the verified flag;
// rejection keeps the record with a terminal rejected status so the audit
// trail survives. Either way the record can be decided only once.
func (c *RegistryContract) VerifyFieldData(ctx contractapi.TransactionContextInterface, dataID string, approved bool) (*FieldRecord, error) {
	verifier, err := requireRole(ctx, RoleVerifier)
	if err != nil {
		return nil, err
	}
	r, err := getFieldRecordState(ctx, dataID)
	if err != nil {
		return nil, err
	}
	if r.Status != RecordStatusPending {
		return nil, fmt.Errorf("%w: field record %s is %s", ErrAlreadyVerified, dataID, r.Status)
	}
	now, err := txNow(ctx)
	if err != nil {
		return nil, err
	}
	if approved {
		r.Status = RecordStatusApproved
		r.Verified = true
	} else {
		r.Status = RecordStatusRejected
	}
	r.VerifiedBy = verifier
	r.VerifiedAt = now
	if err := putFieldRecordState(ctx, r); err != nil {
		return nil, err
	}
	if err := setJSONEvent(ctx, EventFieldDataVerified, FieldDataVerifiedEvent{
		DataID:     r.DataID,
		ProjectID:  r.ProjectID,
		Status:     r.Status,
		VerifiedBy: verifier,
		Timestamp:  now,
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// GetFieldData returns a single field record by id.
func (c *RegistryContract) GetFieldData(ctx contractapi.TransactionContextInterface, dataID string) (*FieldRecord, error) {
	return getFieldRecordState(ctx, dataID)
}

// ListFieldDataByProject returns all field records submitted for a project.
func (c *RegistryContract) ListFieldDataByProject(ctx contractapi.TransactionContextInterface, projectID string) ([]*FieldRecord, error) {
	iter, err := ctx.GetStub().GetStateByPartialCompositeKey(projectDataIdx, []string{projectID})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*FieldRecord
	for iter.HasNext() {
		resp, err := iter.Next()
		if err != nil {
			return nil, err
		}
		_, parts, err := ctx.GetStub().SplitCompositeKey(resp.Key)
		if err != nil || len(parts) != 2 {
			continue
		}
		r, err := getFieldRecordState(ctx, parts[1])
		if err == nil && r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}
