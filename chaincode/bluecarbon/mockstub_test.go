package main

import (
	"crypto/x509"
	"sort"
	"strings"
	"time"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	"github.com/hyperledger/fabric-protos-go/peer"
)

// mockStub is a map-backed shim.ChaincodeStubInterface covering the subset
// the contracts use: state CRUD, range and partial-composite-key scans,
// per-key history, composite keys, events and the tx timestamp. Everything
// else panics so an accidental dependency shows up immediately.
type mockStub struct {
	state        map[string][]byte
	history      map[string][]*queryresult.KeyModification
	txID         string
	ts           time.Time
	eventName    string
	eventPayload []byte
}

func newMockStub() *mockStub {
	return &mockStub{
		state:   map[string][]byte{},
		history: map[string][]*queryresult.KeyModification{},
		txID:    "tx0",
		ts:      time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC),
	}
}

const compositeKeyNamespace = "\x00"

func buildCompositeKey(objectType string, attrs []string) string {
	ck := compositeKeyNamespace + objectType + compositeKeyNamespace
	for _, a := range attrs {
		ck += a + compositeKeyNamespace
	}
	return ck
}

func (m *mockStub) GetState(key string) ([]byte, error) {
	v, ok := m.state[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *mockStub) PutState(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.state[key] = v
	m.history[key] = append(m.history[key], &queryresult.KeyModification{
		TxId:  m.txID,
		Value: v,
	})
	return nil
}

func (m *mockStub) DelState(key string) error {
	delete(m.state, key)
	m.history[key] = append(m.history[key], &queryresult.KeyModification{
		TxId:     m.txID,
		IsDelete: true,
	})
	return nil
}

func (m *mockStub) sortedKeys() []string {
	keys := make([]string, 0, len(m.state))
	for k := range m.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockStub) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	var kvs []*queryresult.KV
	for _, k := range m.sortedKeys() {
		if strings.HasPrefix(k, compositeKeyNamespace) {
			continue // composite keys live in their own namespace
		}
		if k < startKey {
			continue
		}
		if endKey != "" && k >= endKey {
			continue
		}
		kvs = append(kvs, &queryresult.KV{Key: k, Value: m.state[k]})
	}
	return &mockKVIterator{kvs: kvs}, nil
}

func (m *mockStub) GetStateByPartialCompositeKey(objectType string, keys []string) (shim.StateQueryIteratorInterface, error) {
	prefix := buildCompositeKey(objectType, keys)
	var kvs []*queryresult.KV
	for _, k := range m.sortedKeys() {
		if strings.HasPrefix(k, prefix) {
			kvs = append(kvs, &queryresult.KV{Key: k, Value: m.state[k]})
		}
	}
	return &mockKVIterator{kvs: kvs}, nil
}

func (m *mockStub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return buildCompositeKey(objectType, attributes), nil
}

func (m *mockStub) SplitCompositeKey(compositeKey string) (string, []string, error) {
	parts := strings.Split(strings.Trim(compositeKey, compositeKeyNamespace), compositeKeyNamespace)
	return parts[0], parts[1:], nil
}

func (m *mockStub) GetHistoryForKey(key string) (shim.HistoryQueryIteratorInterface, error) {
	return &mockHistoryIterator{mods: m.history[key]}, nil
}

func (m *mockStub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	return &timestamp.Timestamp{Seconds: m.ts.Unix(), Nanos: int32(m.ts.Nanosecond())}, nil
}

func (m *mockStub) SetEvent(name string, payload []byte) error {
	m.eventName = name
	m.eventPayload = payload
	return nil
}

func (m *mockStub) GetTxID() string      { return m.txID }
func (m *mockStub) GetChannelID() string { return "testchannel" }

// Unused parts of the interface.

func (m *mockStub) GetArgs() [][]byte                     { panic("not implemented in mock") }
func (m *mockStub) GetStringArgs() []string               { panic("not implemented in mock") }
func (m *mockStub) GetFunctionAndParameters() (string, []string) {
	panic("not implemented in mock")
}
func (m *mockStub) GetArgsSlice() ([]byte, error) { panic("not implemented in mock") }
func (m *mockStub) InvokeChaincode(string, [][]byte, string) peer.Response {
	panic("not implemented in mock")
}
func (m *mockStub) SetStateValidationParameter(string, []byte) error {
	panic("not implemented in mock")
}
func (m *mockStub) GetStateValidationParameter(string) ([]byte, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetStateByRangeWithPagination(string, string, int32, string) (shim.StateQueryIteratorInterface, *peer.QueryResponseMetadata, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetStateByPartialCompositeKeyWithPagination(string, []string, int32, string) (shim.StateQueryIteratorInterface, *peer.QueryResponseMetadata, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetQueryResult(string) (shim.StateQueryIteratorInterface, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetQueryResultWithPagination(string, int32, string) (shim.StateQueryIteratorInterface, *peer.QueryResponseMetadata, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetPrivateData(string, string) ([]byte, error)     { panic("not implemented in mock") }
func (m *mockStub) GetPrivateDataHash(string, string) ([]byte, error) { panic("not implemented in mock") }
func (m *mockStub) PutPrivateData(string, string, []byte) error       { panic("not implemented in mock") }
func (m *mockStub) DelPrivateData(string, string) error               { panic("not implemented in mock") }
func (m *mockStub) PurgePrivateData(string, string) error             { panic("not implemented in mock") }
func (m *mockStub) SetPrivateDataValidationParameter(string, string, []byte) error {
	panic("not implemented in mock")
}
func (m *mockStub) GetPrivateDataValidationParameter(string, string) ([]byte, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetPrivateDataByRange(string, string, string) (shim.StateQueryIteratorInterface, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetPrivateDataByPartialCompositeKey(string, string, []string) (shim.StateQueryIteratorInterface, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetPrivateDataQueryResult(string, string) (shim.StateQueryIteratorInterface, error) {
	panic("not implemented in mock")
}
func (m *mockStub) GetCreator() ([]byte, error)             { panic("not implemented in mock") }
func (m *mockStub) GetTransient() (map[string][]byte, error) { panic("not implemented in mock") }
func (m *mockStub) GetBinding() ([]byte, error)             { panic("not implemented in mock") }
func (m *mockStub) GetDecorations() map[string][]byte       { panic("not implemented in mock") }
func (m *mockStub) GetSignedProposal() (*peer.SignedProposal, error) {
	panic("not implemented in mock")
}

type mockKVIterator struct {
	kvs []*queryresult.KV
	i   int
}

func (it *mockKVIterator) HasNext() bool { return it.i < len(it.kvs) }
func (it *mockKVIterator) Next() (*queryresult.KV, error) {
	kv := it.kvs[it.i]
	it.i++
	return kv, nil
}
func (it *mockKVIterator) Close() error { return nil }

type mockHistoryIterator struct {
	mods []*queryresult.KeyModification
	i    int
}

func (it *mockHistoryIterator) HasNext() bool { return it.i < len(it.mods) }
func (it *mockHistoryIterator) Next() (*queryresult.KeyModification, error) {
	km := it.mods[it.i]
	it.i++
	return km, nil
}
func (it *mockHistoryIterator) Close() error { return nil }

// mockClientIdentity satisfies cid.ClientIdentity with a fixed id.
type mockClientIdentity struct {
	id string
}

func (m *mockClientIdentity) GetID() (string, error)    { return m.id, nil }
func (m *mockClientIdentity) GetMSPID() (string, error) { return "TestMSP", nil }
func (m *mockClientIdentity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}
func (m *mockClientIdentity) AssertAttributeValue(string, string) error { return nil }
func (m *mockClientIdentity) GetX509Certificate() (*x509.Certificate, error) {
	return nil, nil
}

// mockContext pairs a shared stub with a per-caller identity, so one test
// ledger can be driven by several identities.
type mockContext struct {
	stub     *mockStub
	identity *mockClientIdentity
}

func (m *mockContext) GetStub() shim.ChaincodeStubInterface { return m.stub }
func (m *mockContext) GetClientIdentity() cid.ClientIdentity {
	return m.identity
}
