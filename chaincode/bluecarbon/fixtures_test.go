package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test identities. The contracts treat these as opaque strings, the same
// way they treat the x509-derived ids the peer hands them.
const (
	adminID    = "x509::CN=admin::OU=org1"
	verifierID = "x509::CN=verifier::OU=org1"
	voter1ID   = "x509::CN=voter1::OU=org1"
	voter2ID   = "x509::CN=voter2::OU=org1"
	voter3ID   = "x509::CN=voter3::OU=org1"
	minterID   = "x509::CN=minter::OU=org1"
	userID     = "x509::CN=u1::OU=org2"
)

func ctxAs(stub *mockStub, identity string) *mockContext {
	return &mockContext{stub: stub, identity: &mockClientIdentity{id: identity}}
}

// newAccessFixture bootstraps role state on a fresh stub: admin, one
// verifier, three voters and one minter.
func newAccessFixture(t *testing.T) *mockStub {
	t.Helper()
	stub := newMockStub()
	access := new(AccessContract)
	require.NoError(t, access.Bootstrap(ctxAs(stub, adminID)))
	admin := ctxAs(stub, adminID)
	require.NoError(t, access.GrantRole(admin, RoleVerifier, verifierID))
	require.NoError(t, access.GrantRole(admin, RoleVoter, voter1ID))
	require.NoError(t, access.GrantRole(admin, RoleVoter, voter2ID))
	require.NoError(t, access.GrantRole(admin, RoleVoter, voter3ID))
	require.NoError(t, access.GrantRole(admin, RoleMinter, minterID))
	return stub
}

// registerVerifiedProject registers PROJ-1 as userID and verifies it with an
// estimate of 65 credits, mirroring a 10000 m2 mangrove site.
func registerVerifiedProject(t *testing.T, stub *mockStub, projectID string) {
	t.Helper()
	registry := new(RegistryContract)
	_, err := registry.RegisterProject(ctxAs(stub, userID), projectID, "QmBaselineHash", "10.123,-75.456", "10000", "Mangrove")
	require.NoError(t, err)
	_, err = registry.VerifyProject(ctxAs(stub, verifierID), projectID, "65")
	require.NoError(t, err)
}

// newVotingFixture is the full scenario base: roles, a verified project and
// the verification contract initialized with threshold 2.
func newVotingFixture(t *testing.T, projectID string) *mockStub {
	t.Helper()
	stub := newAccessFixture(t)
	registerVerifiedProject(t, stub, projectID)
	require.NoError(t, new(VerificationContract).Init(ctxAs(stub, adminID), "2"))
	return stub
}
