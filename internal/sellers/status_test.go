package sellers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministore_back_end/internal/models"
)

func TestRequestFromNone(t *testing.T) {
	tr, err := Apply(ActionRequest, models.RoleCustomer, models.SellerStatusNone, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, tr.Role)
	assert.Equal(t, models.SellerStatusPending, tr.Status)
	assert.True(t, tr.NotifyAdmins)
	assert.Contains(t, tr.AdminMessage, "alice")
}

func TestRequestTwiceRejected(t *testing.T) {
	_, err := Apply(ActionRequest, models.RoleCustomer, models.SellerStatusPending, "alice")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApprovePending(t *testing.T) {
	tr, err := Apply(ActionApprove, models.RoleCustomer, models.SellerStatusPending, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, tr.Role)
	assert.Equal(t, models.SellerStatusApproved, tr.Status)
	assert.False(t, tr.NotifyAdmins)
	assert.NotEmpty(t, tr.UserMessage)
}

func TestDenyPendingResetsToCustomer(t *testing.T) {
	tr, err := Apply(ActionDeny, models.RoleCustomer, models.SellerStatusPending, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, tr.Role)
	assert.Equal(t, models.SellerStatusNone, tr.Status)
}

func TestApproveNonPendingRejected(t *testing.T) {
	for _, status := range []string{
		models.SellerStatusNone,
		models.SellerStatusApproved,
		models.SellerStatusCancellationRequested,
	} {
		_, err := Apply(ActionApprove, models.RoleCustomer, status, "alice")
		assert.ErrorIs(t, err, ErrInvalidTransition, "statut %s", status)
	}
}

func TestCancellationFlow(t *testing.T) {
	tr, err := Apply(ActionRequestCancellation, models.RoleSeller, models.SellerStatusApproved, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, tr.Role)
	assert.Equal(t, models.SellerStatusCancellationRequested, tr.Status)
	assert.True(t, tr.NotifyAdmins)

	tr, err = Apply(ActionApproveCancellation, models.RoleSeller, tr.Status, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, tr.Role)
	assert.Equal(t, models.SellerStatusNone, tr.Status)
}

func TestCancellationByCustomerRejected(t *testing.T) {
	_, err := Apply(ActionRequestCancellation, models.RoleCustomer, models.SellerStatusNone, "bob")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRevokeSellerDirectly(t *testing.T) {
	tr, err := Apply(ActionRevoke, models.RoleSeller, models.SellerStatusApproved, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, tr.Role)
	assert.Equal(t, models.SellerStatusNone, tr.Status)
	assert.False(t, tr.NotifyAdmins)
}

func TestRevokeCustomerRejected(t *testing.T) {
	_, err := Apply(ActionRevoke, models.RoleCustomer, models.SellerStatusNone, "bob")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
