package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFloors(t *testing.T) {
	tests := []struct {
		role          Role
		officerOrUp   bool
		regionMgrOrUp bool
	}{
		{RoleClient, false, false},
		{RoleGuarantor, false, false},
		{RoleLoanOfficer, true, false},
		{RoleRegionManager, true, true},
		{RoleManager, true, true},
		{RoleSuperuser, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.True(t, tt.role.Valid())
			assert.Equal(t, tt.officerOrUp, tt.role.IsLoanOfficerOrHigher())
			assert.Equal(t, tt.regionMgrOrUp, tt.role.IsRegionManagerOrHigher())
		})
	}
	assert.False(t, Role("admin").Valid())
}
