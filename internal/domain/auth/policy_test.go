package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/obra-control/internal/domain/auth"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   string
		action auth.Action
		want   bool
	}{
		{entity.RoleAdmin, auth.ActionApproveWorkOrder, true},
		{entity.RoleDirectorObra, auth.ActionDeleteWorkOrder, true},
		{entity.RoleJefeObra, auth.ActionApproveWorkOrder, false},
		{entity.RoleJefeObra, auth.ActionCloseWorkOrder, true},
		{entity.RoleCapataz, auth.ActionRecordConsumption, true},
		{entity.RoleCapataz, auth.ActionRecordReceipt, false},
		{"desconocido", auth.ActionRecordConsumption, false},
		{"", auth.ActionApproveWorkOrder, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, auth.Can(tc.role, tc.action),
			"rol %q acción %q", tc.role, tc.action)
	}
}
