package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestCategoryID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.CategoryID
		wantErr bool
	}{
		{
			name: "valid simple",
			id:   types.CategoryID("infra"),
		},
		{
			name: "valid with hyphens",
			id:   types.CategoryID("database-migration"),
		},
		{
			name:    "empty",
			id:      types.CategoryID(""),
			wantErr: true,
		},
		{
			name:    "uppercase",
			id:      types.CategoryID("Infra"),
			wantErr: true,
		},
		{
			name:    "underscore",
			id:      types.CategoryID("db_migration"),
			wantErr: true,
		},
		{
			name:    "trailing hyphen",
			id:      types.CategoryID("infra-"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestTeamID_Validate(t *testing.T) {
	gt.NoError(t, types.TeamID("platform-sre").Validate())
	gt.Error(t, types.TeamID("").Validate())
	gt.Error(t, types.TeamID("Platform SRE").Validate())
}
