package identity

import (
	"errors"
	"testing"

	"spabook/models"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		primary   *models.Profile
		secondary *models.Profile
		want      string
	}{
		{"both nil", nil, nil, GuestName},
		{"primary full name wins", &models.Profile{FullName: "Ayu Lestari", Name: "ayu"}, &models.Profile{DisplayName: "AL"}, "Ayu Lestari"},
		{"primary name", &models.Profile{Name: " ayu "}, &models.Profile{DisplayName: "AL"}, "ayu"},
		{"secondary display name", &models.Profile{FullName: "   "}, &models.Profile{DisplayName: "AL", Name: "x"}, "AL"},
		{"secondary name", nil, &models.Profile{Name: "ketut"}, "ketut"},
		{"secondary email", &models.Profile{}, &models.Profile{Email: "k@example.com"}, "k@example.com"},
		{"all blank", &models.Profile{FullName: " ", Name: "\t"}, &models.Profile{Email: " "}, GuestName},
		{"primary email ignored", &models.Profile{Email: "p@example.com"}, nil, GuestName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.primary, tt.secondary)
			assert.Equal(t, tt.want, got.CustomerName)
			assert.Equal(t, tt.want, got.UserName)
			assert.NoError(t, Validate(got))
		})
	}
}

func TestValidateRejectsBlankName(t *testing.T) {
	err := Validate(Identity{CustomerName: "  "})

	var idErr *IdentityError
	assert.True(t, errors.As(err, &idErr))
	assert.Equal(t, "customerName missing", idErr.Message)
}
