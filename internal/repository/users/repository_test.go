package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation code",
			err:  &pq.Error{Code: "23505", Constraint: "users_external_id_key"},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "foreign key violation",
			err:  &pq.Error{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
