package auth0_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/bookwise/library-service/pkg/auth0"
)

func TestHMACValidator(t *testing.T) {
	t.Parallel()
	v, err := auth0.NewValidator(auth0.Config{Secret: "s3cret"})
	require.NoError(t, err)

	valid, err := auth0.IssueToken("s3cret", "user-1", "ada@uni.edu", time.Hour)
	require.NoError(t, err)
	foreign, err := auth0.IssueToken("other", "user-1", "ada@uni.edu", time.Hour)
	require.NoError(t, err)
	expired, err := auth0.IssueToken("s3cret", "user-1", "ada@uni.edu", -time.Hour)
	require.NoError(t, err)
	noSubject, err := auth0.IssueToken("s3cret", "", "ada@uni.edu", time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "ok", token: valid, want: "user-1"},
		{name: "wrong key", token: foreign, wantErr: true},
		{name: "expired", token: expired, wantErr: true},
		{name: "no subject", token: noSubject, wantErr: true},
		{name: "alg none", token: none, wantErr: true},
		{name: "garbage", token: "abc.def.ghi", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := v.UserID(context.Background(), tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, auth0.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewValidator_EmptySecret(t *testing.T) {
	t.Parallel()
	_, err := auth0.NewValidator(auth0.Config{})
	require.Error(t, err)
}
