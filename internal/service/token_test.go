package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/testutil"
)

type stubTokenManager struct {
	generated   string
	generateErr error
	payload     *model.TokenPayload
	parseErr    error
}

func (m *stubTokenManager) Generate(string) (string, error) {
	return m.generated, m.generateErr
}

func (m *stubTokenManager) Parse(string) (*model.TokenPayload, error) {
	return m.payload, m.parseErr
}

func TestToken_Issue(t *testing.T) {
	s := NewToken(&stubTokenManager{generated: "signed"}, testutil.MakeNoopLogger())

	result := s.Issue("u1")
	require.True(t, result.IsOk())
	require.Equal(t, "signed", result.Value())
}

func TestToken_IssueFailure(t *testing.T) {
	s := NewToken(&stubTokenManager{generateErr: errors.New("hmac broken")}, testutil.MakeNoopLogger())

	result := s.Issue("u1")
	require.False(t, result.IsOk())
	require.Equal(t, http.StatusInternalServerError, result.Err().StatusCode)
}

func TestToken_Verify(t *testing.T) {
	payload := &model.TokenPayload{SubjectID: "u1"}
	s := NewToken(&stubTokenManager{payload: payload}, testutil.MakeNoopLogger())

	got, verifyErr := s.Verify("valid")
	require.Nil(t, verifyErr)
	require.Same(t, payload, got)
}

func TestToken_VerifyFailures(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		parseErr error
		message  string
	}{
		{"missing token", "", nil, "token not found, authorization denied"},
		{"invalid token", "bad", model.ErrTokenInvalid, "invalid token"},
		{"expired token", "old", model.ErrTokenExpired, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewToken(&stubTokenManager{parseErr: tt.parseErr}, testutil.MakeNoopLogger())

			payload, verifyErr := s.Verify(tt.token)
			require.Nil(t, payload)
			require.NotNil(t, verifyErr)
			require.Equal(t, http.StatusUnauthorized, verifyErr.StatusCode)
			require.Equal(t, model.CodeUnauthorized, verifyErr.Code)
			require.Equal(t, tt.message, verifyErr.Message)
		})
	}
}
