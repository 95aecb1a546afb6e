package store

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/ports/mocks"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	pkgjwt "github.com/bakano/bakano-web/pkg/jwt"
)

var fixedT = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedT }

func recorders() (*mocks.RecordingNotifier, *mocks.RecordingNavigator) {
	return &mocks.RecordingNotifier{}, &mocks.RecordingNavigator{}
}

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := pkgjwt.Generate("store-test", "user_1", "ana@constructora.ec", "bakano-api", ttl)
	require.NoError(t, err)
	return tok
}

func testUser() *entity.User {
	return &entity.User{ID: "user_1", Name: "Ana María Pérez", Email: "ana@constructora.ec", CompanyName: "Constructora Andina", Country: "EC"}
}

func apiErr(status int, msg string) error {
	return &domain.APIError{Status: status, Message: msg}
}

func transportErr() error {
	return domain.NewTransportError(http.ErrHandlerTimeout)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
