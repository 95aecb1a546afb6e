package bakano

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/pkg/logger"
)

func TestWorkspaceService_FlujoDeConfiguracion(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewWorkspaceService(e.api, logger.Nop())
	ctx := t.Context()

	got, err := svc.GetUserWorkspace(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.Workspace)
	assert.Equal(t, "ws_1", got.Workspace.ID)
	assert.Len(t, got.AvailableCountries, 3)

	v, err := svc.ValidateSetup(ctx)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.False(t, v.CanProceed)

	upd, err := svc.UpdateCountry(ctx, "EC")
	require.NoError(t, err)
	assert.Equal(t, "Ecuador", upd.Workspace.Settings.Country.Name)
	require.NotNil(t, upd.LegalDocumentPaths)
	assert.Contains(t, upd.LegalDocumentPaths.Constitution, "ecuador")

	doc, err := svc.UploadCompanyDocument(ctx, dto.File{Name: "ruc.pdf", ContentType: "application/pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "ruc.pdf", doc.Document.Name)

	done, err := svc.CompleteSetup(ctx)
	require.NoError(t, err)
	assert.True(t, done.Workspace.IsFullyConfigured)
	assert.Equal(t, 100, done.Workspace.SetupProgressPercentage())

	p, err := svc.SetupProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Progress)
	assert.Empty(t, p.NextStep)
}

func TestWorkspaceService_UpdateSettingsYDatos(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewWorkspaceService(e.api, logger.Nop())
	ctx := t.Context()

	out, err := svc.UpdateSettings(ctx, map[string]any{
		"nlpSettings": map[string]any{"language": "en", "extractionRules": []string{"montos"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "en", out.Workspace.Settings.NLPSettings.Language)

	name := "Andina S.A."
	out, err = svc.UpdateData(ctx, dto.UpdateWorkspaceDataRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, out.Workspace.Name)
}

func TestWorkspaceService_ConservaMensajeDeLaAPI(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewWorkspaceService(e.api, logger.Nop())

	_, err := svc.UpdateCountry(t.Context(), "XX")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, domain.StatusOf(err))
	assert.Equal(t, "País no soportado", err.Error())

	e.srv.Fail("GET workspace/countries", http.StatusServiceUnavailable, "Mantenimiento")
	_, err = svc.AvailableCountries(t.Context())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, domain.StatusOf(err))
	assert.Equal(t, "Mantenimiento", err.Error())
}

func TestWorkspaceService_SinToken(t *testing.T) {
	e := newEnv(t)
	svc := NewWorkspaceService(e.api, logger.Nop())

	_, err := svc.GetUserWorkspace(t.Context())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, domain.StatusOf(err))
}
