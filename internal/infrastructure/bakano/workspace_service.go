package bakano

import (
	"context"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.WorkspaceGateway = (*WorkspaceService)(nil)

const workspaceEndpoint = "workspace"

// WorkspaceService operaciones sobre el workspace del usuario autenticado.
type WorkspaceService struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewWorkspaceService(api *apiclient.Client, log *logger.Logger) *WorkspaceService {
	return &WorkspaceService{api: api, log: log.Named("workspace_service")}
}

func (s *WorkspaceService) GetUserWorkspace(ctx context.Context) (*dto.GetWorkspaceResponse, error) {
	var out dto.GetWorkspaceResponse
	if err := s.api.Get(ctx, workspaceEndpoint+"/my-workspace", nil, &out); err != nil {
		return nil, upstream(err, "Error al obtener el workspace")
	}
	return &out, nil
}

func (s *WorkspaceService) UpdateCountry(ctx context.Context, country string) (*dto.WorkspaceResponse, error) {
	var out dto.WorkspaceResponse
	if err := s.api.Put(ctx, workspaceEndpoint+"/country", dto.UpdateCountryRequest{Country: country}, &out); err != nil {
		return nil, upstream(err, "Error al actualizar el país del workspace")
	}
	return &out, nil
}

// UploadCompanyDocument sube el documento legal de la empresa (campo "file").
func (s *WorkspaceService) UploadCompanyDocument(ctx context.Context, file dto.File) (*dto.UploadCompanyDocumentResponse, error) {
	var out dto.UploadCompanyDocumentResponse
	if err := s.api.UploadFile(ctx, workspaceEndpoint+"/upload-document", file, nil, &out); err != nil {
		return nil, upstream(err, "Error al subir el documento")
	}
	return &out, nil
}

func (s *WorkspaceService) CompleteSetup(ctx context.Context) (*dto.WorkspaceResponse, error) {
	var out dto.WorkspaceResponse
	if err := s.api.Put(ctx, workspaceEndpoint+"/complete-setup", struct{}{}, &out); err != nil {
		return nil, upstream(err, "Error al completar la configuración del workspace")
	}
	return &out, nil
}

// UpdateSettings envía solo las claves presentes en settings.
func (s *WorkspaceService) UpdateSettings(ctx context.Context, settings map[string]any) (*dto.WorkspaceResponse, error) {
	var out dto.WorkspaceResponse
	if err := s.api.Patch(ctx, workspaceEndpoint+"/settings", dto.UpdateSettingsRequest{Settings: settings}, &out); err != nil {
		return nil, upstream(err, "Error al actualizar la configuración del workspace")
	}
	return &out, nil
}

func (s *WorkspaceService) UpdateData(ctx context.Context, req dto.UpdateWorkspaceDataRequest) (*dto.WorkspaceResponse, error) {
	var out dto.WorkspaceResponse
	if err := s.api.Patch(ctx, workspaceEndpoint, req, &out); err != nil {
		return nil, upstream(err, "Error al actualizar los datos del workspace")
	}
	return &out, nil
}

func (s *WorkspaceService) AvailableCountries(ctx context.Context) ([]entity.Country, error) {
	var out dto.CountriesResponse
	if err := s.api.Get(ctx, workspaceEndpoint+"/countries", nil, &out); err != nil {
		return nil, upstream(err, "Error al obtener los países disponibles")
	}
	return out.Countries, nil
}

func (s *WorkspaceService) SetupProgress(ctx context.Context) (*dto.SetupProgress, error) {
	var out dto.SetupProgress
	if err := s.api.Get(ctx, workspaceEndpoint+"/setup-progress", nil, &out); err != nil {
		return nil, upstream(err, "Error al obtener el progreso de configuración")
	}
	return &out, nil
}

func (s *WorkspaceService) ValidateSetup(ctx context.Context) (*dto.SetupValidation, error) {
	var out dto.SetupValidation
	if err := s.api.Get(ctx, workspaceEndpoint+"/validate-setup", nil, &out); err != nil {
		return nil, upstream(err, "Error al validar la configuración del workspace")
	}
	return &out, nil
}
