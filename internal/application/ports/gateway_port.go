package ports

import (
	"context"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

// AuthGateway autenticación y persistencia de la sesión en el almacenamiento del cliente.
type AuthGateway interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	// Logout solo limpia el almacenamiento local; no llama a la API.
	Logout(ctx context.Context) error
	// VerifyToken nunca falla: ante cualquier error limpia el almacenamiento y devuelve false.
	VerifyToken(ctx context.Context) bool
	VerifyEmail(ctx context.Context, token string) (*dto.StatusResponse, error)
	StoredToken(ctx context.Context) string
	StoredUser(ctx context.Context) *entity.User
	PersistUser(ctx context.Context, user *entity.User) error
}

// WorkspaceGateway operaciones sobre el workspace del usuario.
type WorkspaceGateway interface {
	GetUserWorkspace(ctx context.Context) (*dto.GetWorkspaceResponse, error)
	UpdateCountry(ctx context.Context, country string) (*dto.WorkspaceResponse, error)
	UploadCompanyDocument(ctx context.Context, file dto.File) (*dto.UploadCompanyDocumentResponse, error)
	CompleteSetup(ctx context.Context) (*dto.WorkspaceResponse, error)
	UpdateSettings(ctx context.Context, settings map[string]any) (*dto.WorkspaceResponse, error)
	UpdateData(ctx context.Context, req dto.UpdateWorkspaceDataRequest) (*dto.WorkspaceResponse, error)
	AvailableCountries(ctx context.Context) ([]entity.Country, error)
	SetupProgress(ctx context.Context) (*dto.SetupProgress, error)
	ValidateSetup(ctx context.Context) (*dto.SetupValidation, error)
}

// DocumentGateway contrato común del servicio remoto de documentos y de la fuente simulada.
type DocumentGateway interface {
	Upload(ctx context.Context, req dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, q dto.DocumentQuery) (*dto.DocumentListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id string) (*dto.StatusResponse, error)
	Download(ctx context.Context, id string) (*dto.Blob, error)
	Preview(ctx context.Context, id string) (string, error)
}

// AnalysisGateway análisis y comparación de documentos.
type AnalysisGateway interface {
	AnalyzeDocument(ctx context.Context, req dto.AnalyzeDocumentRequest) (*dto.AnalysisResponse, error)
	AnalyzeDocumentByURL(ctx context.Context, req dto.AnalyzeByURLRequest) (*dto.AnalysisResponse, error)
	WorkspaceAnalyses(ctx context.Context, q dto.WorkspaceAnalysesQuery) (*dto.WorkspaceAnalysesResponse, error)
	GetAnalysis(ctx context.Context, id string) (*entity.DocumentAnalysis, error)
	Insights(ctx context.Context, id, focus string) (*entity.AnalysisInsights, error)
	Technical(ctx context.Context, id, question string) (*entity.TechnicalAnalysis, error)
	Compare(ctx context.Context, req dto.CompareRequest) (*entity.Comparison, error)
	UploadAndCompare(ctx context.Context, req dto.UploadAndCompareRequest) (*entity.Comparison, error)
}
