package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthGateway) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthGateway) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthGateway) VerifyToken(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockAuthGateway) VerifyEmail(ctx context.Context, token string) (*dto.StatusResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatusResponse), args.Error(1)
}

func (m *MockAuthGateway) StoredToken(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockAuthGateway) StoredUser(ctx context.Context) *entity.User {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entity.User)
}

func (m *MockAuthGateway) PersistUser(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockWorkspaceGateway struct {
	mock.Mock
}

func (m *MockWorkspaceGateway) GetUserWorkspace(ctx context.Context) (*dto.GetWorkspaceResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GetWorkspaceResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) UpdateCountry(ctx context.Context, country string) (*dto.WorkspaceResponse, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WorkspaceResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) UploadCompanyDocument(ctx context.Context, file dto.File) (*dto.UploadCompanyDocumentResponse, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadCompanyDocumentResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) CompleteSetup(ctx context.Context) (*dto.WorkspaceResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WorkspaceResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) UpdateSettings(ctx context.Context, settings map[string]any) (*dto.WorkspaceResponse, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WorkspaceResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) UpdateData(ctx context.Context, req dto.UpdateWorkspaceDataRequest) (*dto.WorkspaceResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WorkspaceResponse), args.Error(1)
}

func (m *MockWorkspaceGateway) AvailableCountries(ctx context.Context) ([]entity.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Country), args.Error(1)
}

func (m *MockWorkspaceGateway) SetupProgress(ctx context.Context) (*dto.SetupProgress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SetupProgress), args.Error(1)
}

func (m *MockWorkspaceGateway) ValidateSetup(ctx context.Context) (*dto.SetupValidation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SetupValidation), args.Error(1)
}

type MockDocumentGateway struct {
	mock.Mock
}

func (m *MockDocumentGateway) Upload(ctx context.Context, req dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentResponse), args.Error(1)
}

func (m *MockDocumentGateway) List(ctx context.Context, q dto.DocumentQuery) (*dto.DocumentListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentListResponse), args.Error(1)
}

func (m *MockDocumentGateway) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentResponse), args.Error(1)
}

func (m *MockDocumentGateway) Delete(ctx context.Context, id string) (*dto.StatusResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatusResponse), args.Error(1)
}

func (m *MockDocumentGateway) Download(ctx context.Context, id string) (*dto.Blob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Blob), args.Error(1)
}

func (m *MockDocumentGateway) Preview(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockAnalysisGateway struct {
	mock.Mock
}

func (m *MockAnalysisGateway) AnalyzeDocument(ctx context.Context, req dto.AnalyzeDocumentRequest) (*dto.AnalysisResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisGateway) AnalyzeDocumentByURL(ctx context.Context, req dto.AnalyzeByURLRequest) (*dto.AnalysisResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisGateway) WorkspaceAnalyses(ctx context.Context, q dto.WorkspaceAnalysesQuery) (*dto.WorkspaceAnalysesResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WorkspaceAnalysesResponse), args.Error(1)
}

func (m *MockAnalysisGateway) GetAnalysis(ctx context.Context, id string) (*entity.DocumentAnalysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisGateway) Insights(ctx context.Context, id, focus string) (*entity.AnalysisInsights, error) {
	args := m.Called(ctx, id, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AnalysisInsights), args.Error(1)
}

func (m *MockAnalysisGateway) Technical(ctx context.Context, id, question string) (*entity.TechnicalAnalysis, error) {
	args := m.Called(ctx, id, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TechnicalAnalysis), args.Error(1)
}

func (m *MockAnalysisGateway) Compare(ctx context.Context, req dto.CompareRequest) (*entity.Comparison, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comparison), args.Error(1)
}

func (m *MockAnalysisGateway) UploadAndCompare(ctx context.Context, req dto.UploadAndCompareRequest) (*entity.Comparison, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comparison), args.Error(1)
}

type MockAgentGateway struct {
	mock.Mock
}

func (m *MockAgentGateway) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatResponse), args.Error(1)
}

func (m *MockAgentGateway) ChatWithDocument(ctx context.Context, analysisID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	args := m.Called(ctx, analysisID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatResponse), args.Error(1)
}

func (m *MockAgentGateway) DocumentInsights(ctx context.Context, analysisID string) (*dto.DocumentInsightsResponse, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentInsightsResponse), args.Error(1)
}

func (m *MockAgentGateway) ComparisonInsights(ctx context.Context, workspaceID string, req dto.ComparisonInsightsRequest) (*dto.ComparisonInsightsResponse, error) {
	args := m.Called(ctx, workspaceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComparisonInsightsResponse), args.Error(1)
}

func (m *MockAgentGateway) Health(ctx context.Context) (*dto.LLMHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LLMHealth), args.Error(1)
}
