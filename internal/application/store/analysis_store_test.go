package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports/mocks"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

func analysis(id, status string) entity.DocumentAnalysis {
	return entity.DocumentAnalysis{ID: id, DocumentID: "doc_" + id, DocumentName: id + ".pdf", Status: status, WorkspaceID: "ws_1"}
}

func analysisIDs(as []entity.DocumentAnalysis) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestAnalysisStore_PaginaUnoReemplazaLasDemasAcumulan(t *testing.T) {
	gw := new(mocks.MockAnalysisGateway)
	s := NewAnalysisStore(gw, nil, logger.Nop())
	page := func(n int, ids ...string) {
		var as []entity.DocumentAnalysis
		for _, id := range ids {
			as = append(as, analysis(id, entity.AnalysisCompleted))
		}
		gw.On("WorkspaceAnalyses", mock.Anything, dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1", Page: n}).
			Return(&dto.WorkspaceAnalysesResponse{Success: true, Analyses: as, Pagination: &dto.AnalysisPagination{CurrentPage: max(n, 1)}}, nil)
	}
	page(0, "x")
	page(1, "a", "b")
	page(2, "c", "b")

	require.NoError(t, s.FetchWorkspace(t.Context(), dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1"}))
	assert.Equal(t, []string{"x"}, analysisIDs(s.Analyses()))

	require.NoError(t, s.FetchWorkspace(t.Context(), dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1", Page: 1}))
	assert.Equal(t, []string{"a", "b"}, analysisIDs(s.Analyses()))

	require.NoError(t, s.FetchWorkspace(t.Context(), dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1", Page: 2}))
	assert.Equal(t, []string{"a", "b", "c"}, analysisIDs(s.Analyses()))
	assert.Equal(t, 2, s.Pagination().CurrentPage)
	assert.Equal(t, "c", s.Last().ID)
}

func TestAnalysisStore_AnalyzeYAnalyzeByURL(t *testing.T) {
	gw := new(mocks.MockAnalysisGateway)
	var applied []*dto.AnalysisWorkspace
	s := NewAnalysisStore(gw, func(w *dto.AnalysisWorkspace) { applied = append(applied, w) }, logger.Nop())
	a1 := analysis("a1", entity.AnalysisProcessing)
	a2 := analysis("a2", entity.AnalysisCompleted)
	gw.On("AnalyzeDocument", mock.Anything, mock.Anything).Return(&dto.AnalysisResponse{Success: true, Analysis: &a1}, nil)
	gw.On("AnalyzeDocumentByURL", mock.Anything, mock.Anything).Return(&dto.AnalysisResponse{
		Success: true, Analysis: &a2, Workspace: &dto.AnalysisWorkspace{ID: "ws_1"},
	}, nil)

	_, err := s.Analyze(t.Context(), dto.AnalyzeDocumentRequest{WorkspaceID: "ws_1"})
	require.NoError(t, err)
	_, err = s.AnalyzeByURL(t.Context(), dto.AnalyzeByURLRequest{WorkspaceID: "ws_1", DocumentURL: "https://files/a2.pdf"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a2", "a1"}, analysisIDs(s.Analyses()))
	assert.Equal(t, "a2", s.Current().ID)
	require.Len(t, applied, 1)
	assert.Equal(t, "ws_1", applied[0].ID)
	assert.Equal(t, []string{"a1"}, analysisIDs(s.Processing()))
	assert.Equal(t, []string{"a2"}, analysisIDs(s.Completed()))
	assert.False(t, s.IsAnalyzing())
}

func TestAnalysisStore_ErroresSeRegistranSinAviso(t *testing.T) {
	gw := new(mocks.MockAnalysisGateway)
	s := NewAnalysisStore(gw, nil, logger.Nop())
	gw.On("AnalyzeDocument", mock.Anything, mock.Anything).Return(&dto.AnalysisResponse{Success: false, Message: "Workspace sin configurar"}, nil)
	gw.On("GetAnalysis", mock.Anything, "nope").Return(nil, apiErr(404, "Error al obtener el análisis"))

	_, err := s.Analyze(t.Context(), dto.AnalyzeDocumentRequest{})
	require.Error(t, err)
	assert.Equal(t, "Workspace sin configurar", s.ErrorMessage())

	_, err = s.FetchByID(t.Context(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Error al obtener el análisis", s.ErrorMessage())
	assert.Empty(t, s.Analyses())
}

func TestAnalysisStore_FetchByIDInsightsTecnicoYComparacion(t *testing.T) {
	gw := new(mocks.MockAnalysisGateway)
	s := NewAnalysisStore(gw, nil, logger.Nop())
	a := analysis("a", entity.AnalysisProcessing)
	done := analysis("a", entity.AnalysisCompleted)
	gw.On("AnalyzeDocument", mock.Anything, mock.Anything).Return(&dto.AnalysisResponse{Success: true, Analysis: &a}, nil)
	gw.On("GetAnalysis", mock.Anything, "a").Return(&done, nil)
	gw.On("Insights", mock.Anything, "a", "legal").Return(&entity.AnalysisInsights{ID: "a", Focus: "legal"}, nil)
	gw.On("Technical", mock.Anything, "a", "¿plazo?").Return(&entity.TechnicalAnalysis{ID: "a"}, nil)
	cmp := &entity.Comparison{ComparisonID: "cmp_1", Documents: []entity.DocumentAnalysis{analysis("n1", entity.AnalysisCompleted), analysis("n2", entity.AnalysisCompleted)}}
	gw.On("Compare", mock.Anything, mock.Anything).Return(&entity.Comparison{ComparisonID: "cmp_0"}, nil)
	gw.On("UploadAndCompare", mock.Anything, mock.Anything).Return(cmp, nil)

	_, err := s.Analyze(t.Context(), dto.AnalyzeDocumentRequest{})
	require.NoError(t, err)
	_, err = s.FetchByID(t.Context(), "a")
	require.NoError(t, err)
	assert.Equal(t, entity.AnalysisCompleted, s.Analyses()[0].Status)

	_, err = s.FetchInsights(t.Context(), "a", "legal")
	require.NoError(t, err)
	assert.Equal(t, "legal", s.Insights().Focus)
	_, err = s.FetchTechnical(t.Context(), "a", "¿plazo?")
	require.NoError(t, err)
	assert.NotNil(t, s.Technical())

	_, err = s.Compare(t.Context(), dto.CompareRequest{DocumentIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "cmp_0", s.LastComparison().ComparisonID)

	_, err = s.UploadAndCompare(t.Context(), dto.UploadAndCompareRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "a"}, analysisIDs(s.Analyses()))
	assert.False(t, s.IsComparing())

	s.ClearCurrent()
	assert.Nil(t, s.Current())
	assert.Nil(t, s.LastComparison())
	s.Reset()
	assert.Empty(t, s.Analyses())
}

func TestAnalysisStore_HandleAnalysisResponse(t *testing.T) {
	s := NewAnalysisStore(new(mocks.MockAnalysisGateway), nil, logger.Nop())
	src := analysis("", entity.AnalysisProcessing)
	src.AnalysisDate = fixedT

	assert.Nil(t, s.HandleAnalysisResponse(&dto.AnalysisResponse{Success: false}))

	a := s.HandleAnalysisResponse(&dto.AnalysisResponse{
		Success: true, AnalysisID: "an_9", Analysis: &src, Workspace: &dto.AnalysisWorkspace{ID: "ws_7"},
	})
	require.NotNil(t, a)
	assert.Equal(t, "an_9", a.ID)
	assert.Equal(t, entity.AnalysisCompleted, a.Status)
	assert.Equal(t, "ws_7", a.WorkspaceID)
	assert.Equal(t, fixedT, a.CreatedAt)

	// una segunda respuesta con el mismo id reemplaza, no duplica
	s.HandleAnalysisResponse(&dto.AnalysisResponse{Success: true, AnalysisID: "an_9", Analysis: &src})
	assert.Len(t, s.Analyses(), 1)
	assert.Equal(t, "an_9", s.Current().ID)

	s.UpdateLocalStatus("an_9", entity.AnalysisFailed)
	assert.Len(t, s.Failed(), 1)
	assert.Equal(t, entity.AnalysisFailed, s.Current().Status)
	s.RemoveLocal("an_9")
	assert.Empty(t, s.Analyses())
	assert.Nil(t, s.Current())
}

func TestStatusConfig(t *testing.T) {
	cases := map[string]dto.StatusConfig{
		entity.AnalysisCompleted:  {Color: "green", Label: "Completado"},
		entity.AnalysisProcessing: {Color: "blue", Label: "Procesando"},
		entity.AnalysisFailed:     {Color: "red", Label: "Error"},
		"otro":                    {Color: "gray", Label: "Desconocido"},
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusConfig(status), status)
	}
}
