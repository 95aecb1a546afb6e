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

func TestAnalysisService_AnalizarYConsultar(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAnalysisService(e.api, logger.Nop())
	ctx := t.Context()

	res, err := svc.AnalyzeDocument(ctx, dto.AnalyzeDocumentRequest{
		WorkspaceID: "ws_1", DocumentType: "pliego", File: pdfFile("pliego.pdf"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, res.Analysis.ID, res.AnalysisID)
	assert.Equal(t, "pliego", res.Analysis.DocumentType)

	_, err = svc.AnalyzeDocumentByURL(ctx, dto.AnalyzeByURLRequest{
		WorkspaceID: "ws_1", DocumentType: "propuesta",
		DocumentURL: "https://files.bakano.test/p.pdf", DocumentName: "p.pdf",
	})
	require.NoError(t, err)

	page, err := svc.WorkspaceAnalyses(ctx, dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Analyses, 1)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 2, page.Pagination.TotalCount)
	assert.True(t, page.Pagination.HasNextPage)

	filtered, err := svc.WorkspaceAnalyses(ctx, dto.WorkspaceAnalysesQuery{WorkspaceID: "ws_1", DocumentType: "pliego"})
	require.NoError(t, err)
	assert.Len(t, filtered.Analyses, 1)

	a, err := svc.GetAnalysis(ctx, res.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, "pliego.pdf", a.DocumentName)

	ins, err := svc.Insights(ctx, res.AnalysisID, "legal")
	require.NoError(t, err)
	assert.Equal(t, "legal", ins.Focus)

	tech, err := svc.Technical(ctx, res.AnalysisID, "¿Plazo?")
	require.NoError(t, err)
	assert.Equal(t, "Respuesta a: ¿Plazo?", tech.TechnicalAnalysis)
}

func TestAnalysisService_MensajesAmigables(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAnalysisService(e.api, logger.Nop())

	_, err := svc.GetAnalysis(t.Context(), "no-existe")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, domain.StatusOf(err))
	assert.Equal(t, "Error al obtener el análisis", err.Error())
}

func TestAnalysisService_Validaciones(t *testing.T) {
	svc := NewAnalysisService(offlineClient(t), logger.Nop())
	ctx := t.Context()

	_, err := svc.WorkspaceAnalyses(ctx, dto.WorkspaceAnalysesQuery{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.AnalyzeDocument(ctx, dto.AnalyzeDocumentRequest{WorkspaceID: "ws_1", File: dto.File{Name: "x.pdf"}})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Compare(ctx, dto.CompareRequest{WorkspaceID: "ws_1", DocumentIDs: []string{"a"}})
	require.Error(t, err)
	assert.Equal(t, "Selecciona al menos dos documentos para comparar", err.Error())

	_, err = svc.UploadAndCompare(ctx, dto.UploadAndCompareRequest{Files: []dto.File{pdfFile("a.pdf"), {Name: "b.pdf"}}})
	require.Error(t, err)
	assert.Equal(t, "El archivo b.pdf está vacío", err.Error())
}

func TestAnalysisService_Comparar(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAnalysisService(e.api, logger.Nop())
	ctx := t.Context()

	cmp, err := svc.Compare(ctx, dto.CompareRequest{WorkspaceID: "ws_1", DocumentIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, cmp.Ranking, 2)
	assert.Equal(t, "a", cmp.FinalRecommendation.RecommendedDocument)

	cmp, err = svc.UploadAndCompare(ctx, dto.UploadAndCompareRequest{
		WorkspaceID: "ws_1", DocumentType: "propuesta",
		Files: []dto.File{pdfFile("p1.pdf"), pdfFile("p2.pdf"), pdfFile("p3.pdf")},
	})
	require.NoError(t, err)
	assert.Len(t, cmp.Ranking, 3)
}
