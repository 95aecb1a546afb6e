package bakano

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/internal/infrastructure/mockdata"
	"github.com/bakano/bakano-web/pkg/logger"
)

func instantMock() *mockdata.DocumentService {
	return mockdata.NewDocumentService(mockdata.Options{}, logger.Nop())
}

func pdfFile(name string) dto.File {
	return dto.File{Name: name, ContentType: "application/pdf", Content: []byte("%PDF-1.4 contenido")}
}

func TestDocumentService_CRUDContraLaAPI(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewDocumentService(e.api, instantMock(), DocumentOptions{AllowMockFallback: true}, logger.Nop())
	ctx := t.Context()

	up, err := svc.Upload(ctx, dto.UploadDocumentRequest{File: pdfFile("pliego_obra.pdf"), Type: entity.DocumentPliego})
	require.NoError(t, err)
	require.NotNil(t, up.Document)
	assert.Equal(t, "pliego_obra", up.Document.Name, "el título por defecto es el nombre sin extensión")
	id := up.Document.Key()

	list, err := svc.List(ctx, dto.DocumentQuery{Type: entity.DocumentPliego})
	require.NoError(t, err)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, 1, list.TotalCount)

	desc := "versión final"
	upd, err := svc.Update(ctx, id, dto.UpdateDocumentRequest{Name: "Pliego definitivo", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Pliego definitivo", upd.Document.Name)
	assert.Equal(t, desc, upd.Document.Description)

	blob, err := svc.Download(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "contenido:Pliego definitivo", string(blob.Content))

	preview, err := svc.Preview(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(preview, "/"+id))

	del, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, del.Success)
	assert.Empty(t, e.srv.Documents)
}

func TestDocumentService_ArchivoVacio(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewDocumentService(e.api, nil, DocumentOptions{}, logger.Nop())

	_, err := svc.Upload(t.Context(), dto.UploadDocumentRequest{File: dto.File{Name: "vacio.pdf"}})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, e.srv.Calls("POST document/upload"))
}

func TestDocumentService_FallbackSoloAnteErrorDeRed(t *testing.T) {
	log, buf := bufferLogger()
	mock := instantMock()
	svc := NewDocumentService(offlineClient(t), mock, DocumentOptions{AllowMockFallback: true}, log)

	list, err := svc.List(t.Context(), dto.DocumentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalCount)
	assert.Contains(t, buf.String(), "DATOS SIMULADOS")
}

func TestDocumentService_ErrorHTTPNoSeEnmascara(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewDocumentService(e.api, instantMock(), DocumentOptions{AllowMockFallback: true}, logger.Nop())
	e.srv.Fail("GET document/workspace-documents", http.StatusBadRequest, "Filtro inválido")

	_, err := svc.List(t.Context(), dto.DocumentQuery{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, domain.StatusOf(err))
	assert.Equal(t, "Error al cargar los documentos", err.Error())
}

func TestDocumentService_SinFallbackPropagaErrorDeRed(t *testing.T) {
	svc := NewDocumentService(offlineClient(t), instantMock(), DocumentOptions{}, logger.Nop())

	_, err := svc.Delete(t.Context(), "doc_1")
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
	assert.Equal(t, "Error al eliminar el documento", err.Error())
}

func TestDocumentService_UseMockData(t *testing.T) {
	e := newEnv(t).authorized(t)
	mock := instantMock()
	svc := NewDocumentService(e.api, mock, DocumentOptions{UseMockData: true}, logger.Nop())

	_, err := svc.Upload(t.Context(), dto.UploadDocumentRequest{File: pdfFile("a.pdf"), Type: entity.DocumentOther})
	require.NoError(t, err)
	assert.Equal(t, 4, mock.Len())
	assert.Zero(t, e.srv.Calls("POST document/upload"))
}

func TestDocumentService_SinMockIgnoraOpciones(t *testing.T) {
	svc := NewDocumentService(offlineClient(t), nil, DocumentOptions{UseMockData: true, AllowMockFallback: true}, logger.Nop())

	_, err := svc.Preview(t.Context(), "doc_1")
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
}
