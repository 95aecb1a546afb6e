package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/application/ports/mocks"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

func newDocumentStore() (*DocumentStore, *mocks.MockDocumentGateway, *mocks.RecordingNotifier) {
	gw := new(mocks.MockDocumentGateway)
	notify := &mocks.RecordingNotifier{}
	s := NewDocumentStore(gw, notify, logger.Nop())
	s.now = fixedNow
	s.tick = time.Millisecond
	return s, gw, notify
}

func docs() []entity.Document {
	return []entity.Document{
		{ID: "a", OriginalName: "contrato_obra.pdf", Name: "Contrato de obra", Type: entity.DocumentContract, Size: 100, UploadedAt: fixedT.Add(-24 * time.Hour)},
		{AltID: "b", OriginalName: "pliego.pdf", Name: "Pliego técnico", Type: entity.DocumentPliego, Size: 200, UploadedAt: fixedT.Add(-10 * 24 * time.Hour)},
		{ID: "c", OriginalName: "propuesta.docx", Name: "Propuesta Económica", Type: entity.DocumentPropuesta, Size: 300, UploadedAt: fixedT},
	}
}

func loaded(t *testing.T) (*DocumentStore, *mocks.MockDocumentGateway, *mocks.RecordingNotifier) {
	t.Helper()
	s, gw, notify := newDocumentStore()
	gw.On("List", mock.Anything, mock.Anything).Return(&dto.DocumentListResponse{
		Success: true, Documents: docs(), TotalCount: 3,
	}, nil).Once()
	require.NoError(t, s.Initialize(t.Context()))
	return s, gw, notify
}

func keys(ds []entity.Document) []string {
	out := make([]string, 0, len(ds))
	for i := range ds {
		out = append(out, ds[i].Key())
	}
	return out
}

func TestDocumentStore_Initialize_UnaSolaConsulta(t *testing.T) {
	s, gw, _ := loaded(t)

	require.NoError(t, s.Initialize(t.Context()))

	gw.AssertNumberOfCalls(t, "List", 1)
	assert.Equal(t, []string{"a", "b", "c"}, keys(s.Documents()))
	assert.Equal(t, 3, s.TotalCount())
}

func TestDocumentStore_FetchReemplaza(t *testing.T) {
	s, gw, _ := loaded(t)
	q := dto.DocumentQuery{Page: 2, Limit: 1, Type: entity.DocumentPliego}
	gw.On("List", mock.Anything, q).Return(&dto.DocumentListResponse{
		Success: true, Documents: docs()[1:2], TotalCount: 1, Pagination: &dto.Pagination{Page: 2, Limit: 1, TotalPages: 1, HasPrev: true},
	}, nil)

	require.NoError(t, s.Fetch(t.Context(), q))

	assert.Equal(t, []string{"b"}, keys(s.Documents()))
	assert.Equal(t, q, s.Filters())
	require.NotNil(t, s.Pagination())
	assert.True(t, s.Pagination().HasPrev)
}

func TestDocumentStore_DeleteSelected_FallaParcial(t *testing.T) {
	s, gw, notify := loaded(t)
	gw.On("Delete", mock.Anything, "a").Return(&dto.StatusResponse{Success: true}, nil)
	gw.On("Delete", mock.Anything, "b").Return(nil, errors.New("Error al eliminar el documento"))
	gw.On("Delete", mock.Anything, "c").Return(&dto.StatusResponse{Success: true}, nil)
	s.SelectAll()
	require.Equal(t, []string{"a", "b", "c"}, s.Selected())

	err := s.DeleteSelected(t.Context())

	require.Error(t, err)
	assert.Equal(t, []string{"b"}, keys(s.Documents()))
	assert.Equal(t, 1, s.TotalCount())
	assert.Empty(t, s.Selected())
	assert.Equal(t, mocks.Notification{Message: "Error al eliminar los documentos seleccionados", Kind: ports.NotifyError}, notify.Last())
	gw.AssertNumberOfCalls(t, "Delete", 3)
	assert.False(t, s.IsLoading())
}

func TestDocumentStore_DeleteSelected_TodosOK(t *testing.T) {
	s, gw, notify := loaded(t)
	gw.On("Delete", mock.Anything, mock.Anything).Return(&dto.StatusResponse{Success: true}, nil)
	s.ToggleSelection("a")
	s.ToggleSelection("c")
	s.ToggleSelection("b")
	s.ToggleSelection("b")
	assert.False(t, s.IsSelected("b"))
	assert.Equal(t, []string{"a", "c"}, keys(s.SelectedData()))

	require.NoError(t, s.DeleteSelected(t.Context()))

	assert.Equal(t, []string{"b"}, keys(s.Documents()))
	assert.Equal(t, "Se eliminaron 2 documentos correctamente", notify.Last().Message)
}

func TestDocumentStore_DeleteSelected_SinSeleccion(t *testing.T) {
	s, gw, notify := loaded(t)

	require.NoError(t, s.DeleteSelected(t.Context()))

	gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Zero(t, notify.Count())
}

func TestDocumentStore_Seleccion_IDyAliasSonElMismoDocumento(t *testing.T) {
	s, gw, _ := newDocumentStore()
	gw.On("List", mock.Anything, mock.Anything).Return(&dto.DocumentListResponse{
		Success: true, TotalCount: 1,
		Documents: []entity.Document{{ID: "x", AltID: "y", Name: "Contrato"}},
	}, nil).Once()
	gw.On("Delete", mock.Anything, "y").Return(&dto.StatusResponse{Success: true}, nil).Once()
	require.NoError(t, s.Initialize(t.Context()))

	s.ToggleSelection("x")
	s.ToggleSelection("y")
	assert.Empty(t, s.Selected())

	s.ToggleSelection("y")
	assert.Equal(t, []string{"x"}, s.Selected())
	assert.True(t, s.IsSelected("x"))
	assert.True(t, s.IsSelected("y"))
	assert.Len(t, s.SelectedData(), 1)

	s.SelectAll()
	require.NoError(t, s.Delete(t.Context(), "y"))

	assert.Empty(t, s.Documents())
	assert.Empty(t, s.Selected())
	gw.AssertNumberOfCalls(t, "Delete", 1)
}

func TestDocumentStore_Upload(t *testing.T) {
	s, gw, notify := loaded(t)
	uploaded := &entity.Document{ID: "d", OriginalName: "acta.pdf", Type: entity.DocumentOther}
	gw.On("Upload", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(20 * time.Millisecond) }).
		Return(&dto.DocumentResponse{Success: true, Document: uploaded}, nil)

	doc, err := s.Upload(t.Context(), dto.UploadDocumentRequest{File: dto.File{Name: "acta.pdf", Content: []byte("%PDF-1.4")}})

	require.NoError(t, err)
	assert.Equal(t, "d", doc.Key())
	assert.Equal(t, []string{"d", "a", "b", "c"}, keys(s.Documents()))
	assert.Equal(t, 4, s.TotalCount())
	assert.Equal(t, 100, s.UploadProgress())
	assert.Equal(t, mocks.Notification{Message: "acta.pdf se ha subido correctamente", Kind: ports.NotifySuccess}, notify.Last())
}

func TestDocumentStore_Upload_ArchivoVacioNoLlama(t *testing.T) {
	s, gw, notify := loaded(t)

	_, err := s.Upload(t.Context(), dto.UploadDocumentRequest{File: dto.File{Name: "vacio.pdf"}})

	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "El archivo está vacío", notify.Last().Message)
	gw.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentStore_Upload_Fallida(t *testing.T) {
	s, gw, notify := loaded(t)
	gw.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("Error al subir el documento"))

	_, err := s.Upload(t.Context(), dto.UploadDocumentRequest{File: dto.File{Name: "x.pdf", Content: []byte("x")}})

	require.Error(t, err)
	assert.Zero(t, s.UploadProgress())
	assert.Len(t, s.Documents(), 3)
	assert.Equal(t, ports.NotifyError, notify.Last().Kind)
}

func TestDocumentStore_UpdateDeleteDownload(t *testing.T) {
	s, gw, notify := loaded(t)
	updated := docs()[1]
	updated.Name = "Pliego definitivo"
	gw.On("Update", mock.Anything, "b", mock.Anything).Return(&dto.DocumentResponse{Success: true, Document: &updated}, nil)
	gw.On("Delete", mock.Anything, "a").Return(&dto.StatusResponse{Success: true}, nil)
	gw.On("Download", mock.Anything, "c").Return(&dto.Blob{ContentType: "application/pdf", Content: []byte("x")}, nil)
	gw.On("Download", mock.Anything, "z").Return(nil, errors.New("No se pudo descargar el documento"))

	_, err := s.Update(t.Context(), "b", dto.UpdateDocumentRequest{Name: "Pliego definitivo"})
	require.NoError(t, err)
	assert.Equal(t, "Pliego definitivo", s.Documents()[1].Name)
	assert.Equal(t, "Los cambios se han guardado correctamente", notify.Last().Message)

	s.ToggleSelection("a")
	require.NoError(t, s.Delete(t.Context(), "a"))
	assert.Equal(t, []string{"b", "c"}, keys(s.Documents()))
	assert.Empty(t, s.Selected())
	assert.Equal(t, "contrato_obra.pdf se ha eliminado correctamente", notify.Last().Message)

	blob, name, err := s.Download(t.Context(), "c")
	require.NoError(t, err)
	assert.Equal(t, "propuesta.docx", name)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, mocks.Notification{Message: "Descargando propuesta.docx", Kind: ports.NotifyInfo}, notify.Last())

	_, _, err = s.Download(t.Context(), "z")
	require.Error(t, err)
	assert.Equal(t, "No se pudo descargar el documento", notify.Last().Message)
}

func TestDocumentStore_Derivados(t *testing.T) {
	s, _, _ := loaded(t)

	st := s.Stats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, int64(600), st.TotalSize)
	assert.Equal(t, 2, st.RecentUploads)
	assert.Equal(t, 1, st.ByType[entity.DocumentPliego])
	assert.Len(t, s.ByType()[entity.DocumentContract], 1)

	s.SetFilters(dto.DocumentQuery{Search: "ECONÓMICA"})
	assert.Equal(t, []string{"c"}, keys(s.Filtered()))
	s.SetFilters(dto.DocumentQuery{Type: entity.DocumentPliego})
	assert.Equal(t, []string{"b"}, keys(s.Filtered()))
	s.ClearFilters()
	assert.Len(t, s.Filtered(), 3)

	s.UpdateLocalStatus("b", entity.DocumentCompleted)
	assert.Equal(t, entity.DocumentCompleted, s.Documents()[1].Status)
	s.RemoveLocal("c")
	assert.Equal(t, []string{"a", "b"}, keys(s.Documents()))

	s.Reset()
	assert.Empty(t, s.Documents())
	assert.False(t, s.IsInitialized())
}
