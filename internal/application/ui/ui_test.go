package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/ports"
)

func TestToast_SeOcultaTrasLaDuracion(t *testing.T) {
	toast := NewToast(30 * time.Millisecond)
	toast.Trigger("Guardado", "")

	st := toast.State()
	assert.True(t, st.Visible)
	assert.Equal(t, "Guardado", st.Message)
	assert.Equal(t, ports.NotifySuccess, st.Type)

	assert.Eventually(t, func() bool { return !toast.State().Visible }, time.Second, 5*time.Millisecond)
}

func TestToast_NuevoTriggerReprograma(t *testing.T) {
	toast := NewToast(time.Hour)
	toast.TriggerFor("primero", ports.NotifyInfo, 40*time.Millisecond)
	toast.Trigger("segundo", ports.NotifyError)

	// el temporizador del primero ya no puede ocultar al segundo
	time.Sleep(80 * time.Millisecond)
	st := toast.State()
	assert.True(t, st.Visible)
	assert.Equal(t, "segundo", st.Message)
	assert.Equal(t, ports.NotifyError, st.Type)

	toast.Stop()
	assert.False(t, toast.State().Visible)
}

func TestNewToast_DuracionPorDefecto(t *testing.T) {
	assert.Equal(t, DefaultToastDuration, NewToast(0).duration)
}

func TestDialog_ConfirmacionSimple(t *testing.T) {
	d := NewConfirmationDialog()
	ch := d.Reveal(DialogOptions{Title: "Eliminar", Message: "¿Seguro?"})
	assert.True(t, d.State().ConfirmationMet)

	require.True(t, d.Confirm())
	res := <-ch
	assert.True(t, res.Confirmed)
	assert.False(t, d.State().Visible)

	// el canal queda cerrado
	_, open := <-ch
	assert.False(t, open)
}

func TestDialog_TextoDeConfirmacion(t *testing.T) {
	d := NewConfirmationDialog()
	ch := d.Reveal(DialogOptions{Title: "Eliminar", ConfirmationText: "ELIMINAR"})

	assert.False(t, d.Confirm())
	require.NoError(t, d.SetInput("eliminar"))
	assert.False(t, d.Confirm())
	require.NoError(t, d.SetInput("ELIMINAR"))
	assert.True(t, d.State().ConfirmationMet)
	require.True(t, d.Confirm())
	assert.True(t, (<-ch).Confirmed)
}

func TestDialog_Seleccion(t *testing.T) {
	d := NewConfirmationDialog()
	ch := d.Reveal(DialogOptions{
		Title: "Tipo",
		Selection: &SelectionConfig{
			Label:        "Tipo de documento",
			Items:        []map[string]any{{"label": "Pliego", "value": "pliego"}, {"label": "Propuesta", "value": "propuesta"}},
			DisplayField: "label",
			ValueField:   "value",
		},
	})

	assert.False(t, d.Confirm())
	assert.ErrorIs(t, d.Select("contrato"), ErrUnknownOption)
	require.NoError(t, d.Select("propuesta"))
	require.True(t, d.Confirm())

	res := <-ch
	assert.True(t, res.Confirmed)
	assert.Equal(t, "propuesta", res.SelectedValue)
}

func TestDialog_CancelYNuevoReveal(t *testing.T) {
	d := NewConfirmationDialog()
	first := d.Reveal(DialogOptions{Title: "uno"})
	second := d.Reveal(DialogOptions{Title: "dos"})

	assert.False(t, (<-first).Confirmed, "el reveal anterior se cancela")
	assert.Equal(t, "dos", d.State().Title)

	d.Cancel()
	assert.False(t, (<-second).Confirmed)
	assert.ErrorIs(t, d.SetInput("x"), ErrDialogClosed)
	assert.False(t, d.Confirm())
}
