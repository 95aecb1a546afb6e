package ui

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDialogClosed la acción llegó sin un diálogo visible.
var ErrDialogClosed = errors.New("no hay un diálogo de confirmación abierto")

// ErrUnknownOption el valor elegido no está entre las opciones.
var ErrUnknownOption = errors.New("opción no disponible")

// SelectionConfig lista de opciones que el usuario debe elegir antes de confirmar.
// Cada item es un objeto; DisplayField y ValueField nombran sus campos.
type SelectionConfig struct {
	Label        string           `json:"label"`
	Items        []map[string]any `json:"items"`
	DisplayField string           `json:"displayField"`
	ValueField   string           `json:"valueField"`
}

func (c *SelectionConfig) has(value string) bool {
	for _, it := range c.Items {
		if fmt.Sprint(it[c.ValueField]) == value {
			return true
		}
	}
	return false
}

// DialogOptions contenido del diálogo. ConfirmationText, si no es vacío, debe escribirse
// literalmente para habilitar la confirmación.
type DialogOptions struct {
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	ConfirmationText string           `json:"confirmationText,omitempty"`
	Selection        *SelectionConfig `json:"selectionConfig,omitempty"`
}

// DialogResult resolución de un Reveal.
type DialogResult struct {
	Confirmed     bool   `json:"confirmed"`
	SelectedValue string `json:"selectedValue,omitempty"`
}

// DialogState lo que la vista debe mostrar.
type DialogState struct {
	Visible          bool             `json:"isVisible"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	ConfirmationText string           `json:"confirmationText,omitempty"`
	Selection        *SelectionConfig `json:"selectionConfig,omitempty"`
	UserInput        string           `json:"userInput"`
	SelectedValue    string           `json:"selectedValue,omitempty"`
	ConfirmationMet  bool             `json:"isConfirmationMet"`
}

// ConfirmationDialog diálogo modal único por navegador.
type ConfirmationDialog struct {
	mu       sync.Mutex
	visible  bool
	opts     DialogOptions
	input    string
	selected string
	pending  chan DialogResult
}

func NewConfirmationDialog() *ConfirmationDialog {
	return &ConfirmationDialog{}
}

// Reveal muestra el diálogo y devuelve un canal que recibe exactamente un resultado.
// Si había otro Reveal pendiente, se resuelve como cancelado.
func (d *ConfirmationDialog) Reveal(opts DialogOptions) <-chan DialogResult {
	ch := make(chan DialogResult, 1)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resolve(DialogResult{Confirmed: false})
	d.opts = opts
	d.input = ""
	d.selected = ""
	d.visible = true
	d.pending = ch
	return ch
}

// resolve entrega r al Reveal pendiente y cierra el diálogo. Requiere d.mu.
func (d *ConfirmationDialog) resolve(r DialogResult) {
	if d.pending != nil {
		d.pending <- r
		close(d.pending)
		d.pending = nil
	}
	d.visible = false
}

// met indica si se puede confirmar. Requiere d.mu.
func (d *ConfirmationDialog) met() bool {
	if d.opts.Selection != nil && d.selected == "" {
		return false
	}
	if d.opts.ConfirmationText == "" {
		return true
	}
	return d.input == d.opts.ConfirmationText
}

// SetInput texto escrito por el usuario.
func (d *ConfirmationDialog) SetInput(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return ErrDialogClosed
	}
	d.input = text
	return nil
}

// Select elige una opción de la lista por su valor.
func (d *ConfirmationDialog) Select(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return ErrDialogClosed
	}
	if d.opts.Selection == nil || !d.opts.Selection.has(value) {
		return ErrUnknownOption
	}
	d.selected = value
	return nil
}

// Confirm resuelve con Confirmed=true si se cumple la condición; si no, no hace nada y
// devuelve false.
func (d *ConfirmationDialog) Confirm() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible || !d.met() {
		return false
	}
	d.resolve(DialogResult{Confirmed: true, SelectedValue: d.selected})
	return true
}

// Cancel resuelve con Confirmed=false.
func (d *ConfirmationDialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resolve(DialogResult{Confirmed: false})
}

func (d *ConfirmationDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DialogState{
		Visible:          d.visible,
		Title:            d.opts.Title,
		Message:          d.opts.Message,
		ConfirmationText: d.opts.ConfirmationText,
		Selection:        d.opts.Selection,
		UserInput:        d.input,
		SelectedValue:    d.selected,
		ConfirmationMet:  d.visible && d.met(),
	}
}
