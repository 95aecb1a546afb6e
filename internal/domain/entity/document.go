package entity

import "time"

// DocumentType tipos de documento soportados.
type DocumentType string

const (
	DocumentContract     DocumentType = "contract"
	DocumentPliego       DocumentType = "pliego"
	DocumentPropuesta    DocumentType = "propuesta"
	DocumentConstitution DocumentType = "constitution"
	DocumentOther        DocumentType = "other"
)

// DocumentTypes en orden de presentación.
var DocumentTypes = []DocumentType{
	DocumentContract, DocumentPliego, DocumentPropuesta, DocumentConstitution, DocumentOther,
}

// Valid indica si t es un tipo conocido.
func (t DocumentType) Valid() bool {
	for _, k := range DocumentTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Estados de procesamiento de un documento.
const (
	DocumentPending   = "pending"
	DocumentCompleted = "completed"
	DocumentError     = "error"
)

// Document archivo subido por el usuario. La API usa "_id" o "id" según la versión;
// ambos campos identifican al mismo documento.
type Document struct {
	ID               string            `json:"_id,omitempty"`
	AltID            string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	OriginalName     string            `json:"originalName"`
	Type             DocumentType      `json:"type"`
	Size             int64             `json:"size"`
	MimeType         string            `json:"mimeType"`
	Description      string            `json:"description,omitempty"`
	UploadedAt       time.Time         `json:"uploadedAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	WorkspaceID      string            `json:"workspaceId"`
	UploadedBy       string            `json:"uploadedBy"`
	URL              string            `json:"url"`
	ThumbnailURL     string            `json:"thumbnailUrl,omitempty"`
	HasExtractedText *bool             `json:"hasExtractedText,omitempty"`
	Status           string            `json:"status,omitempty"`
	Metadata         *DocumentMetadata `json:"metadata,omitempty"`
}

// DocumentMetadata metadatos opcionales del archivo.
type DocumentMetadata struct {
	Pages      int         `json:"pages,omitempty"`
	Duration   float64     `json:"duration,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// Dimensions tamaño en píxeles.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Key identidad del documento: _id si existe, si no id.
func (d *Document) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.AltID
}

// Matches indica si id corresponde a este documento bajo cualquiera de sus campos.
func (d *Document) Matches(id string) bool {
	if id == "" {
		return false
	}
	return d.ID == id || d.AltID == id
}
