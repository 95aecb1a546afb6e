package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse envoltorio mínimo {success, message} de la API remota.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// File archivo a enviar en un formulario multipart.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Size tamaño en bytes.
func (f File) Size() int64 { return int64(len(f.Content)) }

// Blob contenido binario descargado.
type Blob struct {
	ContentType string
	Content     []byte
}
