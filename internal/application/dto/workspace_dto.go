package dto

import "github.com/bakano/bakano-web/internal/domain/entity"

// GetWorkspaceResponse respuesta de workspace/my-workspace.
type GetWorkspaceResponse struct {
	Success            bool              `json:"success"`
	Message            string            `json:"message"`
	Workspace          *entity.Workspace `json:"workspace"`
	AvailableCountries []entity.Country  `json:"availableCountries"`
}

// UpdateCountryRequest cuerpo de workspace/country.
type UpdateCountryRequest struct {
	Country string `json:"country"`
}

// LegalDocumentPaths rutas de la normativa del país seleccionado.
type LegalDocumentPaths struct {
	Constitution          string `json:"constitution"`
	ProcurementLaw        string `json:"procurementLaw"`
	ProcurementRegulation string `json:"procurementRegulation"`
}

// WorkspaceResponse respuesta de las mutaciones del workspace (país, settings, datos, setup).
type WorkspaceResponse struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	Workspace          *entity.Workspace   `json:"workspace"`
	LegalDocumentPaths *LegalDocumentPaths `json:"legalDocumentPaths,omitempty"`
}

// UploadedFileRef referencia al archivo subido.
type UploadedFileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UploadCompanyDocumentResponse respuesta de workspace/upload-document.
type UploadCompanyDocumentResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Document  UploadedFileRef   `json:"document"`
	Workspace *entity.Workspace `json:"workspace"`
}

// UpdateSettingsRequest cuerpo de workspace/settings; solo se envía lo indicado.
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings"`
}

// UpdateWorkspaceDataRequest cuerpo de PATCH workspace.
type UpdateWorkspaceDataRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// CountriesResponse respuesta de workspace/countries.
type CountriesResponse struct {
	Countries []entity.Country `json:"countries"`
}

// SetupProgress progreso informado por el servidor.
type SetupProgress struct {
	Progress int    `json:"progress"`
	NextStep string `json:"nextStep,omitempty"`
}

// SetupValidation resultado de workspace/validate-setup.
type SetupValidation struct {
	IsValid      bool     `json:"isValid"`
	MissingSteps []string `json:"missingSteps"`
	CanProceed   bool     `json:"canProceed"`
}

// WorkspaceInfo resumen del workspace para la interfaz.
type WorkspaceInfo struct {
	HasWorkspace   bool   `json:"hasWorkspace"`
	IsConfigured   bool   `json:"isConfigured"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	ServerProgress int    `json:"serverProgress"`
	NextStep       string `json:"nextStep,omitempty"`
	MemberCount    int    `json:"memberCount"`
	DocumentCount  int    `json:"documentCount"`
	AnalysisCount  int    `json:"analysisCount"`
}
