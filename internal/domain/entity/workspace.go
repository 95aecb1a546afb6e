package entity

import "time"

// Roles de un miembro del workspace.
const (
	MemberOwner   = "owner"
	MemberAdmin   = "admin"
	MemberAnalyst = "analyst"
	MemberViewer  = "viewer"
)

// Estados del workspace.
const (
	WorkspaceActive   = "active"
	WorkspacePaused   = "paused"
	WorkspaceArchived = "archived"
)

// SetupSteps número de comprobaciones que forman el progreso de configuración.
const SetupSteps = 4

// Workspace contenedor de configuración de una empresa (país, documentos legales, análisis).
type Workspace struct {
	ID                string                 `json:"_id"`
	Name              string                 `json:"name"`
	CompanyID         string                 `json:"companyId"`
	OwnerID           string                 `json:"ownerId"`
	Status            string                 `json:"status"` // active, paused, archived
	IsFullyConfigured bool                   `json:"isFullyConfigured"`
	Members           []WorkspaceMember      `json:"members"`
	Settings          WorkspaceSettings      `json:"settings"`
	Usage             WorkspaceUsage         `json:"usage"`
	Notifications     WorkspaceNotifications `json:"notifications"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	DeletedAt         *time.Time             `json:"deletedAt,omitempty"`
}

// WorkspaceMember usuario con rol dentro del workspace.
type WorkspaceMember struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// WorkspaceUsage contadores de uso.
type WorkspaceUsage struct {
	DocumentCount int `json:"documentCount"`
	AnalysisCount int `json:"analysisCount"`
}

// WorkspaceNotifications configuración de notificaciones.
type WorkspaceNotifications struct {
	WebhookURL string `json:"webhookUrl,omitempty"`
}

// CountryRef país seleccionado en la configuración.
type CountryRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Country país disponible en el catálogo.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Key  string `json:"key"`
}

// WorkspaceSettings configuración del workspace.
type WorkspaceSettings struct {
	Country        CountryRef          `json:"country"`
	Documents      []WorkspaceDocument `json:"documents,omitempty"`
	LegalDocuments LegalDocuments      `json:"legalDocuments"`
	AnalysisConfig *AnalysisConfig     `json:"analysisConfig,omitempty"`
	NLPSettings    NLPSettings         `json:"nlpSettings"`
}

// WorkspaceDocument documento asociado a la configuración.
type WorkspaceDocument struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OriginalName  string    `json:"originalName"`
	Type          string    `json:"type"`
	URL           string    `json:"url"`
	Description   string    `json:"description"`
	ExtractedText string    `json:"extractedText"`
	UploadedAt    time.Time `json:"uploadedAt"`
	UploadedBy    string    `json:"uploadedBy"`
}

// LegalDocuments referencias a la normativa del país y al documento de la empresa.
type LegalDocuments struct {
	Constitution          string           `json:"constitution,omitempty"`
	ProcurementLaw        string           `json:"procurementLaw,omitempty"`
	ProcurementRegulation string           `json:"procurementRegulation,omitempty"`
	LaborCode             string           `json:"laborCode,omitempty"`
	Authority             string           `json:"authority,omitempty"`
	CompanyDocument       *CompanyDocument `json:"companyDocument,omitempty"`
}

// CompanyDocument documento legal de la empresa subido durante la configuración.
type CompanyDocument struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// AnalysisConfig umbrales y pesos del análisis.
type AnalysisConfig struct {
	RiskThresholds struct {
		Legal     float64 `json:"legal"`
		Technical float64 `json:"technical"`
		Financial float64 `json:"financial"`
	} `json:"riskThresholds"`
	ScoringWeights struct {
		Compliance   float64 `json:"compliance"`
		Risk         float64 `json:"risk"`
		Completeness float64 `json:"completeness"`
	} `json:"scoringWeights"`
}

// NLPSettings idioma y reglas de extracción.
type NLPSettings struct {
	Language        string   `json:"language"` // es, en
	ExtractionRules []string `json:"extractionRules"`
}

// SetupChecks número de pasos de configuración cumplidos (0..SetupSteps).
// Es independiente del progreso que informe el servidor.
func (w *Workspace) SetupChecks() int {
	if w == nil {
		return 0
	}
	n := 0
	if w.Settings.Country.Code != "" {
		n++
	}
	if w.Settings.LegalDocuments.CompanyDocument != nil {
		n++
	}
	if w.Settings.AnalysisConfig != nil {
		n++
	}
	if w.IsFullyConfigured {
		n++
	}
	return n
}

// SetupProgressPercentage porcentaje derivado de SetupChecks, redondeado.
func (w *Workspace) SetupProgressPercentage() int {
	return (w.SetupChecks()*100 + SetupSteps/2) / SetupSteps
}

// HasRole indica si algún miembro tiene alguno de los roles dados.
func (w *Workspace) HasRole(roles ...string) bool {
	if w == nil {
		return false
	}
	for _, m := range w.Members {
		for _, r := range roles {
			if m.Role == r {
				return true
			}
		}
	}
	return false
}
