package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un análisis.
const (
	AnalysisProcessing = "processing"
	AnalysisCompleted  = "completed"
	AnalysisFailed     = "failed"
)

// DocumentAnalysis resultado del análisis de un documento.
type DocumentAnalysis struct {
	ID             string         `json:"id"`
	DocumentID     string         `json:"documentId"`
	DocumentName   string         `json:"documentName"`
	DocumentType   string         `json:"documentType"` // pliego, propuesta, contrato
	Status         string         `json:"status"`
	AIAnalysis     string         `json:"aiAnalysis"`
	AnalysisDate   time.Time      `json:"analysisDate"`
	ProcessingTime float64        `json:"processingTime"`
	RUCValidation  *RUCValidation `json:"rucValidation,omitempty"`
	WorkspaceID    string         `json:"workspaceId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// RUCValidation validación del registro tributario de la empresa oferente.
type RUCValidation struct {
	RUC            string    `json:"ruc"`
	CompanyName    string    `json:"companyName"`
	IsValid        bool      `json:"isValid"`
	CanPerformWork bool      `json:"canPerformWork"`
	BusinessType   string    `json:"businessType,omitempty"`
	ValidationDate time.Time `json:"validationDate,omitempty"`
}

// Comparison resultado de comparar varios documentos.
type Comparison struct {
	ComparisonID        string              `json:"comparisonId"`
	Documents           []DocumentAnalysis  `json:"documents"`
	Comparison          ComparisonSections  `json:"comparison"`
	Ranking             []RankingEntry      `json:"ranking"`
	FinalRecommendation FinalRecommendation `json:"finalRecommendation"`
}

// ComparisonSections comparación legal, técnica y económica.
type ComparisonSections struct {
	Legal struct {
		BestCompliance  string             `json:"bestCompliance"`
		RiskComparison  map[string]float64 `json:"riskComparison"`
		Recommendations []string           `json:"recommendations"`
	} `json:"legal"`
	Technical struct {
		MostComplete            string             `json:"mostComplete"`
		RequirementsFulfillment map[string]float64 `json:"requirementsFulfillment"`
		TechnicalRisks          []string           `json:"technicalRisks"`
	} `json:"technical"`
	Economic EconomicComparison `json:"economic"`
}

// EconomicComparison montos por documento; decimal para no perder precisión.
type EconomicComparison struct {
	MostEconomical         string                     `json:"mostEconomical"`
	BudgetComparison       map[string]decimal.Decimal `json:"budgetComparison"`
	PaymentTermsComparison map[string][]string        `json:"paymentTermsComparison"`
}

// CheapestBudget documento con el menor presupuesto (ok=false si no hay montos).
func (e EconomicComparison) CheapestBudget() (docID string, amount decimal.Decimal, ok bool) {
	for id, v := range e.BudgetComparison {
		if !ok || v.LessThan(amount) || (v.Equal(amount) && id < docID) {
			docID, amount, ok = id, v, true
		}
	}
	return docID, amount, ok
}

// RankingEntry posición de un documento en la comparación.
type RankingEntry struct {
	DocumentID   string   `json:"documentId"`
	DocumentName string   `json:"documentName"`
	TotalScore   float64  `json:"totalScore"`
	Position     int      `json:"position"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// FinalRecommendation recomendación final de la comparación.
type FinalRecommendation struct {
	RecommendedDocument string   `json:"recommendedDocument"`
	Reasons             []string `json:"reasons"`
	CriticalAlerts      []string `json:"criticalAlerts"`
}

// WorkspaceRef resumen del workspace que acompaña algunas respuestas de análisis.
type WorkspaceRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// AnalysisInsights insights focalizados (legal, técnico, económico, riesgos).
type AnalysisInsights struct {
	ID            string         `json:"id"`
	DocumentName  string         `json:"documentName"`
	DocumentType  string         `json:"documentType"`
	Focus         string         `json:"focus"`
	Analysis      string         `json:"analysis"`
	RUCValidation *RUCValidation `json:"rucValidation,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	Workspace     WorkspaceRef   `json:"workspace"`
}

// TechnicalAnalysis análisis técnico especializado.
type TechnicalAnalysis struct {
	ID                string         `json:"id"`
	DocumentName      string         `json:"documentName"`
	DocumentType      string         `json:"documentType"`
	TechnicalAnalysis string         `json:"technicalAnalysis"`
	RUCValidation     *RUCValidation `json:"rucValidation,omitempty"`
	Sections          struct {
		Legal     []string `json:"legal"`
		Technical []string `json:"technical"`
		Economic  []string `json:"economic"`
	} `json:"sections"`
	Gaps            []string     `json:"gaps"`
	Inconsistencies []string     `json:"inconsistencies"`
	Risks           []string     `json:"risks"`
	CreatedAt       time.Time    `json:"createdAt"`
	Workspace       WorkspaceRef `json:"workspace"`
}
