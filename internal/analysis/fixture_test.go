package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ebios-rm/internal/catalog"
	"ebios-rm/internal/models"
	"ebios-rm/internal/scoring"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return Options{Matrix: scoring.DefaultMatrix, Mitigation: scoring.DefaultMitigation, Catalog: cat}
}

// hospital - небольшое, но полное исследование ИС больницы.
func hospital() Records {
	return Records{
		W1: Workshop1{
			Missions: []models.Mission{
				{Code: "M1", Name: "Soins aux patients", Criticality: 4},
			},
			BusinessValues: []models.BusinessValue{
				{Code: "VM1", Name: "Dossier patient", Availability: 3, Integrity: 4, Confidentiality: 4, Traceability: 3},
				{Code: "VM2", Name: "Prise de rendez-vous", Availability: 3, Integrity: 2, Confidentiality: 2, Traceability: 1},
			},
			Assets: []models.SupportingAsset{
				{Code: "BS1", Name: "SIH", BusinessValues: []string{"VM1"}},
				{Code: "BS2", Name: "Portail web", BusinessValues: []string{"VM2"}},
			},
			Events: []models.RedoutedEvent{
				{Code: "ER1", Name: "Fuite de dossiers", BusinessValue: "VM1", Assets: []string{"BS1"},
					Availability: 1, Integrity: 2, Confidentiality: 4, Traceability: 2},
				{Code: "ER2", Name: "Indisponibilité du portail", BusinessValue: "VM2", Assets: []string{"BS2"},
					Availability: 3, Integrity: 1, Confidentiality: 1, Traceability: 1},
			},
			Baseline: []models.BaselineDomain{
				{Domain: "Gouvernance", Score: 75},
				{Domain: "Sauvegarde", Score: 50},
				{Domain: "Contrôle d'accès", Score: 85},
			},
		},
		W2: Workshop2{
			Sources: []models.RiskSource{
				{Code: "SR1", Name: "Cybercriminels", Category: "organized_crime", Resources: 3, Determination: 4, Skills: 3},
				{Code: "SR2", Name: "Hacktivistes", Category: "hacktivist", Resources: 2, Determination: 3, Skills: 2},
				{Code: "SR3", Name: "Employé mécontent", Category: "insider", Resources: 1, Determination: 2, Skills: 2},
			},
			Objectives: []models.TargetedObjective{
				{Code: "OV1", Name: "Rançonnage", Impact: 4},
				{Code: "OV2", Name: "Défiguration", Impact: 2},
			},
			Pairs: []models.SourceObjectivePair{
				{SourceCode: "SR1", ObjectiveCode: "OV1"},
				{SourceCode: "SR2", ObjectiveCode: "OV2"},
				{SourceCode: "SR1", ObjectiveCode: "OV2"},
			},
		},
		W3: Workshop3{
			Stakeholders: []models.Stakeholder{
				{Code: "PP1", Name: "Infogérant", Dependency: 4, Penetration: 4, Maturity: 2, Trust: 2},
				{Code: "PP2", Name: "Éditeur", Dependency: 2, Penetration: 2, Maturity: 3, Trust: 3},
			},
			Scenarios: []models.StrategicScenario{
				{Code: "SS1", Name: "Rançongiciel via l'infogérant", SourceCode: "SR1", ObjectiveCode: "OV1",
					Events: []string{"ER1"}, Stakeholders: []string{"PP1"}, Gravity: 4, Likelihood: 3},
				{Code: "SS2", Name: "Défiguration du portail", SourceCode: "SR2", ObjectiveCode: "OV2",
					Events: []string{"ER2"}, Gravity: 3, Likelihood: 2},
			},
		},
		W4: Workshop4{
			Scenarios: []models.OperationalScenario{
				{Code: "SO1", Name: "Hameçonnage puis chiffrement", StrategicCode: "SS1", Steps: []models.AttackStep{
					{Code: "AE1", Action: "Hameçonnage d'un administrateur", Technique: "T1566", Difficulty: 1, Detectability: 2},
					{Code: "AE2", Action: "Chiffrement des serveurs", Technique: "T1486", Difficulty: 2, Detectability: 3},
				}},
			},
			Existing: []models.ExistingMeasure{
				{Code: "ME1", Name: "Filtrage de la messagerie", Kind: "preventive", Efficacy: 0.6, Covers: []string{"AE1"}},
			},
		},
		W5: Workshop5{
			Measures: []models.TreatmentMeasure{
				{Code: "M1", Name: "Sauvegardes hors ligne", Strategy: scoring.StrategyReduce, Cost: 20000, DelayDays: 60,
					Scenarios: []string{"SO1"}, CatalogRef: "A.8.13", Efficacy: ptr(0.5)},
				{Code: "M2", Name: "Assurance cyber", Strategy: scoring.StrategyTransfer, Cost: 15000, DelayDays: 120,
					Scenarios: []string{"SS2"}},
				{Code: "M3", Name: "Filtrage WAF", Strategy: "atténuation", Cost: 5000, DelayDays: 200,
					Scenarios: []string{"SS2"}},
			},
			Acceptances: []models.RiskAcceptance{
				{Scenario: "SS2", Acceptor: "Directeur général", Justification: "Risque résiduel faible après WAF",
					AcceptedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)},
			},
		},
	}
}

func ptr[T any](v T) *T { return &v }

// clone копирует записи целиком через JSON.
func clone(t *testing.T, rec Records) Records {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var out Records
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
