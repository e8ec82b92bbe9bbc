package models

// All перечисляет модели для AutoMigrate.
func All() []any {
	return []any{
		&Analysis{},
		&Mission{},
		&BusinessValue{},
		&SupportingAsset{},
		&RedoutedEvent{},
		&BaselineDomain{},
		&RiskSource{},
		&TargetedObjective{},
		&SourceObjectivePair{},
		&Stakeholder{},
		&StrategicScenario{},
		&OperationalScenario{},
		&ExistingMeasure{},
		&TreatmentMeasure{},
		&RiskAcceptance{},
		&AuditLog{},
	}
}
