package contract

// ValidationReport is the complete outcome of both validation stages for
// one submitted document. An empty report means the package is ingestible.
type ValidationReport struct {
	Structural []Violation     `json:"structural"`
	Rules      []RuleViolation `json:"rules"`
}

func (r *ValidationReport) Valid() bool {
	return len(r.Structural) == 0 && len(r.Rules) == 0
}

// Validate runs the structural and business-rule validators in order.
// Business rules only run on a structurally valid document; the returned
// package is non-nil exactly when the structural stage passed. Callers must
// check report.Valid() before transforming.
func Validate(raw []byte) (*ExamPackage, *ValidationReport) {
	report := &ValidationReport{}

	pkg, structural := ValidateDocument(raw)
	if len(structural) > 0 {
		report.Structural = structural
		return nil, report
	}

	report.Rules = ValidateRules(pkg)
	return pkg, report
}
