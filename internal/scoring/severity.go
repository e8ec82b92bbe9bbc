package scoring

// DICT - четыре измерения воздействия нежелательного события.
type DICT struct {
	Availability    Scale `json:"d"`
	Integrity       Scale `json:"i"`
	Confidentiality Scale `json:"c"`
	Traceability    Scale `json:"t"`
}

func (d DICT) Check() error {
	fields := []struct {
		name string
		v    Scale
	}{
		{"availability", d.Availability},
		{"integrity", d.Integrity},
		{"confidentiality", d.Confidentiality},
		{"traceability", d.Traceability},
	}
	for _, f := range fields {
		if err := f.v.Check(f.name); err != nil {
			return err
		}
	}
	return nil
}

// Severity - тяжесть как максимум из четырёх измерений DICT.
func Severity(d DICT) (Scale, error) {
	if err := d.Check(); err != nil {
		return 0, err
	}
	g := d.Availability
	for _, v := range []Scale{d.Integrity, d.Confidentiality, d.Traceability} {
		if v > g {
			g = v
		}
	}
	return g, nil
}

// Capability - потенциал источника риска: среднее ресурсов, мотивации и
// навыков с округлением вверх от .5.
func Capability(resources, determination, skills Scale) (Scale, error) {
	if err := resources.Check("resources"); err != nil {
		return 0, err
	}
	if err := determination.Check("determination"); err != nil {
		return 0, err
	}
	if err := skills.Check("skills"); err != nil {
		return 0, err
	}
	mean := float64(resources+determination+skills) / 3
	return clamp(roundHalfUp(mean)), nil
}
