package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ebios-rm/internal/models"
	"ebios-rm/internal/scoring"
)

const Format = "ebios-rm/analysis.v1"

// ErrDerivedMismatch - оценки в импортированном документе не совпадают с
// пересчётом его записей.
var ErrDerivedMismatch = errors.New("derived scores do not match the records")

type Metadata struct {
	Organization string    `json:"organization"`
	Scope        string    `json:"scope"`
	Owner        string    `json:"owner"`
	Sector       string    `json:"sector"`
	Version      string    `json:"version"`
	StartedAt    time.Time `json:"started_at"`
}

func MetadataOf(a models.Analysis) Metadata {
	return Metadata{
		Organization: a.Organization,
		Scope:        a.Scope,
		Owner:        a.Owner,
		Sector:       a.Sector,
		Version:      a.Version,
		StartedAt:    a.StartedAt,
	}
}

// Analysis строит новый, ещё не сохранённый анализ.
func (m Metadata) Analysis() models.Analysis {
	return models.Analysis{
		Organization: m.Organization,
		Scope:        m.Scope,
		Owner:        m.Owner,
		Sector:       m.Sector,
		Version:      m.Version,
		StartedAt:    m.StartedAt,
	}
}

// Document - самодостаточный экспорт анализа: записи пяти мастерских и
// рассчитанные по ним оценки.
type Document struct {
	Format     string    `json:"format"`
	ExportedAt time.Time `json:"exported_at"`
	Analysis   Metadata  `json:"analysis"`
	Workshops  Records   `json:"workshops"`
	Derived    *Report   `json:"derived,omitempty"`
}

func Export(a models.Analysis, rec Records, opts Options, now time.Time) (*Document, error) {
	report, err := Evaluate(rec, opts)
	if err != nil {
		return nil, err
	}
	return &Document{
		Format:     Format,
		ExportedAt: now.UTC(),
		Analysis:   MetadataOf(a),
		Workshops:  rec,
		Derived:    report,
	}, nil
}

// Import разбирает документ и пересчитывает его записи. Документ с оценками
// принимается, только если пересчёт даёт то же самое. Документу без оценок
// прикладывается свежий отчёт.
func Import(data []byte, opts Options) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, scoring.InvalidInput("document", "%v", err)
	}
	if doc.Format != Format {
		return nil, scoring.InvalidInput("document", "unsupported format %q", doc.Format)
	}

	fresh, err := Evaluate(doc.Workshops, opts)
	if err != nil {
		return nil, err
	}
	if doc.Derived != nil {
		if err := sameScores(doc.Derived, fresh); err != nil {
			return nil, err
		}
	}
	doc.Derived = fresh
	return &doc, nil
}

func sameScores(exported, fresh *Report) error {
	want, err := canonical(exported)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDerivedMismatch, err)
	}
	got, err := canonical(fresh)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return ErrDerivedMismatch
	}
	return nil
}

// canonical кодирует r с отсортированными ключами и [] вместо null, чтобы
// написанный вручную "events": [] совпадал с отсутствующим списком.
func canonical(r *Report) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(nullsAsEmpty(v))
}

// в отчёте нет необязательных объектов, поэтому null бывает только у списков
func nullsAsEmpty(v any) any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case map[string]any:
		for k, x := range t {
			t[k] = nullsAsEmpty(x)
		}
	case []any:
		for i, x := range t {
			t[i] = nullsAsEmpty(x)
		}
	}
	return v
}
