// Package catalog - справочники только для чтения: категории источников
// риска, меры ISO 27001 и техники ATT&CK с рекомендуемыми мерами.
//
// Catalog строится один раз при старте (Load или Default) и больше не меняется.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultYAML []byte

// SourceCategory - вид источника риска (APT, киберпреступник, инсайдер...).
type SourceCategory struct {
	Code        string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Measure - мера из приложения A ISO 27001.
type Measure struct {
	Code   string `yaml:"code" json:"code"`
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
	Type   string `yaml:"type" json:"type"`
}

type Technique struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Tactic   string   `yaml:"tactic" json:"tactic"`
	Measures []string `yaml:"measures" json:"measures"`
}

type document struct {
	Version    string           `yaml:"version"`
	Categories []SourceCategory `yaml:"risk_source_categories"`
	Measures   []Measure        `yaml:"measures"`
	Techniques []Technique      `yaml:"techniques"`
}

type Catalog struct {
	version    string
	categories []SourceCategory
	measures   []Measure
	techniques []Technique

	categoryByCode map[string]int
	measureByCode  map[string]int
	techniqueByID  map[string]int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default возвращает встроенный справочник, разобранный при первом вызове.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultYAML)
	})
	return defaultCat, defaultErr
}

// Load читает файл справочника. Пустой путь - встроенный справочник.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		version:        doc.Version,
		categories:     doc.Categories,
		measures:       doc.Measures,
		techniques:     doc.Techniques,
		categoryByCode: make(map[string]int, len(doc.Categories)),
		measureByCode:  make(map[string]int, len(doc.Measures)),
		techniqueByID:  make(map[string]int, len(doc.Techniques)),
	}
	for i, sc := range c.categories {
		key := normalize(sc.Code)
		if key == "" {
			return nil, fmt.Errorf("catalog: risk source category %d has no code", i+1)
		}
		if _, dup := c.categoryByCode[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate risk source category %q", sc.Code)
		}
		c.categoryByCode[key] = i
	}
	for i, m := range c.measures {
		key := normalize(m.Code)
		if key == "" {
			return nil, fmt.Errorf("catalog: measure %d has no code", i+1)
		}
		if _, dup := c.measureByCode[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate measure %q", m.Code)
		}
		c.measureByCode[key] = i
	}
	for i, t := range c.techniques {
		key := normalize(t.ID)
		if key == "" {
			return nil, fmt.Errorf("catalog: technique %d has no id", i+1)
		}
		if _, dup := c.techniqueByID[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate technique %q", t.ID)
		}
		for _, m := range t.Measures {
			if _, ok := c.measureByCode[normalize(m)]; !ok {
				return nil, fmt.Errorf("catalog: technique %s recommends unknown measure %q", t.ID, m)
			}
		}
		c.techniqueByID[key] = i
	}
	return c, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Categories() []SourceCategory {
	return append([]SourceCategory(nil), c.categories...)
}

// Measures фильтрует меры по домену и типу без учёта регистра. Пустой
// фильтр пропускает всё.
func (c *Catalog) Measures(domain, kind string) []Measure {
	out := make([]Measure, 0, len(c.measures))
	for _, m := range c.measures {
		if domain != "" && normalize(m.Domain) != normalize(domain) {
			continue
		}
		if kind != "" && normalize(m.Type) != normalize(kind) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (c *Catalog) Techniques(tactic string) []Technique {
	out := make([]Technique, 0, len(c.techniques))
	for _, t := range c.techniques {
		if tactic != "" && normalize(t.Tactic) != normalize(tactic) {
			continue
		}
		t.Measures = append([]string(nil), t.Measures...)
		out = append(out, t)
	}
	return out
}

func (c *Catalog) Category(code string) (SourceCategory, bool) {
	i, ok := c.categoryByCode[normalize(code)]
	if !ok {
		return SourceCategory{}, false
	}
	return c.categories[i], true
}

func (c *Catalog) Measure(code string) (Measure, bool) {
	i, ok := c.measureByCode[normalize(code)]
	if !ok {
		return Measure{}, false
	}
	return c.measures[i], true
}

func (c *Catalog) Technique(id string) (Technique, bool) {
	i, ok := c.techniqueByID[normalize(id)]
	if !ok {
		return Technique{}, false
	}
	t := c.techniques[i]
	t.Measures = append([]string(nil), t.Measures...)
	return t, true
}

// RecommendedMeasures собирает без повторов меры, рекомендованные для
// техник, по порядку кодов. Неизвестные техники пропускаются.
func (c *Catalog) RecommendedMeasures(techniqueIDs ...string) []string {
	set := map[string]struct{}{}
	for _, id := range techniqueIDs {
		t, ok := c.Technique(id)
		if !ok {
			continue
		}
		for _, m := range t.Measures {
			set[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Search ищет keyword во всех справочниках.
func (c *Catalog) Search(keyword string) (cats []SourceCategory, measures []Measure, techniques []Technique) {
	k := normalize(keyword)
	if k == "" {
		return nil, nil, nil
	}
	for _, sc := range c.categories {
		if strings.Contains(normalize(sc.Code+" "+sc.Name+" "+sc.Description), k) {
			cats = append(cats, sc)
		}
	}
	for _, m := range c.measures {
		if strings.Contains(normalize(m.Code+" "+m.Name+" "+m.Domain), k) {
			measures = append(measures, m)
		}
	}
	for _, t := range c.techniques {
		if strings.Contains(normalize(t.ID+" "+t.Name+" "+t.Tactic), k) {
			techniques = append(techniques, t)
		}
	}
	return cats, measures, techniques
}
