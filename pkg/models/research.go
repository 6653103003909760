package models

import (
	"encoding/json"
	"fmt"
)

// Location is where a firm practices.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country,omitempty"`
}

// Competitor is a rival firm found during research.
type Competitor struct {
	Name string `json:"name"`
	// Reviews and Rating are pointers so that a missing value can be told
	// apart from zero. Reviews is a float so fractional counts can be flagged.
	Reviews *float64 `json:"reviews"`
	Rating  *float64 `json:"rating"`
}

// GapEstimate is an estimated monthly loss for one marketing gap.
type GapEstimate struct {
	Category    string  `json:"category"`
	MonthlyLoss float64 `json:"monthlyLoss"`
}

// ResearchRecord is the structured research document a report is rendered
// from. Fields the pipeline does not know about are kept and written back
// unchanged.
type ResearchRecord struct {
	FirmName      string            `json:"firmName"`
	Website       string            `json:"website,omitempty"`
	Location      Location          `json:"location"`
	PracticeAreas []string          `json:"practiceAreas"`
	Competitors   []Competitor      `json:"competitors"`
	Gaps          []GapEstimate     `json:"gaps,omitempty"`
	HeroTotal     float64           `json:"heroTotal,omitempty"`
	Narrative     map[string]string `json:"narrative,omitempty"`
	ContactName   string            `json:"contactName,omitempty"`

	extra map[string]json.RawMessage
}

// recordFields are the JSON keys owned by ResearchRecord.
var recordFields = []string{
	"firmName", "website", "location", "practiceAreas", "competitors",
	"gaps", "heroTotal", "narrative", "contactName",
}

type researchAlias ResearchRecord

// UnmarshalJSON decodes known fields and keeps the rest.
func (r *ResearchRecord) UnmarshalJSON(data []byte) error {
	var alias researchAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range recordFields {
		delete(all, k)
	}

	*r = ResearchRecord(alias)
	if len(all) > 0 {
		r.extra = all
	}
	return nil
}

// MarshalJSON encodes known fields plus any preserved unknown fields.
func (r ResearchRecord) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(researchAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(r.extra)+len(recordFields))
	for k, v := range r.extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, fmt.Errorf("re-read record fields: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy of the record.
func (r *ResearchRecord) Clone() *ResearchRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.PracticeAreas = append([]string(nil), r.PracticeAreas...)
	c.Gaps = append([]GapEstimate(nil), r.Gaps...)

	if r.Competitors != nil {
		c.Competitors = make([]Competitor, len(r.Competitors))
		for i, comp := range r.Competitors {
			c.Competitors[i] = Competitor{
				Name:    comp.Name,
				Reviews: copyFloat(comp.Reviews),
				Rating:  copyFloat(comp.Rating),
			}
		}
	}
	if r.Narrative != nil {
		c.Narrative = make(map[string]string, len(r.Narrative))
		for k, v := range r.Narrative {
			c.Narrative[k] = v
		}
	}
	if r.extra != nil {
		c.extra = make(map[string]json.RawMessage, len(r.extra))
		for k, v := range r.extra {
			c.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v. Handy for building competitors in code.
func Float(v float64) *float64 {
	return &v
}
