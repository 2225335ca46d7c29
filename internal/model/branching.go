package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Operator compares a respondent's answer against a condition value
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

// BranchingRule routes the respondent to a next section based on the
// answer to one question in the same section. Conditions are evaluated
// in authored order; the first match wins.
type BranchingRule struct {
	QuestionID           string      `json:"questionId" bson:"questionId"`
	Conditions           []Condition `json:"conditions" bson:"conditions"`
	DefaultNextSectionID SectionRef  `json:"defaultNextSectionId" bson:"defaultNextSectionId"`
}

// Condition is one (operator, value, target) triple of a branching rule
type Condition struct {
	Operator      Operator   `json:"operator" bson:"operator"`
	Value         string     `json:"value" bson:"value"`
	NextSectionID SectionRef `json:"nextSectionId" bson:"nextSectionId"`
}

// Matches evaluates the condition against a stringified answer. Both
// sides are trimmed; comparison is case-sensitive. Unknown operators
// never match.
func (c *Condition) Matches(answer string) bool {
	a := strings.TrimSpace(answer)
	v := strings.TrimSpace(c.Value)
	switch c.Operator {
	case OpEquals:
		return a == v
	case OpNotEquals:
		return a != v
	case OpContains:
		return strings.Contains(a, v)
	case OpNotContains:
		return !strings.Contains(a, v)
	}
	return false
}

// EndSurveySentinel is the wire encoding of the end-of-survey target.
const EndSurveySentinel = "END_SURVEY"

type sectionRefKind int

const (
	refNextInOrder sectionRefKind = iota
	refExplicit
	refEndSurvey
)

// SectionRef is the target of a branching decision: an explicit section
// id, "next section in order" (wire: null), or "end the survey now"
// (wire: "END_SURVEY"). The zero value is next-in-order.
type SectionRef struct {
	kind sectionRefKind
	id   string
}

// NextInOrder returns the ref that advances to the next-higher order.
func NextInOrder() SectionRef { return SectionRef{} }

// EndSurvey returns the ref that terminates the survey.
func EndSurvey() SectionRef { return SectionRef{kind: refEndSurvey} }

// ToSection returns a ref targeting a specific section id.
func ToSection(id string) SectionRef { return SectionRef{kind: refExplicit, id: id} }

func (r SectionRef) IsNextInOrder() bool { return r.kind == refNextInOrder }
func (r SectionRef) IsEndSurvey() bool   { return r.kind == refEndSurvey }
func (r SectionRef) IsExplicit() bool    { return r.kind == refExplicit }

// SectionID returns the target section id, or "" unless explicit.
func (r SectionRef) SectionID() string {
	if r.kind == refExplicit {
		return r.id
	}
	return ""
}

func (r SectionRef) String() string {
	switch r.kind {
	case refEndSurvey:
		return EndSurveySentinel
	case refExplicit:
		return r.id
	default:
		return "<next>"
	}
}

func refFromString(s string) SectionRef {
	switch s {
	case "":
		return NextInOrder()
	case EndSurveySentinel:
		return EndSurvey()
	default:
		return ToSection(s)
	}
}

func (r SectionRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case refEndSurvey:
		return json.Marshal(EndSurveySentinel)
	case refExplicit:
		return json.Marshal(r.id)
	default:
		return []byte("null"), nil
	}
}

func (r *SectionRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NextInOrder()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = refFromString(s)
	return nil
}

func (r SectionRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch r.kind {
	case refEndSurvey:
		return bson.MarshalValue(EndSurveySentinel)
	case refExplicit:
		return bson.MarshalValue(r.id)
	default:
		return bson.TypeNull, nil, nil
	}
}

func (r *SectionRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*r = NextInOrder()
		return nil
	case bson.TypeString:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		*r = refFromString(s)
		return nil
	}
	return fmt.Errorf("cannot decode %v into SectionRef", t)
}
