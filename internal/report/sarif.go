package report

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
	Fixes     []sarifFix   `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt     `json:"artifactLocation"`
	Region           *sarifRegion `json:"region,omitempty"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndColumn   int `json:"endColumn"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifRuleID  = "typos"
)

// SARIF buffers typos and writes a single SARIF 2.1.0 document when the run
// is finalized.
type SARIF struct {
	out *Output
	log *logrus.Entry

	mu      sync.Mutex
	results []sarifResult
}

// NewSARIF returns an empty SARIF reporter.
func NewSARIF(out *Output, log *logrus.Entry) *SARIF {
	return &SARIF{out: out, log: log}
}

func (s *SARIF) Report(msg Message) error {
	switch m := msg.(type) {
	case Typo:
		s.mu.Lock()
		s.results = append(s.results, sarifResultFor(m))
		s.mu.Unlock()
	case Error:
		if s.log != nil {
			s.log.Error(m.String())
		}
	}
	return nil
}

// GenerateFinalResult writes the collected results.
func (s *SARIF) GenerateFinalResult() error {
	s.mu.Lock()
	results := s.results
	s.mu.Unlock()
	if results == nil {
		results = []sarifResult{}
	}
	doc := sarif{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:  "typoscan",
				Rules: []sarifRule{{ID: sarifRuleID, ShortDescription: sarifMessage{Text: "misspelled word"}}},
			}},
			Results: results,
		}},
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := s.out.Write(b); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	return nil
}

func sarifResultFor(m Typo) sarifResult {
	res := sarifResult{
		RuleID: sarifRuleID,
		Level:  "error",
	}
	if len(m.Corrections) == 0 {
		res.Message.Text = fmt.Sprintf("`%s` is disallowed", m.Typo)
	} else {
		res.Message.Text = fmt.Sprintf("`%s` should be `%s`", m.Typo, m.Corrections[0])
		for _, c := range m.Corrections {
			res.Fixes = append(res.Fixes, sarifFix{Description: sarifMessage{Text: "replace with `" + c + "`"}})
		}
	}
	loc := sarifLoc{PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: m.Path}}}
	if !m.InFilename() {
		col := column(m.Line, m.ByteOffset)
		loc.PhysicalLocation.Region = &sarifRegion{
			StartLine:   m.LineNum,
			StartColumn: col,
			EndColumn:   col + len([]rune(m.Typo)),
		}
	}
	res.Locations = []sarifLoc{loc}
	return res
}
