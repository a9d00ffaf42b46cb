package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/shivarm/code-guardian/internal/types"
)

// Rule identifiers for the hygiene checks in SARIF output.
const (
	UnusedImportRuleID = "unused-import"
	UnusedModuleRuleID = "unused-module"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
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
	StartLine int `json:"startLine"`
}

// RuleID derives a stable SARIF rule id from a rule name.
func RuleID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.Join(strings.Fields(id), "-")
	if id == "" {
		return types.DefaultRuleName
	}
	return id
}

// WriteSARIF writes the results as SARIF 2.1.0. Secrets are errors; unused
// imports and modules are notes.
func WriteSARIF(w io.Writer, res Results) error {
	return WriteSARIFWithStats(w, res, nil)
}

// WriteSARIFWithStats is WriteSARIF with extra run properties.
func WriteSARIFWithStats(w io.Writer, res Results, stats map[string]int) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "codeguardian",
			InformationURI: "https://github.com/shivarm/code-guardian",
		}},
		Results: []sarifResult{},
	}
	index := map[string]int{}
	ruleIndex := func(id, name, desc string) int {
		if i, ok := index[id]; ok {
			return i
		}
		index[id] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: id, Name: name, ShortDescription: sarifMessage{Text: desc}})
		return index[id]
	}

	for _, ff := range res.Findings {
		uri := toURI(ff.File)
		for _, m := range ff.Matches {
			id := RuleID(m.Rule)
			run.Results = append(run.Results, sarifResult{
				RuleID:    id,
				RuleIndex: ruleIndex(id, m.Rule, m.Rule+" pattern matched"),
				Level:     "error",
				Message:   sarifMessage{Text: m.Rule + " detected"},
				Locations: []sarifLoc{{PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: uri},
					Region:           &sarifRegion{StartLine: m.LineNumber},
				}}},
			})
		}
	}
	for _, u := range res.UnusedImports {
		for _, id := range u.Identifiers {
			run.Results = append(run.Results, sarifResult{
				RuleID:    UnusedImportRuleID,
				RuleIndex: ruleIndex(UnusedImportRuleID, "Unused import", "Imported identifier is never referenced"),
				Level:     "note",
				Message:   sarifMessage{Text: "'" + id + "' is imported but never used"},
				Locations: []sarifLoc{{PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: toURI(u.File)}}}},
			})
		}
	}
	for _, m := range res.UnusedModules {
		run.Results = append(run.Results, sarifResult{
			RuleID:    UnusedModuleRuleID,
			RuleIndex: ruleIndex(UnusedModuleRuleID, "Unused module", "Module is not imported by any scanned file"),
			Level:     "note",
			Message:   sarifMessage{Text: "module is never imported"},
			Locations: []sarifLoc{{PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: toURI(m)}}}},
		})
	}
	if len(stats) > 0 {
		run.Properties = map[string]any{}
		for k, v := range stats {
			run.Properties[k] = v
		}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toURI(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
