package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects one of the history lists. The numeric values are persisted
// and sent over the wire, so they must never be renumbered.
type Kind uint16

const (
	WorkingFolder Kind = 1
	Board         Kind = 2
	Scenario      Kind = 3
)

var (
	ErrUnknownKind         = errors.New("unknown history kind")
	ErrLocationUnavailable = errors.New("config location unavailable")
	ErrNoWorkingFolder     = errors.New("working folder is not set")
)

var kindNames = map[Kind]string{
	WorkingFolder: "working_folder",
	Board:         "board",
	Scenario:      "scenario",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts either the name ("board") or the numeric tag ("2").
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name || s == fmt.Sprint(uint16(k)) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "%d", uint16(k))
	}
	return json.Marshal(uint16(k))
}

// Lists holds the recently used paths, most recent first.
type Lists struct {
	WorkingFolder []string `json:"working_folder"`
	BoardFile     []string `json:"board_file"`
	ScenarioFile  []string `json:"scenario_file"`
}

// Document is the persisted root of config.json.
type Document struct {
	History Lists `json:"history"`
}

func NewDocument() Document {
	return Document{History: Lists{
		WorkingFolder: []string{},
		BoardFile:     []string{},
		ScenarioFile:  []string{},
	}}
}

func (d *Document) list(k Kind) *[]string {
	switch k {
	case WorkingFolder:
		return &d.History.WorkingFolder
	case Board:
		return &d.History.BoardFile
	case Scenario:
		return &d.History.ScenarioFile
	}
	return nil
}

func (d *Document) normalize() {
	for _, k := range []Kind{WorkingFolder, Board, Scenario} {
		if l := d.list(k); *l == nil {
			*l = []string{}
		}
	}
}

// Marshal never fails: an unmarshalable document is replaced by an empty one.
func (d Document) Marshal() []byte {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		data, _ = json.MarshalIndent(NewDocument(), "", "  ")
	}
	return data
}

func parseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewDocument(), err
	}
	doc.normalize()
	return doc, nil
}

func copyDocument(d Document) Document {
	out := NewDocument()
	out.History.WorkingFolder = append(out.History.WorkingFolder, d.History.WorkingFolder...)
	out.History.BoardFile = append(out.History.BoardFile, d.History.BoardFile...)
	out.History.ScenarioFile = append(out.History.ScenarioFile, d.History.ScenarioFile...)
	return out
}

// prepend puts path at the front and keeps only the first occurrence of
// every value. A positive max truncates the result.
func prepend(list []string, path string, max int) []string {
	seen := map[string]bool{path: true}
	out := []string{path}
	for _, p := range list {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
