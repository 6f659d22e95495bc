package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/tasks.schema.json
var taskSchemaJSON string

const taskSchemaURL = "https://todolist.local/schema/tasks.schema.json"

// Problem is one defect found in a stored task document.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Verify checks a stored document against the task schema and for duplicate
// ids. A blank or null document is an empty list, as LoadAll reads it. The
// returned error is reserved for failures of the check itself, not for
// problems in the document.
func Verify(raw string) ([]Problem, error) {
	if trimmed := strings.TrimSpace(raw); trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(taskSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return []Problem{{Message: fmt.Sprintf("not valid JSON: %v", err)}}, nil
	}

	var problems []Problem
	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("validate: %w", err)
		}
		collectSchemaProblems(&problems, ve)
	}
	problems = append(problems, duplicateIDProblems(doc)...)
	sort.SliceStable(problems, func(i, j int) bool { return lessPath(problems[i].Path, problems[j].Path) })
	return problems, nil
}

// lessPath orders "[2].text" before "[10].id" by comparing the leading array
// index as a number. Paths without one sort first.
func lessPath(a, b string) bool {
	ai, arest, aok := splitIndex(a)
	bi, brest, bok := splitIndex(b)
	switch {
	case aok != bok:
		return !aok
	case aok && ai != bi:
		return ai < bi
	case aok:
		return arest < brest
	default:
		return a < b
	}
}

func splitIndex(p string) (int, string, bool) {
	if !strings.HasPrefix(p, "[") {
		return 0, p, false
	}
	end := strings.IndexByte(p, ']')
	if end < 0 {
		return 0, p, false
	}
	n, err := strconv.Atoi(p[1:end])
	if err != nil {
		return 0, p, false
	}
	return n, p[end+1:], true
}

func collectSchemaProblems(out *[]Problem, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, Problem{Path: pointerToPath(err.InstanceLocation), Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaProblems(out, cause)
	}
}

func duplicateIDProblems(doc interface{}) []Problem {
	items, ok := doc.([]interface{})
	if !ok {
		return nil
	}
	first := make(map[string]int)
	var out []Problem
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		num, ok := obj["id"].(json.Number)
		if !ok {
			continue
		}
		id := num.String()
		if prev, seen := first[id]; seen {
			out = append(out, Problem{
				Path:    fmt.Sprintf("[%d].id", i),
				Message: fmt.Sprintf("duplicate id %s (first at [%d])", id, prev),
			})
			continue
		}
		first[id] = i
	}
	return out
}

// pointerToPath turns "/2/text" into "[2].text".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}
