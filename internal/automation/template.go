package automation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gestionale/internal/utils"
)

var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.\-]+)\s*\}\}`)

// RenderTemplate substitutes {{dotted.path}} variables against a variable
// bag. Unresolved variables render as an empty string; raw template syntax
// never leaks into the output and rendering never fails.
func RenderTemplate(template string, vars map[string]interface{}) string {
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		path := variablePattern.FindStringSubmatch(match)[1]
		value, ok := lookupPath(vars, path)
		if !ok || value == nil {
			return ""
		}
		return utils.NormalizeValue(value)
	})
}

// lookupPath walks a dotted path through nested maps and slices.
// Numeric segments index into slices.
func lookupPath(root map[string]interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var current interface{} = root
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		case []map[string]interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// buildVariableBag assembles the rendering context for one save: the
// record's own fields at the top level plus the participant details under
// "partecipanti".
func buildVariableBag(input SaveInput) map[string]interface{} {
	bag := make(map[string]interface{}, len(input.Data)+2)
	for key, value := range input.Data {
		bag[key] = value
	}
	if len(input.ParticipantsDetail) > 0 {
		bag["partecipanti"] = input.ParticipantsDetail
		bag["numeroPartecipanti"] = fmt.Sprintf("%d", len(input.ParticipantsDetail))
	}
	bag["recordId"] = input.ResourceID
	return bag
}
