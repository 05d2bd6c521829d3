package naming

import "strings"

// reservedIdentifiers contains keywords common across the object-oriented
// target languages the renderer emits for. Generated class, property and
// method names must not shadow them.
var reservedIdentifiers = map[string]bool{
	"abstract":   true,
	"class":      true,
	"clone":      true,
	"const":      true,
	"default":    true,
	"delete":     true,
	"extends":    true,
	"final":      true,
	"function":   true,
	"implements": true,
	"import":     true,
	"interface":  true,
	"namespace":  true,
	"new":        true,
	"package":    true,
	"parent":     true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"self":       true,
	"static":     true,
	"super":      true,
	"this":       true,
	"var":        true,

	// Literals
	"true":  true,
	"false": true,
	"null":  true,
}

// isReservedIdentifier checks if a generated name is reserved.
func isReservedIdentifier(name string) bool {
	lowerName := strings.ToLower(name)
	if strings.HasPrefix(lowerName, "__") {
		return true
	}
	return reservedIdentifiers[lowerName]
}
