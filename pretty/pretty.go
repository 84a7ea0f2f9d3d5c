package pretty

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// Format ...
type Format string

const (
	// XML renders the document as an XML property list.
	XML Format = "xml"
	// JSON ...
	JSON Format = "json"
	// YAML ...
	YAML Format = "yaml"
)

// ParseFormat ...
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case XML, JSON, YAML:
		return f, nil
	case "":
		return XML, nil
	default:
		return "", fmt.Errorf("unknown format (%s), should be one of: %s, %s, %s", s, XML, JSON, YAML)
	}
}

// Object ...
func Object(o interface{}) string {
	b, err := json.MarshalIndent(o, "", "\t")
	if err != nil {
		return fmt.Sprint(o)
	}
	return string(b)
}

// Document re-renders a property list document in the given format.
// Data values are rendered base64 encoded in JSON and YAML.
func Document(content string, format Format) (string, error) {
	var doc interface{}
	if _, err := plist.Unmarshal([]byte(content), &doc); err != nil {
		return "", fmt.Errorf("failed to parse property list: %w", err)
	}

	switch format {
	case XML:
		b, err := plist.MarshalIndent(doc, plist.XMLFormat, "\t")
		if err != nil {
			return "", fmt.Errorf("failed to render property list: %w", err)
		}
		return string(b), nil
	case JSON:
		b, err := json.MarshalIndent(normalize(doc), "", "\t")
		if err != nil {
			return "", fmt.Errorf("failed to render json: %w", err)
		}
		return string(b), nil
	case YAML:
		b, err := yaml.Marshal(normalize(doc))
		if err != nil {
			return "", fmt.Errorf("failed to render yaml: %w", err)
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, elem := range v {
			normalized[key] = normalize(elem)
		}
		return normalized
	case []interface{}:
		normalized := make([]interface{}, len(v))
		for i, elem := range v {
			normalized[i] = normalize(elem)
		}
		return normalized
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	default:
		return v
	}
}
