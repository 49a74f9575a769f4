package data

import (
	"bytes"
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// Decode parses a data table written as either JSON or YAML into target. YAML input is first
// turned into JSON-compatible values, so json struct tags and json.Unmarshaler implementations
// apply to both formats.
func Decode(data []byte, target interface{}) error {
	return decode(data, target, false)
}

// DecodeStrict is like Decode, but fails on any field that target does not declare, so that a
// misspelled column in a table is reported instead of silently ignored.
func DecodeStrict(data []byte, target interface{}) error {
	return decode(data, target, true)
}

func decode(data []byte, target interface{}, strict bool) error {
	jsonData := data
	if !json.Valid(data) {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
		converted, err := jsonCompatible(raw, "")
		if err != nil {
			return err
		}
		if jsonData, err = json.Marshal(converted); err != nil {
			return err
		}
	}
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	if strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(target)
}

// jsonCompatible rebuilds a parsed YAML value so that every map has string keys. path locates
// the value for error messages.
func jsonCompatible(value interface{}, path string) (interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			converted, err := jsonCompatible(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			converted, err := jsonCompatible(item, path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			key, ok := k.(string)
			if !ok {
				if path == "" {
					path = "top level"
				}
				return nil, fmt.Errorf("map key %v at %s is a %T, but only string keys are allowed", k, path, k)
			}
			converted, err := jsonCompatible(item, path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}
