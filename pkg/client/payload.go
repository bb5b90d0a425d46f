package client

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	unavailableDescription = "Unavailable"
	snippetLength          = 200
)

// extractErrorMessage builds the message for a non-200 response, preferring
// whatever the provider put in the body.
func extractErrorMessage(statusCode int, body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = "Unknown error"
		}
		return fmt.Sprintf("OpenWeatherMap error %d: %s", statusCode, text)
	}

	payload, _ := decoded.(map[string]any)
	message := payload["message"]
	cod := payload["cod"]

	switch {
	case truthy(message) && truthy(cod):
		return fmt.Sprintf("OpenWeatherMap error %s: %s", formatValue(cod), formatValue(message))
	case truthy(message):
		return fmt.Sprintf("OpenWeatherMap error: %s", formatValue(message))
	default:
		return fmt.Sprintf("OpenWeatherMap error %d", statusCode)
	}
}

// parsePayload decodes a successful response body into a generic tree.
func parsePayload(body []byte) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, newError(KindMalformedResponse,
			"Failed to parse response JSON: "+snippet(body), err)
	}

	payload, ok := decoded.(map[string]any)
	if !ok {
		return nil, newError(KindMalformedResponse, malformedDataMessage,
			fmt.Errorf("top-level JSON value is %T, want object", decoded))
	}
	return payload, nil
}

func snippet(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > snippetLength {
		runes = runes[:snippetLength]
	}
	return string(runes)
}

// describe returns the first condition's description.
func describe(payload map[string]any) string {
	conditions, ok := payload["weather"].([]any)
	if !ok || len(conditions) == 0 {
		return unavailableDescription
	}
	first, ok := conditions[0].(map[string]any)
	if !ok {
		return unavailableDescription
	}
	description, ok := first["description"].(string)
	if !ok {
		return unavailableDescription
	}
	return description
}

func cityName(payload map[string]any, fallback string) string {
	if name, ok := payload["name"].(string); ok {
		return name
	}
	return fallback
}

func floatField(fields map[string]any, key string) (float64, error) {
	switch v := fields[key].(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("field %q is missing", key)
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

func intField(fields map[string]any, key string) (int, error) {
	switch v := fields[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("field %q is not finite", key)
		}
		return int(math.Trunc(v)), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return i, nil
	case nil:
		return 0, fmt.Errorf("field %q is missing", key)
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
