package format

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/entry"
)

// JSON serializes the complete entry, masked parameters included, into a
// JSON object with stable snake_case field names. In raw-object mode the
// structured map is handed through for sinks that serialize downstream.
type JSON struct {
	cfg     config.JSONFormatterConfig
	compact jsoniter.API
	pretty  jsoniter.API
}

// NewJSON creates the JSON formatter.
func NewJSON(cfg config.JSONFormatterConfig) *JSON {
	return &JSON{
		cfg:     cfg,
		compact: jsoniter.ConfigCompatibleWithStandardLibrary,
		pretty: jsoniter.Config{
			EscapeHTML:    true,
			IndentionStep: 2,
			SortMapKeys:   true,
		}.Froze(),
	}
}

func (f *JSON) Name() string { return NameJSON }

func (f *JSON) CanFormat(*Context) bool { return true }

func (f *JSON) Format(ctx *Context) Result {
	object := EntryObject(ctx.Entry)

	if f.cfg.RawObject || ctx.DisableStringFormatting {
		return SuccessRaw(object)
	}

	api := f.compact
	if f.cfg.Pretty {
		api = f.pretty
	}

	data, err := api.Marshal(object)
	if err != nil {
		// Serialization failures are replaced with a structured error
		// placeholder rather than aborting the entry.
		data, _ = api.Marshal(map[string]any{
			"error":   "Serialization failed",
			"message": err.Error(),
		})
	}

	return Success(string(data))
}

// EntryObject builds the stable snake_case representation of an entry.
// Optional fields are omitted when absent.
func EntryObject(e *entry.Entry) map[string]any {
	object := map[string]any{
		"id":          e.ID,
		"method_name": e.MethodName,
		"type_name":   e.TypeName,
		"success":     e.Success,
		"thread_id":   e.GoroutineID,
		"timestamp":   e.Timestamp,
	}
	if e.HasDuration {
		object["duration"] = e.Duration.Milliseconds()
	}
	if e.ExceptionType != "" {
		object["exception_type"] = e.ExceptionType
	}
	if e.ExceptionMessage != "" {
		object["exception_message"] = e.ExceptionMessage
	}
	if e.StackTrace != "" {
		object["stack_trace"] = e.StackTrace
	}
	if e.ActivityID != "" {
		object["activity_id"] = e.ActivityID
	}
	if len(e.InputParameters) > 0 {
		params := make([]map[string]any, 0, len(e.InputParameters))
		for _, p := range e.InputParameters {
			params = append(params, map[string]any{
				"name":  p.Name,
				"type":  p.Type,
				"value": serializable(p.Value),
			})
		}
		object["input_parameters"] = params
	}
	if e.OutputValue != nil {
		object["output_value"] = map[string]any{
			"type":  e.OutputValue.Type,
			"value": serializable(e.OutputValue.Value),
		}
	}
	return object
}

// serializable guards individual values against non-serializable types
// (channels, functions) by falling back to their fmt rendering.
func serializable(v any) any {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	if jsoniter.ConfigCompatibleWithStandardLibrary.Valid(quickMarshal(v)) {
		return v
	}
	return fmt.Sprintf("%v", v)
}

func quickMarshal(v any) []byte {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
