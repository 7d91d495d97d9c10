package browser

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
)

// Form field origins, mirroring the control panel's change events.
const (
	FieldDevice     = "device"
	FieldBrowser    = "browser"
	FieldBreakpoint = "breakpoint"
)

// Change is one form change event: which field fired and its new value.
type Change struct {
	Field string `json:"field" form:"field"`
	Value string `json:"value" form:"value"`
}

// FormState holds the mutually-dependent control panel fields. Selecting a
// device preset fills and locks the size inputs; selecting a breakpoint
// clears the device and the sizes. The two are never both set.
type FormState struct {
	Browser      string `json:"browser" form:"browser"`
	Device       string `json:"device" form:"device"`
	Breakpoint   string `json:"breakpoint" form:"breakpoint"`
	Height       string `json:"height" form:"height"`
	Width        string `json:"width" form:"width"`
	SizeEnabled  bool   `json:"size_enabled"`
	SizeRequired bool   `json:"size_required"`
}

// NewFormState returns the pristine form: nothing selected, size inputs
// locked.
func NewFormState() FormState {
	return FormState{}
}

// Apply dispatches a change event by its origin field. Unrecognized
// origins are logged and leave the state untouched.
func (f *FormState) Apply(catalog *Catalog, change Change, logger *logging.Logger) {
	switch change.Field {
	case FieldDevice:
		f.applyDevice(catalog, change.Value, logger)
	case FieldBrowser:
		f.Browser = change.Value
	case FieldBreakpoint:
		f.Breakpoint = change.Value
		f.Device = ""
		f.Height = ""
		f.Width = ""
		f.SizeEnabled = false
		f.SizeRequired = false
	default:
		logger.Warn("unrecognized form field",
			zap.String("field", change.Field),
			zap.String("value", change.Value),
		)
	}
}

func (f *FormState) applyDevice(catalog *Catalog, value string, logger *logging.Logger) {
	if value == DeviceCustom {
		f.Device = value
		f.Breakpoint = ""
		f.Height = ""
		f.Width = ""
		f.SizeEnabled = true
		f.SizeRequired = true
		return
	}

	preset, ok := catalog.Lookup(value)
	if !ok {
		logger.Warn("unknown device preset", zap.String("device", value))
		return
	}

	f.Device = preset.Name
	f.Breakpoint = ""
	f.Height = strconv.Itoa(preset.Height)
	f.Width = strconv.Itoa(preset.Width)
	f.SizeEnabled = false
	f.SizeRequired = false
}

// Payload returns the submit payload. Height and width ride along whether
// they came from a preset or, for the custom device, from manual entry.
func (f *FormState) Payload() map[string]string {
	payload := map[string]string{
		"browser": f.Browser,
		"device":  f.Device,
		"height":  f.Height,
		"width":   f.Width,
	}
	if f.Breakpoint != "" {
		payload["breakpoint"] = f.Breakpoint
	}
	return payload
}
