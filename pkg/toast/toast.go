package toast

// EventName is the window event the client listens for.
const EventName = "site:toast"

// Emitter dispatches a named client event with a JSON-encodable detail.
type Emitter interface {
	Emit(name string, detail any)
}

// Type is the toast level.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Show displays a toast. The client receives
// detail = {level: "success|error|warning|info", message: "..."}.
func Show(e Emitter, level Type, message string) {
	e.Emit(EventName, map[string]any{
		"level":   string(level),
		"message": message,
	})
}

func Success(e Emitter, message string) { Show(e, TypeSuccess, message) }
func Error(e Emitter, message string)   { Show(e, TypeError, message) }
func Warning(e Emitter, message string) { Show(e, TypeWarning, message) }
func Info(e Emitter, message string)    { Show(e, TypeInfo, message) }

// WithTitle shows a toast with a heading.
func WithTitle(e Emitter, level Type, title, message string) {
	e.Emit(EventName, map[string]any{
		"level":   string(level),
		"title":   title,
		"message": message,
	})
}
