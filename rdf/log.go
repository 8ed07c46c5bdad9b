package rdf

import (
	"github.com/tliron/commonlog"
)

var (
	rdfaLog   = commonlog.GetLogger("semargl.rdfa")
	rdfxmlLog = commonlog.GetLogger("semargl.rdfxml")
	jsonldLog = commonlog.GetLogger("semargl.jsonld")
	vocabLog  = commonlog.GetLogger("semargl.vocab")

	processorLog = commonlog.GetLogger("semargl.processor")
)

// DiagnosticHandler receives processor diagnostics. The class is one of the
// rdfa:Info, rdfa:Warning, rdfa:Error, rdfa:UnresolvedCURIE or
// rdfa:UnresolvedTerm IRIs. Handlers are notified whether or not the
// processor graph is written to the sink.
type DiagnosticHandler interface {
	Info(class, message string)
	Warning(class, message string)
	Error(class, message string)
}

// LogDiagnostics forwards diagnostics to a commonlog logger.
type LogDiagnostics struct {
	Logger commonlog.Logger
}

func (d LogDiagnostics) logger() commonlog.Logger {
	if d.Logger == nil {
		return rdfaLog
	}
	return d.Logger
}

func (d LogDiagnostics) Info(class, message string) {
	d.logger().Info(message, "class", class)
}

func (d LogDiagnostics) Warning(class, message string) {
	d.logger().Warning(message, "class", class)
}

func (d LogDiagnostics) Error(class, message string) {
	d.logger().Error(message, "class", class)
}

// Diagnostic is one recorded processor diagnostic.
type Diagnostic struct {
	Level   string // "info", "warning" or "error"
	Class   string
	Message string
}

// DiagnosticRecorder keeps diagnostics in memory.
type DiagnosticRecorder struct {
	Diagnostics []Diagnostic
}

func (r *DiagnosticRecorder) Info(class, message string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: "info", Class: class, Message: message})
}

func (r *DiagnosticRecorder) Warning(class, message string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: "warning", Class: class, Message: message})
}

func (r *DiagnosticRecorder) Error(class, message string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: "error", Class: class, Message: message})
}
