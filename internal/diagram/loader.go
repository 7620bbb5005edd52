package diagram

import "fmt"

const (
	cdnScriptUrl = "https://unpkg.com/bpmn-js@17.0.2/dist/bpmn-modeler.development.js"
	cdnStyleUrl  = "https://unpkg.com/bpmn-js@17.0.2/dist/assets/diagram-js.css"

	scriptElemId = "flowdeck-bpmn-script"
	styleElemId  = "flowdeck-bpmn-style"
)

// LoaderScript returns the snippet that injects the CDN widget into the
// page. Injection is guarded by element-id presence checks so repeated
// screen renders load the library exactly once.
func LoaderScript(containerId string, editable bool) string {
	mode := "viewer"
	if editable {
		mode = "modeler"
	}

	return fmt.Sprintf(`(function () {
	if (!document.getElementById(%[1]q)) {
		var s = document.createElement("script");
		s.id = %[1]q;
		s.src = %[2]q;
		document.head.appendChild(s);
	}
	if (!document.getElementById(%[3]q)) {
		var l = document.createElement("link");
		l.id = %[3]q;
		l.rel = "stylesheet";
		l.href = %[4]q;
		document.head.appendChild(l);
	}
	window.flowdeckDiagramMode = %[5]q;
	window.flowdeckDiagramContainer = %[6]q;
})();`, scriptElemId, cdnScriptUrl, styleElemId, cdnStyleUrl, mode, containerId)
}
