package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/jpfill/internal/model"
)

// applyTemplate locates a control and assigns a value the way the fill
// engine does, then reports whether the control was found.
const applyTemplate = `(function(sel, value, kind) {
  var el = null;
  if (kind === "radio" && sel.indexOf("[name=") >= 0) {
    el = document.querySelector(sel + '[value="' + CSS.escape(value) + '"]');
  } else if (sel.charAt(0) === "#") {
    el = document.getElementById(sel.slice(1));
  } else {
    el = document.querySelector(sel);
  }
  if (!el) { return false; }
  if (kind === "checkbox") {
    el.checked = value === "true";
  } else if (kind === "radio") {
    el.checked = true;
  } else {
    var proto = Object.getPrototypeOf(el);
    var desc = Object.getOwnPropertyDescriptor(proto, "value");
    if (desc && desc.set) { desc.set.call(el, value); } else { el.value = value; }
  }
  ["input", "change", "blur"].forEach(function(type) {
    el.dispatchEvent(new Event(type, { bubbles: type !== "blur" }));
  });
  return true;
})(%s, %s, %s)`

// applyScript returns the script that writes o, or false when o is not a
// counted native outcome.
func applyScript(o model.FieldOutcome) (string, bool) {
	if !o.Status.Counted() {
		return "", false
	}
	var kind string
	switch o.Family {
	case model.FamilyNativeText, model.FamilyNativeSelect:
		kind = "value"
	case model.FamilyNativeCheckbox:
		kind = "checkbox"
	case model.FamilyNativeRadio:
		kind = "radio"
	default:
		return "", false
	}
	return fmt.Sprintf(applyTemplate, jsString(querySelector(o.Selector)), jsString(o.Value), jsString(kind)), true
}

// querySelector anchors positional paths at the body, which is where
// dom.Element.Selector starts counting.
func querySelector(sel string) string {
	if strings.HasPrefix(sel, "#") || strings.Contains(sel, "[name=") {
		return sel
	}
	return "body > " + sel
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
