package page

// DialogKind is the JavaScript dialog type.
type DialogKind string

const (
	DialogAlert   DialogKind = "alert"
	DialogConfirm DialogKind = "confirm"
	DialogPrompt  DialogKind = "prompt"
)

// Dialog is a pending JavaScript dialog.
type Dialog struct {
	ID          string     `json:"id"`
	Kind        DialogKind `json:"kind"`
	Message     string     `json:"message"`
	DefaultText string     `json:"default_text,omitempty"`
}

// State is the page snapshot delivered by the page collaborator. Revision
// increases with every DOM change; URL changes mean navigation.
type State struct {
	URL      string    `json:"url"`
	Revision uint64    `json:"revision"`
	Viewport Rect      `json:"viewport"`
	Elements []Element `json:"elements"`
	// FocusedID names the element holding keyboard focus, if any.
	FocusedID string `json:"focused_id,omitempty"`
	// VideoMode is set while media is playing fullscreen.
	VideoMode bool    `json:"video_mode"`
	Dialog    *Dialog `json:"dialog,omitempty"`
}

// Element looks up an element by id.
func (s State) Element(id string) (Element, bool) {
	if id == "" {
		return Element{}, false
	}
	for _, el := range s.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Focused returns the focused element, if any.
func (s State) Focused() (Element, bool) {
	return s.Element(s.FocusedID)
}
