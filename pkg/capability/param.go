package capability

// ParamSpec describes one declared handler parameter. Hidden parameters
// are satisfied by framework injection (the notifier slot) and are
// excluded from the schema and from required-argument validation.
type ParamSpec struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Hidden      bool         `json:"hidden,omitempty"`
	Type        SemanticType `json:"type"`
}

// Param creates a required parameter spec. Parameters are required by
// default; use Optional to clear the flag.
func Param(name, description string, semanticType SemanticType) ParamSpec {
	return ParamSpec{
		Name:        name,
		Description: description,
		Required:    true,
		Type:        semanticType,
	}
}

// Optional returns a copy of the parameter with the required flag cleared
func (p ParamSpec) Optional() ParamSpec {
	p.Required = false
	return p
}

// NotifierParam creates the hidden trailing parameter that receives the
// injected notifier. It never appears in the schema and is only legal as
// the last declared parameter.
func NotifierParam() ParamSpec {
	return ParamSpec{
		Name:   "notifier",
		Hidden: true,
		Type:   TypeObject,
	}
}
