package capability

import (
	"fmt"
)

// Descriptor is the immutable metadata and handler binding for one
// capability. Descriptors are created once per scan pass and never
// mutated; a parameter-list change requires replacing the whole
// descriptor.
type Descriptor struct {
	Kind        Kind
	Name        string
	Title       string
	Description string

	// URI and MIMEType carry resource metadata; empty for tools and
	// prompts.
	URI      string
	MIMEType string

	Params  []ParamSpec
	Handler Handler

	// NotifierFactory resolves the hidden trailing parameter. When nil,
	// the binder falls back to the default bus-backed notifier.
	NotifierFactory NotifierFactory
}

// DescriptorOption configures descriptor construction
type DescriptorOption func(*Descriptor)

// WithName overrides the default "<serverName>_<handlerName>" name
func WithName(name string) DescriptorOption {
	return func(d *Descriptor) { d.Name = name }
}

// WithTitle sets the display title; defaults to the capability name
func WithTitle(title string) DescriptorOption {
	return func(d *Descriptor) { d.Title = title }
}

// WithDescription sets the description; defaults to the capability name
func WithDescription(description string) DescriptorOption {
	return func(d *Descriptor) { d.Description = description }
}

// WithParams sets the ordered parameter list
func WithParams(params ...ParamSpec) DescriptorOption {
	return func(d *Descriptor) { d.Params = params }
}

// WithResourceMeta attaches resource URI and MIME type metadata
func WithResourceMeta(uri, mimeType string) DescriptorOption {
	return func(d *Descriptor) {
		d.URI = uri
		d.MIMEType = mimeType
	}
}

// WithNotifierFactory sets the factory resolving the injected notifier
func WithNotifierFactory(factory NotifierFactory) DescriptorOption {
	return func(d *Descriptor) { d.NotifierFactory = factory }
}

// NewDescriptor constructs and validates a descriptor for a scanned
// handler. The capability name defaults to "<serverName>_<handlerName>"
// when no explicit name is supplied; title and description default to the
// name when empty.
//
// The hidden notifier slot is validated here, once, rather than
// re-derived at every dispatch: only the trailing parameter may be
// hidden.
func NewDescriptor(kind Kind, serverName, handlerName string, handler Handler, opts ...DescriptorOption) (Descriptor, error) {
	if !kind.Valid() {
		return Descriptor{}, fmt.Errorf("invalid capability kind: %q", kind)
	}
	if handler == nil {
		return Descriptor{}, fmt.Errorf("capability handler must not be nil")
	}
	if handlerName == "" {
		return Descriptor{}, fmt.Errorf("capability handler name must not be empty")
	}

	d := Descriptor{
		Kind:    kind,
		Handler: handler,
	}
	for _, opt := range opts {
		opt(&d)
	}

	if d.Name == "" {
		if serverName != "" {
			d.Name = serverName + "_" + handlerName
		} else {
			d.Name = handlerName
		}
	}
	if d.Title == "" {
		d.Title = d.Name
	}
	if d.Description == "" {
		d.Description = d.Name
	}

	if err := validateParams(d.Params); err != nil {
		return Descriptor{}, fmt.Errorf("capability %q: %w", d.Name, err)
	}

	return d, nil
}

// validateParams enforces name uniqueness and the trailing-only rule for
// the hidden slot
func validateParams(params []ParamSpec) error {
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.Name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter name: %q", p.Name)
		}
		seen[p.Name] = true

		if p.Hidden && i != len(params)-1 {
			return fmt.Errorf("hidden parameter %q must be the last declared parameter", p.Name)
		}
	}
	return nil
}

// InjectsNotifier reports whether the descriptor declares a hidden
// trailing parameter
func (d Descriptor) InjectsNotifier() bool {
	n := len(d.Params)
	return n > 0 && d.Params[n-1].Hidden
}

// VisibleParams returns the caller-supplied (non-hidden) parameters in
// declaration order
func (d Descriptor) VisibleParams() []ParamSpec {
	out := make([]ParamSpec, 0, len(d.Params))
	for _, p := range d.Params {
		if !p.Hidden {
			out = append(out, p)
		}
	}
	return out
}
