package capability

// ScanFilter vetoes registration of an individual handler before its
// descriptor is constructed. Returning false skips the handler; a veto is
// not an error.
type ScanFilter func(kind Kind, handlerName string) bool

// ScanReport is the outcome of scanning one instance: the descriptors
// that were built, and the handler names vetoed by the filter. Vetoes are
// reported here so callers can observe them programmatically instead of
// only through logs.
type ScanReport struct {
	Descriptors []Descriptor
	Vetoed      []string
}

// Scanner is the external descriptor-discovery collaborator. A scanner
// inspects an arbitrary instance and its declared handlers, reading
// per-handler and per-parameter metadata to build descriptors. The core
// never performs this discovery itself; it only consumes the report.
type Scanner interface {
	Scan(instance interface{}, filter ScanFilter) (ScanReport, error)
}
