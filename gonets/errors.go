package gonets

import "errors"

// Errors
var (
	ErrMalformedTopology     = errors.New("malformed topology: node has no connectors")
	ErrUnsupportedSpacegroup = errors.New("unsupported space group")
	ErrBadCell               = errors.New("degenerate unit cell")
	ErrBadNetExpr            = errors.New("bad net description")
	ErrBadCatalogParam       = errors.New("bad catalog param")
	ErrTopologyNotFound      = errors.New("topology not found")
	ErrUnmarshal             = errors.New("unmarshal failed")
)
