package formbridge

import "github.com/xraph/formbridge/id"

// ID is the primary identifier type for all FormBridge entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// PageContext is the typed composite handle to one open page instance.
type PageContext = id.PageContext
