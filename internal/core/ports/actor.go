package ports

import "github.com/FelixFS3D/uixom/internal/core/domain"

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role domain.Role
}
