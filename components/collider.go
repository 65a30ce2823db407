package components

import (
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/google/uuid"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ColliderData is the descriptor a static wall was spawned from.
// Colliders are never mutated after creation.
type ColliderData struct {
	Body  gridmesh.Body
	Level uuid.UUID // owning level
}

var Collider = donburi.NewComponentType[ColliderData]()

// ObjectData is the wall's resolv object, positioned in world space.
type ObjectData struct {
	*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()
