package domain

// Entity is implemented by every record mirrored from a backend collection.
type Entity interface {
	EntityID() ID
}
