package storage

// Store is the external key-value collaborator the reward logic runs
// against. Absence of a record is not an error: Load returns nil, nil
// when nothing is stored under the id. No compare-and-swap or locking
// is offered; concurrent writers for the same id can lose updates.
type Store interface {
	Load(id string) ([]byte, error)
	Save(id string, raw []byte) error
}
