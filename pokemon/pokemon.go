package pokemon

import (
	"context"
	"encoding/json"
)

// Pokemon is the single entity served by the API.
type Pokemon struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Evolutions []string `json:"evolutions"`
}

// Fields holds the mutable part of a record. Create and update requests carry
// only these; the id always comes from the request path.
type Fields struct {
	Name       string   `json:"name"`
	Evolutions []string `json:"evolutions"`
}

// Gateway is the store collaborator the cache is reconciled against.
// Implementations must bind every value as a query parameter.
type Gateway interface {
	// FetchAll returns every stored record ordered by id.
	FetchAll(ctx context.Context) ([]Pokemon, error)
	// Insert appends a row. It does not check uniqueness, use Exists first.
	Insert(ctx context.Context, p Pokemon) error
	// Update replaces name and evolutions of the row with p.ID. No-op when absent.
	Update(ctx context.Context, p Pokemon) error
	// Delete removes the row with the given id. No-op when absent.
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a row with the given id is stored.
	Exists(ctx context.Context, id int64) (bool, error)
}

// New builds a record from an id and request fields.
func New(id int64, f Fields) Pokemon {
	return Pokemon{
		ID:         id,
		Name:       f.Name,
		Evolutions: cloneStrings(f.Evolutions),
	}
}

// Clone returns a deep copy so callers never share the evolutions backing array.
func (p Pokemon) Clone() Pokemon {
	p.Evolutions = cloneStrings(p.Evolutions)
	return p
}

// Apply replaces name and evolutions in full.
func (p *Pokemon) Apply(f Fields) {
	p.Name = f.Name
	p.Evolutions = cloneStrings(f.Evolutions)
}

// MarshalJSON renders a nil evolutions list as [] instead of null.
func (p Pokemon) MarshalJSON() ([]byte, error) {
	type alias Pokemon
	out := alias(p)
	if out.Evolutions == nil {
		out.Evolutions = []string{}
	}
	return json.Marshal(out)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
