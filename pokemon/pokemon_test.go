package pokemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPokemon_CloneDoesNotAlias(t *testing.T) {
	original := Pokemon{ID: 1, Name: "Bulbasaur", Evolutions: []string{"Ivysaur", "Venusaur"}}

	clone := original.Clone()
	clone.Evolutions[0] = "changed"

	assert.Equal(t, "Ivysaur", original.Evolutions[0])
}

func TestNew_CopiesFields(t *testing.T) {
	fields := Fields{Name: "Squirtle", Evolutions: []string{"Wartortle"}}

	p := New(7, fields)
	fields.Evolutions[0] = "changed"

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Squirtle", p.Name)
	assert.Equal(t, []string{"Wartortle"}, p.Evolutions)
}

func TestPokemon_MarshalNilEvolutions(t *testing.T) {
	data, err := json.Marshal(Pokemon{ID: 25, Name: "Pikachu"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":25,"name":"Pikachu","evolutions":[]}`, string(data))
}

func TestFields_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr bool
	}{
		{name: "valid", fields: Fields{Name: "Bulbasaur", Evolutions: []string{"Ivysaur"}}},
		{name: "no evolutions", fields: Fields{Name: "Tauros"}},
		{name: "missing name", fields: Fields{Evolutions: []string{"Ivysaur"}}, wantErr: true},
		{name: "blank evolution", fields: Fields{Name: "Bulbasaur", Evolutions: []string{""}}, wantErr: true},
		{name: "name too long", fields: Fields{Name: strings.Repeat("x", maxLabelLength+1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := ParseID(raw)
		assert.True(t, IsInvalidInput(err), "expected invalid input for %q", raw)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name   string
		err    error
		is     func(error) bool
		status int
	}{
		{name: "not found", err: NotFound(1), is: IsNotFound, status: http.StatusNotFound},
		{name: "conflict", err: Conflict(1), is: IsConflict, status: http.StatusConflict},
		{name: "store failure", err: StoreFailure("insert", cause), is: IsStoreFailure, status: http.StatusInternalServerError},
		{name: "lock failure", err: LockFailure("list"), is: IsLockFailure, status: http.StatusInternalServerError},
		{name: "invalid input", err: InvalidInput(cause), is: IsInvalidInput, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.NotEmpty(t, Message(tt.err))
		})
	}

	assert.False(t, IsNotFound(cause))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(cause))
	assert.Equal(t, "", TextCode(cause))
}

func TestInvalidInput_FieldErrors(t *testing.T) {
	err := InvalidInput(Fields{Name: "", Evolutions: []string{"Ivysaur", ""}}.Validate())

	require.True(t, IsInvalidInput(err))
	fields := FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "evolutions.1")

	assert.Nil(t, FieldErrors(InvalidInput(errors.New("id must be a positive integer"))))
	assert.Equal(t, "invalid input: id must be a positive integer", Message(InvalidInput(errors.New("id must be a positive integer"))))
}
