/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/appdata/codec"
)

func TestRaw_EncodesLikeInnerValue(t *testing.T) {
	values := []widget{
		DefaultValue[widget](),
		{ID: 42, Name: "full", Email: "full@example.com", Count: 100, Kind: "large", Tags: []string{"a", "b"}},
		{},
	}

	for _, v := range values {
		wantJSON, err := json.Marshal(v)
		require.NoError(t, err)
		gotJSON, err := json.Marshal(Wrap(v))
		require.NoError(t, err)
		assert.Equal(t, wantJSON, gotJSON)

		wantPack, err := codec.Marshal(&v)
		require.NoError(t, err)
		raw := Wrap(v)
		gotPack, err := codec.Marshal(&raw)
		require.NoError(t, err)
		assert.Equal(t, wantPack, gotPack)

		var back Raw[widget]
		require.NoError(t, json.Unmarshal(gotJSON, &back))
		assert.Equal(t, v, back.Value)

		var packed Raw[widget]
		require.NoError(t, codec.Unmarshal(gotPack, &packed))
		assert.Equal(t, v, packed.Value)
	}
}

func TestRaw_UnmarshalJSONIsStrict(t *testing.T) {
	r := Wrap(widget{Name: "keep"})

	err := json.Unmarshal([]byte(`{"id":1,"bogus":true}`), &r)
	require.Error(t, err)
	assert.Equal(t, "keep", r.Value.Name, "failed decode leaves the value untouched")

	err = r.UnmarshalJSON([]byte(`{"id":1} {"id":2}`))
	assert.Error(t, err)
}
