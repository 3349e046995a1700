package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ValueScan(t *testing.T) {
	tests := []struct {
		name string
		in   StringList
		want StringList
	}{
		{name: "Values keep order", in: StringList{"Bio", "Local"}, want: StringList{"Bio", "Local"}},
		{name: "Quotes and commas", in: StringList{"a,b", `say "hi"`}, want: StringList{"a,b", `say "hi"`}},
		{name: "Nil becomes empty", in: nil, want: StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.in.Value()
			require.NoError(t, err)

			var out StringList
			require.NoError(t, out.Scan(v))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestStringList_ScanNil(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestStringList_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Images StringList `json:"images"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[]}`, string(b))
}

func TestPickupInfo(t *testing.T) {
	info, err := ParsePickupInfo(`{"location":"Market square","hours":"Sat 8-12"}`)
	require.NoError(t, err)
	assert.Equal(t, "Market square", info.Location)
	assert.False(t, info.IsZero())

	_, err = ParsePickupInfo("not json")
	assert.Error(t, err)

	v, err := info.Value()
	require.NoError(t, err)

	var scanned PickupInfo
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, info, scanned)

	var fromString PickupInfo
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, info, fromString)

	b, err := json.Marshal(PickupInfo{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestCustomerPreferences_Scan(t *testing.T) {
	var prefs CustomerPreferences
	require.NoError(t, prefs.Scan(`{"notifications":true}`))
	assert.True(t, prefs.Notifications)
	assert.Equal(t, []string{}, prefs.FavoriteCategories)

	assert.Error(t, prefs.Scan(42))
}

func TestProductPriceIsJSONNumber(t *testing.T) {
	b, err := json.Marshal(Product{Price: decimal.RequireFromString("4.5")})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 4.5, out["price"])
	assert.Equal(t, []interface{}{}, out["images"])
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleProducer.Valid())
	assert.False(t, UserRole("admin").Valid())
}
